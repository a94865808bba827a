package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/lineage-bench/internal/quiz"
	"github.com/stellarlinkco/lineage-bench/internal/record"
)

type verifyOptions struct {
	input string
}

func newVerifyCmd() *cobra.Command {
	var opts verifyOptions

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-derive the ground truth of a quiz CSV and check it",
		Long: "Parses the relation statements and answer options back out of each rendered quiz,\n" +
			"re-runs the relationship classifier and checks the recorded category and correct\n" +
			"answer index against the derived ones.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "quiz CSV file (default: stdin)")

	return cmd
}

func runVerify(cmd *cobra.Command, opts *verifyOptions) error {
	in := cmd.InOrStdin()
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("verify: open %q: %w", opts.input, err)
		}
		defer f.Close()
		in = f
	}

	rows, err := record.ReadQuizRows(in)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("verify: no quiz rows in input")
	}

	failures := 0
	for i, row := range rows {
		if err := quiz.Verify(row.Text, row.Answer); err != nil {
			failures++
			fmt.Fprintf(cmd.ErrOrStderr(), "row %d (%s): %v\n", i+1, row.Category, err)
			continue
		}

		p, err := quiz.ParseQuiz(row.Text)
		if err != nil {
			failures++
			fmt.Fprintf(cmd.ErrOrStderr(), "row %d (%s): %v\n", i+1, row.Category, err)
			continue
		}
		got, err := p.Classify()
		if err != nil {
			failures++
			fmt.Fprintf(cmd.ErrOrStderr(), "row %d (%s): %v\n", i+1, row.Category, err)
			continue
		}
		if got != row.Category {
			failures++
			fmt.Fprintf(cmd.ErrOrStderr(), "row %d: recorded category %s but classifier derived %s\n", i+1, row.Category, got)
		}
	}

	if failures > 0 {
		return fmt.Errorf("verify: %d of %d quizzes failed verification", failures, len(rows))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "All %d quizzes verified\n", len(rows))
	return nil
}
