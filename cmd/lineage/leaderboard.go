package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/lineage-bench/internal/store"
)

type leaderboardOptions struct {
	limit int
	model string
}

func newLeaderboardCmd(st *cliState) *cobra.Command {
	var opts leaderboardOptions

	cmd := &cobra.Command{
		Use:     "leaderboard",
		Short:   "Show stored model rankings",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(cmd, st, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max rows (0 = default)")
	cmd.Flags().StringVar(&opts.model, "model", "", "show stored history for one model instead")

	return cmd
}

func runLeaderboard(cmd *cobra.Command, st *cliState, opts *leaderboardOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("leaderboard: missing config (internal error)")
	}

	s, err := store.FromConfig(st.cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()

	if opts.model != "" {
		history, err := s.ModelHistory(cmd.Context(), opts.model)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Fprintf(out, "No stored scores for %s\n", opts.model)
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tSIZE\tSCORE\tCORRECT\tINCORRECT\tMISSING")
		for _, sc := range history {
			fmt.Fprintf(tw, "%s\t%d\t%.3f\t%d\t%d\t%d\n",
				sc.EvalDate.Format("2006-01-02 15:04"), sc.Size, sc.Score, sc.Correct, sc.Incorrect, sc.Missing)
		}
		return tw.Flush()
	}

	standings, err := s.Leaderboard(cmd.Context(), opts.limit)
	if err != nil {
		return err
	}
	if len(standings) == 0 {
		fmt.Fprintln(out, "No stored scores yet; run metrics with --save first")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NR\tMODEL\tLINEAGE\tENTRIES")
	for i, st := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%d\n", i+1, st.Model, st.Lineage, st.Entries)
	}
	return tw.Flush()
}
