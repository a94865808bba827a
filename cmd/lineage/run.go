package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/lineage-bench/internal/llm"
	"github.com/stellarlinkco/lineage-bench/internal/record"
	"github.com/stellarlinkco/lineage-bench/internal/runner"
)

type runOptions struct {
	input    string
	output   string
	provider string
	model    string
	threads  int
	system   string
	effort   string
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Send generated quizzes to a model and record responses",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "quiz CSV file (default: stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "result CSV file (default: stdout)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "provider name (default: config default_provider)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "model name (overrides config)")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 0, "number of concurrent requests (default: config)")
	cmd.Flags().StringVarP(&opts.system, "system-prompt", "s", "", "system prompt (default: config)")
	cmd.Flags().StringVarP(&opts.effort, "effort", "e", "", "reasoning effort: low|medium|high")

	return cmd
}

func runRun(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}

	switch opts.effort {
	case "", "low", "medium", "high":
	default:
		return fmt.Errorf("run: invalid --effort %q (expected low|medium|high)", opts.effort)
	}

	in := cmd.InOrStdin()
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("run: open %q: %w", opts.input, err)
		}
		defer f.Close()
		in = f
	}

	rows, err := record.ReadQuizRows(in)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run: no quiz rows in input")
	}

	provider, err := llm.ProviderFromConfig(st.cfg, opts.provider, opts.model)
	if err != nil {
		return err
	}

	threads := opts.threads
	if threads <= 0 {
		threads = st.cfg.Run.Threads
	}
	system := opts.system
	if system == "" {
		system = st.cfg.Run.SystemPrompt
	}

	r := runner.NewRunner(provider, runner.Config{
		Workers:    threads,
		MaxRetries: st.cfg.Run.MaxRetries,
		Timeout:    st.cfg.Run.Timeout,
		System:     system,
		Effort:     opts.effort,
		ModelName:  opts.model,
		ErrLog:     cmd.ErrOrStderr(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := r.Run(ctx, rows)

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("run: create %q: %w", opts.output, err)
		}
		defer f.Close()
		out = f
	}
	if err := record.WriteResultRows(out, results); err != nil {
		return err
	}

	return runErr
}
