package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/lineage-bench/internal/metrics"
	"github.com/stellarlinkco/lineage-bench/internal/record"
	"github.com/stellarlinkco/lineage-bench/internal/report"
	"github.com/stellarlinkco/lineage-bench/internal/store"
)

type metricsOptions struct {
	input    string
	relaxed  bool
	detailed bool
	csv      bool
	save     bool
}

func newMetricsCmd(st *cliState) *cobra.Command {
	var opts metricsOptions

	cmd := &cobra.Command{
		Use:     "metrics",
		Short:   "Compute accuracy metrics from model result CSV",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetrics(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "result CSV file (default: stdin)")
	cmd.Flags().BoolVarP(&opts.relaxed, "relaxed", "r", false, "relaxed answer format requirements")
	cmd.Flags().BoolVarP(&opts.detailed, "detailed", "d", false, "per-size, per-category breakdown instead of the ranked summary")
	cmd.Flags().BoolVarP(&opts.csv, "csv", "c", false, "CSV output instead of a table")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save per-size scores to the configured store")

	return cmd
}

func runMetrics(cmd *cobra.Command, st *cliState, opts *metricsOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("metrics: missing config (internal error)")
	}

	in := cmd.InOrStdin()
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("metrics: open %q: %w", opts.input, err)
		}
		defer f.Close()
		in = f
	}

	rows, err := record.ReadResultRows(in)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("metrics: no result rows in input")
	}

	cells := metrics.Aggregate(rows, opts.relaxed)
	out := cmd.OutOrStdout()

	if opts.save {
		if err := saveScores(cmd, st, rows, cells); err != nil {
			return err
		}
	}

	if opts.detailed {
		if opts.csv {
			return report.WriteDetailedCSV(out, cells)
		}
		return report.WriteDetailedTable(out, cells)
	}

	summaries := metrics.Summarize(cells)
	sizes := metrics.Sizes(cells)
	if opts.csv {
		return report.WriteSummaryCSV(out, summaries, sizes)
	}
	return report.WriteSummaryTable(out, summaries, sizes)
}

func saveScores(cmd *cobra.Command, st *cliState, rows []record.ResultRow, cells []metrics.Cell) error {
	s, err := store.FromConfig(st.cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	providerByModel := make(map[string]string)
	for _, row := range rows {
		if _, ok := providerByModel[row.Model]; !ok {
			providerByModel[row.Model] = row.Provider
		}
	}

	// One stored score per (model, size): the mean accuracy across the
	// categories in that group, same as the summary columns.
	type key struct {
		model string
		size  int
	}
	grouped := make(map[key][]metrics.Cell)
	for _, c := range cells {
		k := key{model: c.Model, size: c.Size}
		grouped[k] = append(grouped[k], c)
	}

	now := time.Now().UTC()
	saved := 0
	for k, group := range grouped {
		var sum float64
		correct, incorrect, missing := 0, 0, 0
		for _, c := range group {
			sum += c.Accuracy()
			correct += c.Correct
			incorrect += c.Incorrect
			missing += c.Missing
		}

		sc := &store.Score{
			Model:     k.model,
			Provider:  providerByModel[k.model],
			Size:      k.size,
			Score:     sum / float64(len(group)),
			Correct:   correct,
			Incorrect: incorrect,
			Missing:   missing,
			EvalDate:  now,
		}
		if err := s.Save(cmd.Context(), sc); err != nil {
			return err
		}
		saved++
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d score(s)\n", saved)
	return nil
}
