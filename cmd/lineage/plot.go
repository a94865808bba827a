package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/lineage-bench/internal/report"
)

type plotOptions struct {
	input  string
	output string
}

func newPlotCmd() *cobra.Command {
	var opts plotOptions

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a summary CSV as a PNG line chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "summary CSV file (default: stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write rendered chart to this file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runPlot(cmd *cobra.Command, opts *plotOptions) error {
	in := cmd.InOrStdin()
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("plot: open %q: %w", opts.input, err)
		}
		defer f.Close()
		in = f
	}

	summaries, sizes, err := report.ReadSummaryCSV(in)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("plot: create %q: %w", opts.output, err)
	}
	defer f.Close()

	if err := report.WriteLineChart(f, summaries, sizes); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Chart saved to: %s\n", opts.output)
	return nil
}
