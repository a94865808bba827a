// Package report formats aggregated benchmark metrics as text tables, CSV
// and charts.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/stellarlinkco/lineage-bench/internal/metrics"
)

// WriteDetailedTable prints one line per (model, size, category) cell.
func WriteDetailedTable(w io.Writer, cells []metrics.Cell) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tSIZE\tCATEGORY\tCORRECT\tINCORRECT\tMISSING\tACCURACY")
	for _, c := range cells {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%d\t%.3f\n",
			c.Model, c.Size, c.Category, c.Correct, c.Incorrect, c.Missing, c.Accuracy())
	}
	return tw.Flush()
}

// WriteDetailedCSV emits the same cells as CSV with a header row.
func WriteDetailedCSV(w io.Writer, cells []metrics.Cell) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"model", "problem_size", "category", "correct", "incorrect", "missing", "accuracy"}); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}
	for _, c := range cells {
		rec := []string{
			c.Model,
			strconv.Itoa(c.Size),
			string(c.Category),
			strconv.Itoa(c.Correct),
			strconv.Itoa(c.Incorrect),
			strconv.Itoa(c.Missing),
			formatScore(c.Accuracy()),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: write cell: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: flush: %w", err)
	}
	return nil
}

// WriteSummaryTable prints the ranked per-model summary with one lineage
// column per problem size.
func WriteSummaryTable(w io.Writer, summaries []metrics.Summary, sizes []int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "NR\tMODEL\tLINEAGE"
	for _, size := range sizes {
		header += fmt.Sprintf("\tLINEAGE-%d", size)
	}
	fmt.Fprintln(tw, header)

	for _, s := range summaries {
		row := fmt.Sprintf("%d\t%s\t%.3f", s.Rank, s.Model, s.Score)
		for _, size := range sizes {
			row += fmt.Sprintf("\t%.3f", s.BySize[size])
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}

// WriteSummaryCSV emits the ranked summary in the format ReadSummaryCSV and
// the plot command consume: nr,model,lineage,lineage-<size>...
func WriteSummaryCSV(w io.Writer, summaries []metrics.Summary, sizes []int) error {
	cw := csv.NewWriter(w)

	header := []string{"nr", "model", "lineage"}
	for _, size := range sizes {
		header = append(header, fmt.Sprintf("lineage-%d", size))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}

	for _, s := range summaries {
		rec := []string{strconv.Itoa(s.Rank), s.Model, formatScore(s.Score)}
		for _, size := range sizes {
			rec = append(rec, formatScore(s.BySize[size]))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: write summary: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: flush: %w", err)
	}
	return nil
}

// ReadSummaryCSV parses a summary CSV back into summaries plus the problem
// sizes encoded in the header.
func ReadSummaryCSV(r io.Reader) ([]metrics.Summary, []int, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("report: read header: %w", err)
	}
	if len(header) < 3 || header[0] != "nr" || header[1] != "model" || header[2] != "lineage" {
		return nil, nil, errors.New("report: unrecognized summary header")
	}

	sizes := make([]int, 0, len(header)-3)
	for _, col := range header[3:] {
		v := strings.TrimPrefix(col, "lineage-")
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, fmt.Errorf("report: bad size column %q", col)
		}
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	var out []metrics.Summary
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, sizes, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("report: read summary: %w", err)
		}
		if len(rec) != len(header) {
			return nil, nil, fmt.Errorf("report: summary row has %d fields, want %d", len(rec), len(header))
		}

		rank, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, nil, fmt.Errorf("report: bad rank %q", rec[0])
		}
		score, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("report: bad lineage score %q", rec[2])
		}

		s := metrics.Summary{
			Rank:   rank,
			Model:  rec[1],
			Score:  score,
			BySize: make(map[int]float64, len(sizes)),
		}
		for i, col := range header[3:] {
			size, _ := strconv.Atoi(strings.TrimPrefix(col, "lineage-"))
			v, err := strconv.ParseFloat(rec[3+i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("report: bad score %q in column %q", rec[3+i], col)
			}
			s.BySize[size] = v
		}
		out = append(out, s)
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
