package report

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/stellarlinkco/lineage-bench/internal/metrics"
)

// WriteLineChart renders the per-model lineage scores across problem sizes
// as a PNG line chart with a logarithmic size axis, one series per model.
func WriteLineChart(w io.Writer, summaries []metrics.Summary, sizes []int) error {
	if len(summaries) == 0 {
		return errors.New("report: no summaries to plot")
	}
	if len(sizes) == 0 {
		return errors.New("report: no problem sizes to plot")
	}

	ticks := make([]chart.Tick, 0, len(sizes))
	for _, size := range sizes {
		ticks = append(ticks, chart.Tick{Value: float64(size), Label: fmt.Sprintf("%d", size)})
	}

	series := make([]chart.Series, 0, len(summaries))
	for _, s := range summaries {
		xs := make([]float64, 0, len(sizes))
		ys := make([]float64, 0, len(sizes))
		for _, size := range sizes {
			xs = append(xs, float64(size))
			ys = append(ys, s.BySize[size])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Model,
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Title:  "Lineage benchmark scores by problem size",
		Width:  1280,
		Height: 800,
		XAxis: chart.XAxis{
			Name:  "Problem Size",
			Range: &chart.LogarithmicRange{},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Lineage Score",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("report: render chart: %w", err)
	}
	return nil
}
