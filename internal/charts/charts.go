// Package charts renders asfan reports as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/cubedraft/internal/draft"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	YAxisLabel string   // Y-axis label
	XAxisLabel string   // X-axis label
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	TopN       int      // Cards shown; 0 shows all
	Colors     []string // Series colors, cycled
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "As-fan",
		YAxisLabel: "Expected copies seen",
		Width:      "1200px",
		Height:     "600px",
		Theme:      "light",
		ShowLegend: true,
		TopN:       40,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE"},
	}
}

func (c ChartConfig) color(i int) string {
	if len(c.Colors) == 0 {
		return ""
	}
	return c.Colors[i%len(c.Colors)]
}

func newBar(config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      config.XAxisLabel,
			AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: config.YAxisLabel,
		}),
	)
	return bar
}

func top(entries []draft.AsfanEntry, n int) []draft.AsfanEntry {
	if n > 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}

// WriteAsfanChart writes a bar chart of entries, which are expected in
// RankAsfan order, to w.
func WriteAsfanChart(entries []draft.AsfanEntry, config ChartConfig, w io.Writer) error {
	if len(entries) == 0 {
		return fmt.Errorf("no asfan entries to chart")
	}
	entries = top(entries, config.TopN)

	labels := make([]string, len(entries))
	values := make([]opts.BarData, len(entries))
	for i, e := range entries {
		labels[i] = e.Name
		values[i] = opts.BarData{Value: e.Asfan}
	}

	bar := newBar(config)
	bar.SetXAxis(labels).
		AddSeries("As-fan", values).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: config.color(0)}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteComparisonChart charts estimated asfan next to the incidence
// observed by simulation, keyed by card ID.
func WriteComparisonChart(entries []draft.AsfanEntry, incidence map[string]float64, config ChartConfig, w io.Writer) error {
	if len(entries) == 0 {
		return fmt.Errorf("no asfan entries to chart")
	}
	entries = top(entries, config.TopN)

	labels := make([]string, len(entries))
	estimated := make([]opts.BarData, len(entries))
	observed := make([]opts.BarData, len(entries))
	for i, e := range entries {
		labels[i] = e.Name
		estimated[i] = opts.BarData{Value: e.Asfan}
		observed[i] = opts.BarData{Value: incidence[e.CardID]}
	}

	bar := newBar(config)
	bar.SetXAxis(labels).
		AddSeries("Estimated", estimated, charts.WithItemStyleOpts(opts.ItemStyle{Color: config.color(0)})).
		AddSeries("Simulated", observed, charts.WithItemStyleOpts(opts.ItemStyle{Color: config.color(1)}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderAsfanChart writes the asfan bar chart to an HTML file.
func RenderAsfanChart(entries []draft.AsfanEntry, config ChartConfig, outputPath string) error {
	return renderFile(outputPath, func(w io.Writer) error {
		return WriteAsfanChart(entries, config, w)
	})
}

// RenderComparisonChart writes the estimated-vs-simulated chart to an HTML file.
func RenderComparisonChart(entries []draft.AsfanEntry, incidence map[string]float64, config ChartConfig, outputPath string) error {
	return renderFile(outputPath, func(w io.Writer) error {
		return WriteComparisonChart(entries, incidence, config, w)
	})
}

func renderFile(outputPath string, render func(io.Writer) error) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
