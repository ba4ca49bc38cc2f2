package exporter

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"evagobi/internal/errors"
	"evagobi/pkg/contracts/domain"
)

var seriesColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// ChartRenderer draws PNG previews of chart tables
type ChartRenderer struct {
	logger *slog.Logger
	width  vg.Length
	height vg.Length
}

// NewChartRenderer creates a renderer producing 8x4 inch images
func NewChartRenderer(logger *slog.Logger) *ChartRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartRenderer{
		logger: logger.With(slog.String("component", "chart_renderer")),
		width:  8 * vg.Inch,
		height: 4 * vg.Inch,
	}
}

// Render draws spec.YColumn against spec.XColumn. Date axes become a line
// chart; any other axis becomes a bar chart of the per-category mean.
func (r *ChartRenderer) Render(table *domain.Table, spec domain.ChartSpec, filePath string) error {
	xs, okX := table.Column(spec.XColumn)
	ys, okY := table.Column(spec.YColumn)
	if !okX || !okY {
		return errors.NewAppValidationError("chart table lacks preview columns").
			WithContext("chart", spec.Key).
			WithContext("x", spec.XColumn).
			WithContext("y", spec.YColumn)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = spec.YColumn
	p.Add(plotter.NewGrid())

	var err error
	if spec.XColumn == "date" {
		err = r.addLine(p, xs, ys)
	} else {
		err = r.addBars(p, xs, ys)
	}
	if err != nil {
		return errors.NewAppError(errors.ErrTypeValidation, "failed to build chart preview", err).
			WithContext("chart", spec.Key)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err)
	}
	if err := p.Save(r.width, r.height, filePath); err != nil {
		return errors.NewStorageError("failed to save chart image", err).WithContext("path", filePath)
	}

	r.logger.Debug("Chart image rendered",
		slog.String("chart", spec.Key),
		slog.String("path", filePath))
	return nil
}

func (r *ChartRenderer) addLine(p *plot.Plot, xs, ys []string) error {
	keys, means := meanBy(xs, ys)
	points := make(plotter.XYs, 0, len(keys))
	for _, k := range keys {
		t, err := time.Parse(DateLayout, k)
		if err != nil {
			continue
		}
		points = append(points, plotter.XY{X: float64(t.Unix()), Y: means[k]})
	}
	if len(points) == 0 {
		return fmt.Errorf("no numeric points to plot")
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = seriesColor
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.X.Label.Text = "date"
	return nil
}

func (r *ChartRenderer) addBars(p *plot.Plot, xs, ys []string) error {
	keys, means := meanBy(xs, ys)
	if len(keys) == 0 {
		return fmt.Errorf("no numeric values to plot")
	}

	values := make(plotter.Values, len(keys))
	for i, k := range keys {
		values[i] = means[k]
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = seriesColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(keys...)
	return nil
}

// meanBy averages numeric ys per distinct x, returning the xs in sorted order
func meanBy(xs, ys []string) ([]string, map[string]float64) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range xs {
		if i >= len(ys) {
			break
		}
		v, ok := ParseNumber(ys[i])
		if !ok {
			continue
		}
		sums[xs[i]] += v
		counts[xs[i]]++
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		sums[k] /= float64(counts[k])
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, sums
}
