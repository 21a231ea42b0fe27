package grapher

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mediagrapher/mediagrapher/curves"
)

// PlotGrapher draws sampled curve coordinates as thin black polylines on a
// plot clipped to the source resolution, saved as a PNG.
type PlotGrapher struct {
	Name       string
	ResX, ResY int

	// DPI maps the pixel resolution onto the output figure size.
	DPI int

	// Linspace is the per-segment sample density.
	Linspace int
}

// NewPlotGrapher creates a plotter for the given source resolution with
// default DPI and sample density.
func NewPlotGrapher(name string, resX, resY int) *PlotGrapher {
	return &PlotGrapher{
		Name: name,
		ResX: resX, ResY: resY,
		DPI:      100,
		Linspace: curves.DefaultLinspace,
	}
}

// SavePlot renders the curves into <outputDir>/<outputFilename>.png.
func (g *PlotGrapher) SavePlot(frame int, c *curves.Curves, outputDir, outputFilename string) error {
	p := plot.New()
	p.Title.Text = g.Name
	p.X.Label.Text = fmt.Sprintf("Frame: %d", frame)
	p.X.Min, p.X.Max = 0, float64(g.ResX)
	p.Y.Min, p.Y.Max = 0, float64(g.ResY)

	coords, err := c.Coordinates(g.Linspace)
	if err != nil {
		return err
	}
	for _, sc := range coords {
		xys := make(plotter.XYs, len(sc.Xs))
		for i := range sc.Xs {
			xys[i] = plotter.XY{X: sc.Xs[i], Y: sc.Ys[i]}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("build line: %w", err)
		}
		line.Width = vg.Points(0.5)
		line.Color = color.Black
		p.Add(line)
	}

	out := filepath.Join(outputDir, outputFilename+".png")
	w := vg.Inch * vg.Length(g.ResX) / vg.Length(g.DPI)
	h := vg.Inch * vg.Length(g.ResY) / vg.Length(g.DPI)
	if err := p.Save(w, h, out); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
