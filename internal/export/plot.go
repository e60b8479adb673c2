// Package export writes solved grids and run histories to image and JSON
// files.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/grid"
	"github.com/san-kum/poisson/internal/sources"
	"github.com/san-kum/poisson/internal/viz"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const paletteSize = 255

var ErrFormat = errors.New("export: unsupported image format")

// Formats lists the image extensions SaveImage understands.
var Formats = []string{".png", ".svg", ".pdf", ".jpg", ".eps", ".tif"}

// Size is the edge length of saved images.
var Size = 6 * vg.Inch

func checkFormat(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats {
		if ext == f {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFormat, ext)
}

// plane adapts a 2-D grid to plotter.GridXYZ with rows along y and columns
// along x, both spanning [-1, 1].
type plane struct {
	g    *grid.Grid
	x, y []float64
}

func newPlane(g *grid.Grid) plane {
	p := g.Slice2D()
	axes := sources.Axes(p.Shape())
	return plane{g: p, y: axes[0], x: axes[1]}
}

func (p plane) Dims() (c, r int)   { return len(p.x), len(p.y) }
func (p plane) Z(c, r int) float64 { return p.g.At(r, c) }
func (p plane) X(c int) float64    { return p.x[c] }
func (p plane) Y(r int) float64    { return p.y[r] }

// SaveImage renders the grid to path; the format follows the extension.
// 2-D grids become a heat map, the middle plane is used for higher
// dimensions and 1-D grids are drawn as a line.
func SaveImage(g *grid.Grid, path, title string) error {
	if err := checkFormat(path); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title

	if g.NDim() == 1 {
		x := sources.Axes(g.Shape())[0]
		pts := make(plotter.XYs, g.Len())
		for i, v := range g.Data {
			pts[i].X, pts[i].Y = x[i], v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		p.Add(line, plotter.NewGrid())
		p.X.Label.Text = "x"
		p.Y.Label.Text = "u"
		return p.Save(Size, Size/2, path)
	}

	pl := newPlane(g)
	if len(pl.x) < 2 || len(pl.y) < 2 {
		return fmt.Errorf("export: plane %v is too small for a heat map", pl.g.Shape())
	}
	lo, hi := floats.Min(pl.g.Data), floats.Max(pl.g.Data)
	if hi <= lo {
		hi = lo + 1
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(lo)
	cm.SetMax(hi)

	hm := plotter.NewHeatMap(pl, cm.Palette(paletteSize))
	hm.Min, hm.Max = lo, hi
	p.Add(hm)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	return p.Save(Size, Size, path)
}

// SaveConvergence plots log10 of the best loss against iteration.
func SaveConvergence(history []gradopt.Iteration, path, title string) error {
	if err := checkFormat(path); err != nil {
		return err
	}
	if len(history) == 0 {
		return errors.New("export: empty history")
	}

	logs := viz.LogLoss(history)
	pts := make(plotter.XYs, len(history))
	for i, it := range history {
		pts[i].X, pts[i].Y = float64(it.N), logs[i]
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log10(best loss)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())
	return p.Save(Size, Size/2, path)
}
