package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/poisson/internal/grid"
	"gonum.org/v1/gonum/floats"
)

const cellGlyph = "██"

// Heatmap shades a grid with the current theme, two characters per cell and
// at most width characters wide. 1-D grids are drawn as a line plot;
// grids with more than two dimensions show their middle plane.
func Heatmap(g *grid.Grid, width int) string {
	if g.NDim() == 1 {
		return asciigraph.Plot(g.Data,
			asciigraph.Height(12),
			asciigraph.Width(width),
			asciigraph.Caption("u"),
		)
	}

	plane := g.Slice2D()
	shape := plane.Shape()
	cols := min(shape[1], max(1, width/len([]rune(cellGlyph))))
	rows := max(1, shape[0]*cols/shape[1])

	lo, hi := bounds(plane.Data)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		i := r * shape[0] / rows
		for c := 0; c < cols; c++ {
			j := c * shape[1] / cols
			t := (plane.At(i, j) - lo) / span
			b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Shade(t)).Render(cellGlyph))
		}
		b.WriteByte('\n')
	}
	b.WriteString(Legend(lo, hi, min(2*cols, width)))
	return b.String()
}

// Legend renders the color ramp with its end values.
func Legend(lo, hi float64, width int) string {
	left, right := fmt.Sprintf("%.3g ", lo), fmt.Sprintf(" %.3g", hi)
	n := max(4, width-len(left)-len(right))

	var b strings.Builder
	b.WriteString(Subtle.Render(left))
	for k := 0; k < n; k++ {
		t := float64(k) / float64(n-1)
		b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Shade(t)).Render("▀"))
	}
	b.WriteString(Subtle.Render(right))
	return b.String()
}

func bounds(data []float64) (lo, hi float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}
