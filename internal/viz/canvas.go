package viz

import (
	"math"
	"strings"

	"github.com/san-kum/poisson/internal/grid"
)

const brailleBlank = 0x2800

// brailleBits maps a sub-pixel (row, col) inside one 2x4 Braille cell to its
// dot bit.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille dot matrix; each character holds 2x4 dots.
type Canvas struct {
	Cols, Rows int
	cells      [][]rune
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{Cols: cols, Rows: rows, cells: make([][]rune, rows)}
	for i := range c.cells {
		c.cells[i] = make([]rune, cols)
	}
	c.Clear()
	return c
}

// DotsX and DotsY are the canvas resolution in dots.
func (c *Canvas) DotsX() int { return 2 * c.Cols }
func (c *Canvas) DotsY() int { return 4 * c.Rows }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.DotsX() || y >= c.DotsY() {
		return
	}
	c.cells[y/4][x/2] |= brailleBits[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.DotsX() || y >= c.DotsY() {
		return false
	}
	return c.cells[y/4][x/2]&brailleBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Contour draws the iso-lines of the grid's plane at levels evenly spaced
// between its minimum and maximum. A dot is set where the sampled field
// crosses a level between it and its right or lower neighbour.
func Contour(g *grid.Grid, cols, levels int) string {
	plane := g.Slice2D()
	shape := plane.Shape()
	rows := max(1, cols*shape[0]/(2*shape[1]))
	c := NewCanvas(cols, rows)

	lo, hi := bounds(plane.Data)
	if hi == lo || levels < 1 {
		return c.String()
	}
	band := func(v float64) int {
		return int(math.Floor((v - lo) / (hi - lo) * float64(levels+1)))
	}

	w, h := c.DotsX(), c.DotsY()
	sample := func(x, y int) float64 {
		i := min(y*shape[0]/h, shape[0]-1)
		j := min(x*shape[1]/w, shape[1]-1)
		return plane.At(i, j)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b := band(sample(x, y))
			if (x+1 < w && band(sample(x+1, y)) != b) || (y+1 < h && band(sample(x, y+1)) != b) {
				c.Set(x, y)
			}
		}
	}
	return c.String()
}
