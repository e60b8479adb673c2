package grid

import (
	"fmt"
	"math"
)

// Grid is an n-dimensional row-major array of float64.
type Grid struct {
	shape   []int
	strides []int
	Data    []float64
}

// New allocates a zero-valued grid with the given shape.
func New(shape ...int) (*Grid, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}
	return build(make([]float64, n), shape), nil
}

// Full allocates a grid with every cell set to value.
func Full(value float64, shape ...int) (*Grid, error) {
	g, err := New(shape...)
	if err != nil {
		return nil, err
	}
	for i := range g.Data {
		g.Data[i] = value
	}
	return g, nil
}

// FromData wraps data (without copying) as a grid of the given shape.
func FromData(data []float64, shape ...int) (*Grid, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: got %d values for shape %v", ErrDataLength, len(data), shape)
	}
	return build(data, shape), nil
}

func checkShape(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, ErrEmptyShape
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return 0, fmt.Errorf("%w: %v", ErrNonPositiveDim, shape)
		}
		n *= s
	}
	return n, nil
}

func build(data []float64, shape []int) *Grid {
	sh := make([]int, len(shape))
	copy(sh, shape)
	return &Grid{shape: sh, strides: stridesOf(sh), Data: data}
}

func stridesOf(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// Shape returns a copy of the grid's shape.
func (g *Grid) Shape() []int {
	s := make([]int, len(g.shape))
	copy(s, g.shape)
	return s
}

// Strides returns a copy of the row-major strides.
func (g *Grid) Strides() []int {
	s := make([]int, len(g.strides))
	copy(s, g.strides)
	return s
}

func (g *Grid) NDim() int { return len(g.shape) }
func (g *Grid) Len() int  { return len(g.Data) }

// Index converts per-axis coordinates to a flat offset. It panics on
// out-of-range coordinates, like slice indexing.
func (g *Grid) Index(coords ...int) int {
	if len(coords) != len(g.shape) {
		panic(fmt.Sprintf("grid: %d coordinates for %d dimensions", len(coords), len(g.shape)))
	}
	idx := 0
	for i, c := range coords {
		if c < 0 || c >= g.shape[i] {
			panic(fmt.Sprintf("grid: coordinate %d out of range [0,%d) on axis %d", c, g.shape[i], i))
		}
		idx += c * g.strides[i]
	}
	return idx
}

// Coords writes the coordinates of the flat offset into dst and returns it.
// dst is allocated when nil.
func (g *Grid) Coords(flat int, dst []int) []int {
	if dst == nil {
		dst = make([]int, len(g.shape))
	}
	for i, s := range g.strides {
		dst[i] = flat / s
		flat %= s
	}
	return dst
}

func (g *Grid) At(coords ...int) float64 { return g.Data[g.Index(coords...)] }

func (g *Grid) Set(v float64, coords ...int) { g.Data[g.Index(coords...)] = v }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return build(data, g.shape)
}

// SameShape reports whether both grids have identical shapes.
func (g *Grid) SameShape(other *Grid) bool {
	if other == nil {
		return false
	}
	return ShapeEqual(g.shape, other.shape)
}

// ShapeEqual compares two shapes element-wise.
func ShapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsBoundary reports whether the cell at flat sits on the first or last
// index along any axis.
func (g *Grid) IsBoundary(flat int) bool {
	for i, s := range g.strides {
		c := flat / s
		flat %= s
		if c == 0 || c == g.shape[i]-1 {
			return true
		}
	}
	return false
}

// IsValid reports whether every value is finite.
func (g *Grid) IsValid() bool {
	for _, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Slice2D returns a 2-D view for display: the grid itself when it is 2-D, a
// single row when it is 1-D, and the middle plane of the leading axes
// otherwise. The result always has shape (rows, cols).
func (g *Grid) Slice2D() *Grid {
	switch g.NDim() {
	case 1:
		out, _ := FromData(append([]float64(nil), g.Data...), 1, g.shape[0])
		return out
	case 2:
		return g.Clone()
	}
	rows, cols := g.shape[g.NDim()-2], g.shape[g.NDim()-1]
	base := 0
	for i := 0; i < g.NDim()-2; i++ {
		base += (g.shape[i] / 2) * g.strides[i]
	}
	out, _ := New(rows, cols)
	copy(out.Data, g.Data[base:base+rows*cols])
	return out
}
