// Package sources builds source terms and initial guesses on the [-1, 1]^n
// meshgrid spanned by a grid's shape.
package sources

import (
	"fmt"
	"math"

	"github.com/san-kum/poisson/internal/grid"
	"gonum.org/v1/gonum/floats"
)

const (
	KindZero     = "zero"
	KindUniform  = "uniform"
	KindGaussian = "gaussian"
	KindPoint    = "point"
	KindDipole   = "dipole"
)

// Spec selects and parameterizes a source field.
type Spec struct {
	Kind       string  `yaml:"kind" json:"kind"`
	Amplitude  float64 `yaml:"amplitude" json:"amplitude"`
	Sigma      float64 `yaml:"sigma,omitempty" json:"sigma,omitempty"`
	Separation float64 `yaml:"separation,omitempty" json:"separation,omitempty"`
}

// Kinds lists the recognized source kinds.
func Kinds() []string {
	return []string{KindZero, KindUniform, KindGaussian, KindPoint, KindDipole}
}

// Build evaluates the source described by spec on a grid of the given shape.
func Build(spec Spec, shape []int) (*grid.Grid, error) {
	if _, err := grid.New(shape...); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case "", KindZero:
		return Zero(shape), nil
	case KindUniform:
		return Uniform(shape, spec.Amplitude), nil
	case KindGaussian:
		if spec.Sigma <= 0 {
			return nil, fmt.Errorf("sources: gaussian sigma must be positive, got %g", spec.Sigma)
		}
		return Gaussian(shape, spec.Amplitude, spec.Sigma), nil
	case KindPoint:
		return Point(shape, spec.Amplitude), nil
	case KindDipole:
		if spec.Separation <= 0 || spec.Separation >= 2 {
			return nil, fmt.Errorf("sources: dipole separation must be in (0, 2), got %g", spec.Separation)
		}
		return Dipole(shape, spec.Amplitude, spec.Separation), nil
	}
	return nil, fmt.Errorf("sources: unknown kind %q (available: %v)", spec.Kind, Kinds())
}

// Axes returns the coordinates of every axis, spanning [-1, 1].
func Axes(shape []int) [][]float64 {
	axes := make([][]float64, len(shape))
	for i, n := range shape {
		axes[i] = make([]float64, n)
		if n == 1 {
			continue
		}
		floats.Span(axes[i], -1, 1)
	}
	return axes
}

func Zero(shape []int) *grid.Grid {
	g, _ := grid.New(shape...)
	return g
}

func Uniform(shape []int, a float64) *grid.Grid {
	g, _ := grid.Full(a, shape...)
	return g
}

// Gaussian is a exp(-|x|²/(2σ²)) centred at the origin.
func Gaussian(shape []int, a, sigma float64) *grid.Grid {
	g, _ := grid.New(shape...)
	axes := Axes(shape)
	coords := make([]int, len(shape))
	s2 := 2 * sigma * sigma
	for i := range g.Data {
		g.Coords(i, coords)
		r2 := 0.0
		for k, c := range coords {
			x := axes[k][c]
			r2 += x * x
		}
		g.Data[i] = a * math.Exp(-r2/s2)
	}
	return g
}

// Point puts the whole amplitude on the centre cell.
func Point(shape []int, a float64) *grid.Grid {
	g, _ := grid.New(shape...)
	centre := make([]int, len(shape))
	for i, n := range shape {
		centre[i] = n / 2
	}
	g.Set(a, centre...)
	return g
}

// Dipole places +a and -a on the cells nearest to ±sep/2 along the last axis,
// centred on the other axes.
func Dipole(shape []int, a, sep float64) *grid.Grid {
	g, _ := grid.New(shape...)
	last := len(shape) - 1
	axes := Axes(shape)

	pos := make([]int, len(shape))
	neg := make([]int, len(shape))
	for i, n := range shape {
		pos[i], neg[i] = n/2, n/2
	}
	pos[last] = nearest(axes[last], sep/2)
	neg[last] = nearest(axes[last], -sep/2)

	g.Set(a, pos...)
	g.Set(g.At(neg...)-a, neg...)
	return g
}

func nearest(axis []float64, x float64) int {
	best, dist := 0, math.Inf(1)
	for i, v := range axis {
		if d := math.Abs(v - x); d < dist {
			best, dist = i, d
		}
	}
	return best
}
