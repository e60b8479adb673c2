package poisson

import (
	"fmt"
	"math"

	"github.com/san-kum/poisson/internal/grid"
	"gonum.org/v1/gonum/floats"
)

// parallelMinChunk is the smallest number of cells handed to one worker
// during a residual evaluation.
const parallelMinChunk = 4096

// Residual is the least-squares objective of the discretized equation. It is
// immutable after construction, so Evaluate and Cost are safe for concurrent
// use.
type Residual struct {
	shape    []int
	denom    float64
	coeff    []float64 // 1/(dx_i² denom) per axis
	phiDenom []float64
	fixed    []bool
	offsets  []int // flat cell -> flat offset in the padded grid
	pstrides []int
}

// NewResidual precomputes everything that does not depend on u.
func NewResidual(phi *grid.Grid, fix []bool, dx []float64) (*Residual, error) {
	if phi == nil {
		return nil, fmt.Errorf("%w: phi is required", ErrInvalidConfiguration)
	}
	if len(fix) != phi.Len() {
		return nil, fmt.Errorf("%w: fix has %d cells, phi %d", ErrShapeMismatch, len(fix), phi.Len())
	}
	if len(dx) != phi.NDim() {
		return nil, fmt.Errorf("%w: dx has %d entries for %d dimensions", ErrShapeMismatch, len(dx), phi.NDim())
	}

	denom := 0.0
	for i, d := range dx {
		if !(d > 0) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("%w: dx[%d] must be positive and finite, got %g", ErrInvalidConfiguration, i, d)
		}
		denom += 1 / (d * d)
	}
	denom *= 2

	coeff := make([]float64, len(dx))
	for i, d := range dx {
		coeff[i] = 1 / (d * d * denom)
	}

	phiDenom := make([]float64, phi.Len())
	floats.ScaleTo(phiDenom, 1/denom, phi.Data)

	fixed := make([]bool, len(fix))
	copy(fixed, fix)

	offsets, pstrides := grid.PaddedOffsets(phi.Shape())

	return &Residual{
		shape:    phi.Shape(),
		denom:    denom,
		coeff:    coeff,
		phiDenom: phiDenom,
		fixed:    fixed,
		offsets:  offsets,
		pstrides: pstrides,
	}, nil
}

func (r *Residual) Shape() []int      { return append([]int(nil), r.shape...) }
func (r *Residual) Denom() float64    { return r.denom }
func (r *Residual) Fixed() []bool     { return append([]bool(nil), r.fixed...) }
func (r *Residual) Coeffs() []float64 { return append([]float64(nil), r.coeff...) }

// Evaluate returns the loss sum(residual²) and the residual itself at u.
// The residual is zero on fixed cells.
func (r *Residual) Evaluate(u []float64) (float64, []float64) {
	ug, err := grid.FromData(u, r.shape...)
	if err != nil {
		panic(err)
	}
	pad := grid.PadEdge(ug).Data

	resid := make([]float64, len(u))
	grid.ParallelFor(len(u), parallelMinChunk, func(start, end int) {
		for j := start; j < end; j++ {
			if r.fixed[j] {
				continue
			}
			off := r.offsets[j]
			v := r.phiDenom[j] + u[j]
			for i, ps := range r.pstrides {
				v -= (pad[off+ps] + pad[off-ps]) * r.coeff[i]
			}
			resid[j] = v
		}
	})

	return floats.Dot(resid, resid), resid
}

// Cost is the gradopt.CostFunc of the objective: the loss and 2*residual as
// the descent direction, zero on fixed cells.
func (r *Residual) Cost(u []float64) (float64, []float64) {
	loss, resid := r.Evaluate(u)
	floats.Scale(2, resid)
	return loss, resid
}

// Loss evaluates only the objective value.
func (r *Residual) Loss(u []float64) float64 {
	loss, _ := r.Evaluate(u)
	return loss
}
