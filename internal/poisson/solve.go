package poisson

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/grid"
)

// Problem describes one solve.
type Problem struct {
	// U0 is the initial guess; it defines the shape and the values of the
	// fixed cells.
	U0 *grid.Grid

	// Phi is the source term. nil means all zeros (Laplace equation).
	Phi *grid.Grid

	// Fix selects the cells held at their initial value: FixBounds, a mask
	// grid, or a flat/nested array (nonzero = fixed). nil means FixBounds.
	Fix any

	// Dx is the spacing per axis. nil means 1/shape[i].
	Dx []float64
}

// Solution is the outcome of a solve.
type Solution struct {
	U        *grid.Grid
	U0       *grid.Grid
	Fixed    []bool
	Dx       []float64
	Result   *gradopt.Result
	Residual *Residual
}

// Solver binds an optimizer to the residual objective.
type Solver struct {
	Optimizer gradopt.Optimizer
	Logger    *slog.Logger
}

// NewSolver returns a solver using opt, or the default momentum optimizer
// when opt is nil.
func NewSolver(opt gradopt.Optimizer) *Solver {
	if opt == nil {
		opt = gradopt.NewMomentum(gradopt.DefaultConfig())
	}
	return &Solver{Optimizer: opt, Logger: slog.Default()}
}

// Solve validates the problem and minimizes its residual. Validation errors
// are returned before the optimizer is invoked. Cancelling ctx is not an
// error: the best grid found so far is returned.
func (s *Solver) Solve(ctx context.Context, p Problem) (*Solution, error) {
	prep, err := p.prepare()
	if err != nil {
		return nil, err
	}

	res, err := NewResidual(prep.phi, prep.fixed, prep.dx)
	if err != nil {
		return nil, err
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("solving poisson problem",
		"shape", prep.u0.Shape(),
		"dx", prep.dx,
		"fixed", countTrue(prep.fixed),
	)

	result, err := s.Optimizer.Minimize(ctx, res.Cost, prep.u0.Data)
	if err != nil {
		return nil, fmt.Errorf("minimize residual: %w", err)
	}

	u, err := grid.FromData(result.X, prep.u0.Shape()...)
	if err != nil {
		return nil, err
	}

	logger.Debug("solve finished",
		"status", result.Status.String(),
		"niter", result.Iterations,
		"loss", result.F,
	)

	return &Solution{
		U:        u,
		U0:       prep.u0,
		Fixed:    prep.fixed,
		Dx:       prep.dx,
		Result:   result,
		Residual: res,
	}, nil
}

// Solve solves ∇²u = phi from u0 with the default optimizer and returns the
// best grid found. phi, fix and dx accept nil for their defaults.
func Solve(ctx context.Context, u0, phi *grid.Grid, fix any, dx []float64) (*grid.Grid, error) {
	sol, err := NewSolver(nil).Solve(ctx, Problem{U0: u0, Phi: phi, Fix: fix, Dx: dx})
	if err != nil {
		return nil, err
	}
	return sol.U, nil
}

type prepared struct {
	u0    *grid.Grid
	phi   *grid.Grid
	fixed []bool
	dx    []float64
}

// prepare applies defaults and validates in a fixed order: phi shape, fix
// interpretation, fix shape, spacing.
func (p Problem) prepare() (*prepared, error) {
	if p.U0 == nil {
		return nil, fmt.Errorf("%w: u0 is required", ErrInvalidConfiguration)
	}
	u0 := p.U0.Clone()
	shape := u0.Shape()

	phi := p.Phi
	if phi == nil {
		phi, _ = grid.New(shape...)
	}
	if !phi.SameShape(u0) {
		return nil, fmt.Errorf("%w: phi %v and u0 %v must have the same shape", ErrShapeMismatch, phi.Shape(), shape)
	}

	fixed, err := resolveFix(p.Fix, shape)
	if err != nil {
		return nil, err
	}

	dx := p.Dx
	if dx == nil {
		dx = make([]float64, len(shape))
		for i, s := range shape {
			dx[i] = 1 / float64(s)
		}
	} else {
		if len(dx) != len(shape) {
			return nil, fmt.Errorf("%w: dx has %d entries for %d dimensions", ErrShapeMismatch, len(dx), len(shape))
		}
		dx = append([]float64(nil), dx...)
	}

	return &prepared{u0: u0, phi: phi, fixed: fixed, dx: dx}, nil
}

func countTrue(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}
