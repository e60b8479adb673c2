package poisson_test

import (
	"context"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/grid"
	"github.com/san-kum/poisson/internal/poisson"
)

// spyOptimizer records whether Minimize was reached.
type spyOptimizer struct{ calls int }

func (s *spyOptimizer) Minimize(_ context.Context, _ gradopt.CostFunc, x0 []float64) (*gradopt.Result, error) {
	s.calls++
	return &gradopt.Result{X: x0}, nil
}

func tightSolver(relTol float64) *poisson.Solver {
	cfg := gradopt.DefaultConfig()
	cfg.RelTol = relTol
	cfg.Verbosity = 0
	return poisson.NewSolver(gradopt.NewMomentum(cfg))
}

func boundaryGrid(value float64, shape ...int) *grid.Grid {
	g, _ := grid.New(shape...)
	for i := range g.Data {
		if g.IsBoundary(i) {
			g.Data[i] = value
		}
	}
	return g
}

func gaussian(amplitude float64, shape ...int) *grid.Grid {
	g, _ := grid.New(shape...)
	coords := make([]int, len(shape))
	for i := range g.Data {
		g.Coords(i, coords)
		r2 := 0.0
		for k, c := range coords {
			x := 2*float64(c)/float64(shape[k]-1) - 1
			r2 += x * x
		}
		g.Data[i] = amplitude * math.Exp(-r2/(2*0.2*0.2))
	}
	return g
}

var _ = Describe("Solve", func() {
	ctx := context.Background()

	Context("Laplace equation with constant boundary", func() {
		It("converges to the boundary value everywhere", func() {
			u0 := boundaryGrid(1, 8, 8)

			sol, err := tightSolver(1e-12).Solve(ctx, poisson.Problem{U0: u0})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.U.Shape()).To(Equal([]int{8, 8}))
			for _, v := range sol.U.Data {
				Expect(v).To(BeNumerically("~", 1.0, 1e-3))
			}
		})
	})

	Context("1-D Poisson equation with constant source", func() {
		It("recovers the parabola exactly solved by the stencil", func() {
			n := 11
			u0, _ := grid.New(n)
			phi, _ := grid.Full(2, n)

			sol, err := tightSolver(1e-12).Solve(ctx, poisson.Problem{
				U0:  u0,
				Phi: phi,
				Fix: poisson.FixBounds,
				Dx:  []float64{0.1},
			})
			Expect(err).NotTo(HaveOccurred())
			for k, v := range sol.U.Data {
				x := float64(k) * 0.1
				Expect(v).To(BeNumerically("~", x*(x-1), 1e-4), "cell %d", k)
			}
		})
	})

	Context("fixed cells", func() {
		It("keeps every fixed cell at its initial value exactly", func() {
			rng := rand.New(rand.NewSource(42))
			u0, _ := grid.New(9, 10)
			fix := make([]bool, u0.Len())
			for i := range u0.Data {
				u0.Data[i] = rng.Float64()
				fix[i] = rng.Intn(4) == 0
			}

			cfg := gradopt.DefaultConfig()
			cfg.Verbosity = 0
			cfg.MaxIter = 300
			solver := poisson.NewSolver(gradopt.NewMomentum(cfg))

			sol, err := solver.Solve(ctx, poisson.Problem{
				U0:  u0,
				Phi: gaussian(5, 9, 10),
				Fix: fix,
				Dx:  []float64{0.3, 0.7},
			})
			Expect(err).NotTo(HaveOccurred())
			for i, fixed := range fix {
				if fixed {
					Expect(sol.U.Data[i]).To(Equal(u0.Data[i]), "cell %d", i)
				}
			}
		})
	})

	Context("re-solving the output", func() {
		It("does not increase the loss and barely moves the grid", func() {
			solver := tightSolver(1e-10)
			phi := gaussian(10, 10, 10)
			u0, _ := grid.New(10, 10)

			first, err := solver.Solve(ctx, poisson.Problem{U0: u0, Phi: phi})
			Expect(err).NotTo(HaveOccurred())
			loss1 := first.Residual.Loss(first.U.Data)

			second, err := solver.Solve(ctx, poisson.Problem{U0: first.U, Phi: phi})
			Expect(err).NotTo(HaveOccurred())
			loss2 := second.Residual.Loss(second.U.Data)

			Expect(loss2).To(BeNumerically("<=", loss1))
			for i := range first.U.Data {
				Expect(second.U.Data[i]).To(BeNumerically("~", first.U.Data[i], 1e-3))
			}
		})
	})

	Context("validation", func() {
		var spy *spyOptimizer

		BeforeEach(func() {
			spy = &spyOptimizer{}
		})

		solveWith := func(p poisson.Problem) error {
			_, err := poisson.NewSolver(spy).Solve(ctx, p)
			return err
		}

		It("rejects phi with a different shape before any evaluation", func() {
			u0, _ := grid.New(10, 10)
			phi, _ := grid.New(10, 9)
			Expect(solveWith(poisson.Problem{U0: u0, Phi: phi})).To(MatchError(poisson.ErrShapeMismatch))
			Expect(spy.calls).To(BeZero())
		})

		DescribeTable("fix values",
			func(fix any, want error) {
				u0, _ := grid.New(4, 4)
				Expect(solveWith(poisson.Problem{U0: u0, Fix: fix})).To(MatchError(want))
				Expect(spy.calls).To(BeZero())
			},
			Entry("unknown name", "unknown", poisson.ErrInvalidConfiguration),
			Entry("non-numeric array", []any{"a", "b"}, poisson.ErrTypeConfiguration),
			Entry("unsupported type", struct{}{}, poisson.ErrTypeConfiguration),
			Entry("wrong mask size", make([]bool, 15), poisson.ErrShapeMismatch),
		)

		It("rejects spacing of the wrong length or sign", func() {
			u0, _ := grid.New(4, 4)
			Expect(solveWith(poisson.Problem{U0: u0, Dx: []float64{1}})).To(MatchError(poisson.ErrShapeMismatch))
			Expect(solveWith(poisson.Problem{U0: u0, Dx: []float64{1, -1}})).To(MatchError(poisson.ErrInvalidConfiguration))
			Expect(spy.calls).To(BeZero())
		})

		It("requires an initial guess", func() {
			Expect(solveWith(poisson.Problem{})).To(MatchError(poisson.ErrInvalidConfiguration))
		})
	})

	Context("cancellation", func() {
		It("returns the initial grid with an interrupted status", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			u0 := boundaryGrid(3, 6, 6)
			sol, err := tightSolver(1e-12).Solve(cctx, poisson.Problem{U0: u0})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Result.Status).To(Equal(gradopt.Interrupted))
			Expect(sol.U.Data).To(Equal(u0.Data))
		})
	})

	Context("package-level Solve", func() {
		It("uses the defaults and leaves u0 untouched", func() {
			u0 := boundaryGrid(2, 5, 5)
			before := u0.Clone()

			u, err := poisson.Solve(ctx, u0, nil, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Shape()).To(Equal(u0.Shape()))
			Expect(u0.Data).To(Equal(before.Data))
			Expect(u.At(2, 2)).To(BeNumerically("~", 2.0, 5e-2))
		})
	})
})
