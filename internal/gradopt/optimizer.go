package gradopt

import (
	"context"
	"time"
)

// CostFunc evaluates the loss and its gradient at x. Implementations must be
// deterministic and must not modify x; the returned gradient is owned by the
// caller.
type CostFunc func(x []float64) (float64, []float64)

// Optimizer minimizes a cost function from a starting point.
type Optimizer interface {
	Minimize(ctx context.Context, cost CostFunc, x0 []float64) (*Result, error)
}

// Iteration is a progress snapshot handed to observers after every outer
// iteration.
type Iteration struct {
	N       int
	F       float64 // loss at the point just evaluated
	FMin    float64 // best loss so far
	FInit   float64 // loss at the starting point
	Step    float64
	Elapsed time.Duration
}

// Observer receives progress notifications. It is never consulted for
// control flow.
type Observer interface {
	OnIteration(it Iteration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(it Iteration)

func (f ObserverFunc) OnIteration(it Iteration) { f(it) }

// Result describes the outcome of a Minimize call.
type Result struct {
	X           []float64 // best point observed, not necessarily the last
	F           float64   // loss at X
	InitialF    float64
	Iterations  int
	Evaluations int
	Status      Status
	Elapsed     time.Duration
}
