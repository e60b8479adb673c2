package metrics

import "github.com/san-kum/poisson/internal/gradopt"

// Trace records every iteration, giving the convergence history of a run.
type Trace struct {
	its []gradopt.Iteration
}

func (t *Trace) OnIteration(it gradopt.Iteration) { t.its = append(t.its, it) }

func (t *Trace) Iterations() []gradopt.Iteration { return t.its }

// FMin returns the best-loss curve.
func (t *Trace) FMin() []float64 {
	out := make([]float64, len(t.its))
	for i, it := range t.its {
		out[i] = it.FMin
	}
	return out
}
