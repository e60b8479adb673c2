// Package metrics collects diagnostics about a solve, both while the
// optimizer runs and on the finished grid.
package metrics

import (
	"github.com/san-kum/poisson/internal/gradopt"
)

// Metric accumulates a single scalar from optimizer iterations.
type Metric interface {
	Name() string
	Observe(it gradopt.Iteration)
	Value() float64
	Reset()
}

// Set fans iterations out to a group of metrics. It implements
// gradopt.Observer.
type Set []Metric

// Standard returns the metrics recorded for every stored run.
func Standard() Set {
	return Set{NewReduction(), NewMeanStep(), NewImprovements()}
}

func (s Set) OnIteration(it gradopt.Iteration) {
	for _, m := range s {
		m.Observe(it)
	}
}

// Values returns the current value of every metric keyed by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}
