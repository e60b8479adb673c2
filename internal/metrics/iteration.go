package metrics

import (
	"math"

	"github.com/san-kum/poisson/internal/gradopt"
)

// Reduction is the number of decades the best loss dropped below the
// starting loss.
type Reduction struct {
	name  string
	finit float64
	fmin  float64
	seen  bool
}

func NewReduction() *Reduction {
	return &Reduction{name: "reduction"}
}

func (r *Reduction) Name() string { return r.name }

func (r *Reduction) Observe(it gradopt.Iteration) {
	r.finit, r.fmin, r.seen = it.FInit, it.FMin, true
}

func (r *Reduction) Value() float64 {
	if !r.seen || r.finit <= 0 {
		return 0
	}
	if r.fmin <= 0 {
		return math.Inf(1)
	}
	return math.Log10(r.finit / r.fmin)
}

func (r *Reduction) Reset() {
	r.finit, r.fmin, r.seen = 0, 0, false
}

type MeanStep struct {
	name    string
	sum     float64
	samples int
}

func NewMeanStep() *MeanStep {
	return &MeanStep{name: "mean_step"}
}

func (m *MeanStep) Name() string { return m.name }

func (m *MeanStep) Observe(it gradopt.Iteration) {
	m.sum += it.Step
	m.samples++
}

func (m *MeanStep) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanStep) Reset() {
	m.sum = 0
	m.samples = 0
}

// Improvements counts the iterations that lowered the best loss.
type Improvements struct {
	name  string
	last  float64
	count int
	seen  bool
}

func NewImprovements() *Improvements {
	return &Improvements{name: "improvements"}
}

func (c *Improvements) Name() string { return c.name }

func (c *Improvements) Observe(it gradopt.Iteration) {
	prev := it.FInit
	if c.seen {
		prev = c.last
	}
	if it.FMin < prev {
		c.count++
	}
	c.last, c.seen = it.FMin, true
}

func (c *Improvements) Value() float64 { return float64(c.count) }

func (c *Improvements) Reset() {
	c.last, c.count, c.seen = 0, 0, false
}
