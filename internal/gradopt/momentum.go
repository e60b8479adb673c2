package gradopt

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Momentum is heavy-ball gradient descent with an adaptive step size.
//
// The step is halved whenever a candidate is worse than the last accepted
// point and periodically re-grown with [StepSearch]. The best point ever
// evaluated is returned, which need not be the last one.
type Momentum struct {
	cfg       Config
	logger    *slog.Logger
	observers []Observer
}

func NewMomentum(cfg Config) *Momentum {
	return &Momentum{cfg: cfg, logger: slog.Default()}
}

// WithLogger sets the logger used for verbose progress output.
func (m *Momentum) WithLogger(l *slog.Logger) *Momentum {
	if l != nil {
		m.logger = l
	}
	return m
}

func (m *Momentum) AddObserver(o Observer) { m.observers = append(m.observers, o) }

func (m *Momentum) Config() Config { return m.cfg }

// run is the state owned by a single Minimize call.
type run struct {
	cfg   Config
	cost  CostFunc
	evals int
	start time.Time

	finit    float64
	f0       float64   // loss at the accepted point
	x0       []float64 // accepted point
	velocity []float64
	step     float64

	niter      int
	fmin       float64
	xmin       []float64
	lastUpdate int
}

// Minimize implements Optimizer.
func (m *Momentum) Minimize(ctx context.Context, cost CostFunc, x0 []float64) (*Result, error) {
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) == 0 {
		return nil, ErrEmptyPoint
	}

	r := &run{cfg: m.cfg, start: time.Now()}
	r.cost = func(x []float64) (float64, []float64) {
		r.evals++
		return cost(x)
	}

	f0, g0 := r.cost(x0)
	if len(g0) != len(x0) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrGradientLength, len(g0), len(x0))
	}
	r.finit, r.f0 = f0, f0
	r.fmin, r.xmin = f0, clone(x0)
	r.x0 = clone(x0)
	r.velocity = clone(g0)

	// nothing to improve on; the relative criterion can never fire
	if f0 == 0 {
		m.logStop(r, FunctionConvergence)
		return r.result(FunctionConvergence), nil
	}

	r.step = StepSearch(r.cost, r.x0, r.f0, r.velocity, m.cfg.MinStep)
	x := advance(r.x0, r.step, r.velocity)

	status := NotTerminated
	for status == NotTerminated {
		if ctx.Err() != nil {
			status = Interrupted
			break
		}

		f, g := r.cost(x)
		if f < r.fmin {
			r.fmin, r.xmin = f, x
			r.lastUpdate = r.niter
		}

		if f > r.f0 && r.step > m.cfg.MinStep {
			r.step /= 2
		} else {
			r.f0, r.x0 = f, x
			floats.Scale(1-m.cfg.Alpha, r.velocity)
			floats.AddScaled(r.velocity, m.cfg.Alpha, g)
		}

		x = advance(r.x0, r.step, r.velocity)

		r.niter++
		if r.step < m.cfg.MinStep {
			r.step = m.cfg.MinStep
		}

		if r.niter%m.cfg.RefreshInterval == 0 || r.niter == 1 {
			r.step = math.Max(StepSearch(r.cost, r.x0, r.f0, r.velocity, r.step), m.cfg.MinStep)
		}

		m.report(r, f)
		status = r.stopCondition()
	}

	m.logStop(r, status)
	return r.result(status), nil
}

// stopCondition evaluates the stopping rules in their fixed order.
func (r *run) stopCondition() Status {
	switch {
	case r.niter > r.cfg.MaxIter:
		return IterationLimit
	case r.fmin < r.cfg.RelTol*r.finit:
		return FunctionConvergence
	case time.Since(r.start) > r.cfg.MaxTime:
		return RuntimeLimit
	case r.niter-r.lastUpdate > r.cfg.MaxIterNoUpdate:
		return Stagnation
	}
	return NotTerminated
}

func (r *run) result(status Status) *Result {
	return &Result{
		X:           r.xmin,
		F:           r.fmin,
		InitialF:    r.finit,
		Iterations:  r.niter,
		Evaluations: r.evals,
		Status:      status,
		Elapsed:     time.Since(r.start),
	}
}

func (m *Momentum) report(r *run, f float64) {
	it := Iteration{
		N:       r.niter,
		F:       f,
		FMin:    r.fmin,
		FInit:   r.finit,
		Step:    r.step,
		Elapsed: time.Since(r.start),
	}
	for _, o := range m.observers {
		o.OnIteration(it)
	}

	switch {
	case m.cfg.Verbosity >= 2:
		m.logger.Debug("iteration", "niter", r.niter, "f", f, "fmin", r.fmin, "step", r.step)
	case m.cfg.Verbosity == 1 && (r.niter == 1 || r.niter%progressEvery == 0):
		m.logger.Info("iteration", "niter", r.niter, "fmin", fmt.Sprintf("%.3e", r.fmin))
	}
}

func (m *Momentum) logStop(r *run, status Status) {
	if m.cfg.Verbosity == 0 {
		return
	}
	attrs := []any{"reason", status.String(), "niter", r.niter, "fmin", r.fmin}
	switch status {
	case IterationLimit:
		attrs = append(attrs, "max_niter", r.cfg.MaxIter)
	case FunctionConvergence:
		attrs = append(attrs, "threshold", r.cfg.RelTol*r.finit)
	case RuntimeLimit:
		attrs = append(attrs, "max_time", r.cfg.MaxTime)
	case Stagnation:
		attrs = append(attrs, "max_niter_no_update", r.cfg.MaxIterNoUpdate)
	}
	m.logger.Info("stopped", attrs...)
}

// advance returns x0 - step*dir in a fresh slice.
func advance(x0 []float64, step float64, dir []float64) []float64 {
	x := make([]float64, len(x0))
	floats.AddScaledTo(x, x0, -step, dir)
	return x
}

func clone(x []float64) []float64 {
	c := make([]float64, len(x))
	copy(c, x)
	return c
}
