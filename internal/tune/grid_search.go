// Package tune searches optimizer settings for a problem by solving it once
// per point of a parameter grid.
package tune

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/poisson"
)

const (
	ParamAlpha   = "alpha"
	ParamMinStep = "minstep"
	ParamRefresh = "refresh_interval"
)

var ErrUnknownParam = errors.New("tune: unknown parameter")

// Params lists the tunable optimizer parameters.
func Params() []string {
	return []string{ParamAlpha, ParamMinStep, ParamRefresh}
}

// Apply returns cfg with the named parameter set to v.
func Apply(cfg gradopt.Config, name string, v float64) (gradopt.Config, error) {
	switch name {
	case ParamAlpha:
		cfg.Alpha = v
	case ParamMinStep:
		cfg.MinStep = v
	case ParamRefresh:
		cfg.RefreshInterval = int(math.Round(v))
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return cfg, nil
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params map[string]float64
	Result *gradopt.Result
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Workers bounds the number of concurrent solves; zero means GOMAXPROCS.
	Workers int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("tune: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, err := Apply(gradopt.DefaultConfig(), name, 0); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("tune: empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Points enumerates the cartesian product of the ranges, last parameter
// varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var points []map[string]float64
	g.collect(0, map[string]float64{}, &points)
	return points
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val
		g.collect(depth+1, next, out)
	}
}

// Search solves problem at every grid point and returns all candidates,
// best first: lowest final loss, then fewest cost evaluations. Failed
// candidates sort last. An error is returned only if every candidate failed.
func (g *GridSearch) Search(ctx context.Context, base gradopt.Config, problem poisson.Problem) ([]Candidate, error) {
	points := g.Points()
	candidates := make([]Candidate, len(points))

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, params := range points {
		wg.Add(1)
		go func(idx int, params map[string]float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			candidates[idx] = solve(ctx, base, problem, params)
		}(i, params)
	}
	wg.Wait()

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if a.Err != nil {
			return false
		}
		if a.Result.F != b.Result.F {
			return a.Result.F < b.Result.F
		}
		return a.Result.Evaluations < b.Result.Evaluations
	})

	if len(candidates) > 0 && candidates[0].Err != nil {
		return candidates, candidates[0].Err
	}
	return candidates, nil
}

func solve(ctx context.Context, base gradopt.Config, problem poisson.Problem, params map[string]float64) Candidate {
	cfg := base
	cfg.Verbosity = 0
	for name, v := range params {
		var err error
		if cfg, err = Apply(cfg, name, v); err != nil {
			return Candidate{Params: params, Err: err}
		}
	}

	sol, err := poisson.NewSolver(gradopt.NewMomentum(cfg)).Solve(ctx, problem)
	if err != nil {
		return Candidate{Params: params, Err: err}
	}
	return Candidate{Params: params, Result: sol.Result}
}
