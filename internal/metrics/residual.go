package metrics

import (
	"math"

	"github.com/san-kum/poisson/internal/poisson"
	"gonum.org/v1/gonum/floats"
)

// MaxResidual is the largest absolute residual on the solved grid.
func MaxResidual(sol *poisson.Solution) float64 {
	_, r := sol.Residual.Evaluate(sol.U.Data)
	worst := 0.0
	for _, v := range r {
		worst = math.Max(worst, math.Abs(v))
	}
	return worst
}

// RMSResidual is the root mean square residual over the free cells.
func RMSResidual(sol *poisson.Solution) float64 {
	_, r := sol.Residual.Evaluate(sol.U.Data)
	free := 0
	for _, f := range sol.Fixed {
		if !f {
			free++
		}
	}
	if free == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(r, r) / float64(free))
}

// FixedDrift is the largest change of a fixed cell between the initial guess
// and the solution. Anything other than zero is a bug.
func FixedDrift(sol *poisson.Solution) float64 {
	drift := 0.0
	for i, f := range sol.Fixed {
		if f {
			drift = math.Max(drift, math.Abs(sol.U.Data[i]-sol.U0.Data[i]))
		}
	}
	return drift
}

// Residuals returns the post-solve diagnostics keyed by name.
func Residuals(sol *poisson.Solution) map[string]float64 {
	return map[string]float64{
		"max_residual": MaxResidual(sol),
		"rms_residual": RMSResidual(sol),
		"fixed_drift":  FixedDrift(sol),
	}
}
