package gradopt

import "gonum.org/v1/gonum/floats"

const (
	goldenRatio    = 1.618033988749895
	goldenRatioInv = 1.0 / goldenRatio

	// goldenRefinements is the fixed number of narrowing iterations; each
	// costs exactly one new evaluation.
	goldenRefinements = 4

	// maxBracketDoublings bounds the bracket expansion on costs that keep
	// decreasing along the direction (unbounded below).
	maxBracketDoublings = 64
)

// StepSearch looks for a step size s minimizing cost(x0 - s*dir), starting
// from step. f0 must be cost(x0).
//
// The bracket is grown by doubling step while the loss keeps improving on f0,
// then narrowed with a fixed number of golden-section iterations. The better
// of the two final interior probes is returned.
func StepSearch(cost CostFunc, x0 []float64, f0 float64, dir []float64, step float64) float64 {
	buf := make([]float64, len(x0))
	line := func(s float64) float64 {
		floats.AddScaledTo(buf, x0, -s, dir)
		f, _ := cost(buf)
		return f
	}
	return goldenStep(line, f0, step)
}

func goldenStep(line func(float64) float64, f0, step float64) float64 {
	start := step
	fStart := line(step)
	f := fStart
	lo := 0.0
	if f < f0 {
		lo = step
	}
	for i := 0; f < f0 && i < maxBracketDoublings; i++ {
		step *= 2
		f = line(step)
	}

	// the minimum along the line now lies in [lo, step]
	a, b := lo, step
	c := b - (b-a)*goldenRatioInv
	d := a + (b-a)*goldenRatioInv
	fc, fd := line(c), line(d)

	for i := 0; i < goldenRefinements; i++ {
		left := fc < fd
		if left {
			b = d
		} else {
			a = c
		}
		c = b - (b-a)*goldenRatioInv
		d = a + (b-a)*goldenRatioInv
		if left {
			fd = fc
			fc = line(c)
		} else {
			fc = fd
			fd = line(d)
		}
	}

	best, fbest := d, fd
	if fc < fd {
		best, fbest = c, fc
	}
	// the left end of the bracket is never probed; keep the starting step
	// when it beats both probes
	if lo > 0 && fStart < fbest {
		return start
	}
	return best
}
