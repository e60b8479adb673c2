package config

import (
	"sort"

	"github.com/san-kum/poisson/internal/poisson"
	"github.com/san-kum/poisson/internal/sources"
)

var Presets = map[string]*Config{
	"laplace": {
		Name: "laplace", Shape: []int{32, 32}, Fix: poisson.FixBounds,
		Boundary: 1, Initial: 0,
		Source: sources.Spec{Kind: sources.KindZero},
	},
	"gaussian": {
		Name: "gaussian", Shape: []int{48, 48}, Fix: poisson.FixBounds,
		Source: sources.Spec{Kind: sources.KindGaussian, Amplitude: 1, Sigma: 0.2},
	},
	"dipole": {
		Name: "dipole", Shape: []int{48, 48}, Fix: poisson.FixBounds,
		Source: sources.Spec{Kind: sources.KindDipole, Amplitude: 50, Separation: 0.5},
	},
	"line": {
		Name: "line", Shape: []int{64}, Dx: []float64{1.0 / 63}, Fix: poisson.FixBounds,
		Source: sources.Spec{Kind: sources.KindUniform, Amplitude: 2},
	},
	"cube": {
		Name: "cube", Shape: []int{16, 16, 16}, Fix: poisson.FixBounds,
		Source: sources.Spec{Kind: sources.KindPoint, Amplitude: 100},
	},
}

func init() {
	for _, p := range Presets {
		p.Optimizer = DefaultOptimizer()
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
