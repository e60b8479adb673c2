package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/poisson"
	"github.com/san-kum/poisson/internal/sources"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "laplace" {
		t.Errorf("expected name laplace, got %s", cfg.Name)
	}
	if len(cfg.Shape) != 2 {
		t.Errorf("expected a 2-D default shape, got %v", cfg.Shape)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.OptimizerConfig() != gradopt.DefaultConfig() {
		t.Errorf("expected default optimizer config, got %+v", cfg.OptimizerConfig())
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("gaussian")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Source.Kind != sources.KindGaussian {
		t.Errorf("expected gaussian source, got %s", cfg.Source.Kind)
	}

	cfg.Shape[0] = 3
	if Presets["gaussian"].Shape[0] == 3 {
		t.Error("modifying a preset copy changed the preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		cfg := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
		if _, err := cfg.Problem(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shape = []int{4, 5}
	cfg.Boundary = 2
	cfg.Initial = 0.5

	p, err := cfg.Problem()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.U0.At(0, 2) != 2 || p.U0.At(3, 4) != 2 {
		t.Error("boundary cells should take the boundary value")
	}
	if p.U0.At(1, 1) != 0.5 {
		t.Errorf("expected interior 0.5, got %f", p.U0.At(1, 1))
	}
	if !p.Phi.SameShape(p.U0) {
		t.Errorf("phi shape %v, u0 shape %v", p.Phi.Shape(), p.U0.Shape())
	}
	if p.Fix != poisson.FixBounds {
		t.Errorf("expected bounds fix, got %v", p.Fix)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no shape", func(c *Config) { c.Shape = nil }},
		{"zero dim", func(c *Config) { c.Shape = []int{4, 0} }},
		{"dx length", func(c *Config) { c.Dx = []float64{0.1} }},
		{"negative alpha", func(c *Config) { c.Optimizer.Alpha = -1 }},
		{"zero max time", func(c *Config) { c.Optimizer.MaxTime = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("line")
	cfg.Optimizer.MaxTime = 1.5
	cfg.Fix = []any{1, 0, 0, 1}
	cfg.Shape = []int{4}
	cfg.Dx = []float64{0.25}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != "line" || loaded.Shape[0] != 4 || loaded.Dx[0] != 0.25 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if got := loaded.OptimizerConfig().MaxTime; got != 1500*time.Millisecond {
		t.Errorf("expected max time 1.5s, got %v", got)
	}

	p, err := loaded.Problem()
	if err != nil {
		t.Fatalf("problem failed: %v", err)
	}
	opt := loaded.OptimizerConfig()
	opt.Verbosity = 0
	sol, err := poisson.NewSolver(gradopt.NewMomentum(opt)).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("fix list from yaml should be accepted: %v", err)
	}
	if !sol.Fixed[0] || sol.Fixed[1] || sol.Fixed[2] || !sol.Fixed[3] {
		t.Errorf("unexpected mask %v", sol.Fixed)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("name: x\nshape: [3, 3]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "x" || len(cfg.Shape) != 2 || cfg.Shape[0] != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Optimizer != DefaultOptimizer() {
		t.Errorf("missing optimizer section should keep defaults, got %+v", cfg.Optimizer)
	}
	if cfg.Fix != poisson.FixBounds {
		t.Errorf("missing fix should keep bounds, got %v", cfg.Fix)
	}
}
