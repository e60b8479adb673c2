package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/grid"
	"github.com/san-kum/poisson/internal/poisson"
	"github.com/san-kum/poisson/internal/sources"
	"gopkg.in/yaml.v3"
)

const (
	DefaultName     = "laplace"
	DefaultSize     = 32
	DefaultBoundary = 1.0
	DefaultInitial  = 0.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Name      string          `yaml:"name"`
	Shape     []int           `yaml:"shape"`
	Dx        []float64       `yaml:"dx,omitempty"`
	Fix       any             `yaml:"fix,omitempty"`
	Boundary  float64         `yaml:"boundary"`
	Initial   float64         `yaml:"initial"`
	Source    sources.Spec    `yaml:"source"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
}

// OptimizerConfig mirrors gradopt.Config with YAML-friendly units; MaxTime
// is in seconds.
type OptimizerConfig struct {
	RefreshInterval int     `yaml:"refresh_interval" json:"refresh_interval"`
	RelTol          float64 `yaml:"rel_tol" json:"rel_tol"`
	MinStep         float64 `yaml:"minstep" json:"minstep"`
	Alpha           float64 `yaml:"alpha" json:"alpha"`
	MaxIter         int     `yaml:"max_niter" json:"max_niter"`
	MaxTime         float64 `yaml:"max_time" json:"max_time"`
	MaxIterNoUpdate int     `yaml:"max_niter_no_update" json:"max_niter_no_update"`
	Verbosity       int     `yaml:"verbosity" json:"verbosity"`
}

func DefaultOptimizer() OptimizerConfig {
	d := gradopt.DefaultConfig()
	return OptimizerConfig{
		RefreshInterval: d.RefreshInterval,
		RelTol:          d.RelTol,
		MinStep:         d.MinStep,
		Alpha:           d.Alpha,
		MaxIter:         d.MaxIter,
		MaxTime:         d.MaxTime.Seconds(),
		MaxIterNoUpdate: d.MaxIterNoUpdate,
		Verbosity:       d.Verbosity,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:      DefaultName,
		Shape:     []int{DefaultSize, DefaultSize},
		Fix:       poisson.FixBounds,
		Boundary:  DefaultBoundary,
		Initial:   DefaultInitial,
		Source:    sources.Spec{Kind: sources.KindZero},
		Optimizer: DefaultOptimizer(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the parts of the configuration that the solver does not
// check itself.
func (c *Config) Validate() error {
	if len(c.Shape) == 0 {
		return fmt.Errorf("%w: shape is required", ErrInvalid)
	}
	for _, n := range c.Shape {
		if n <= 0 {
			return fmt.Errorf("%w: shape %v has a non-positive dimension", ErrInvalid, c.Shape)
		}
	}
	if c.Dx != nil && len(c.Dx) != len(c.Shape) {
		return fmt.Errorf("%w: dx has %d entries for %d dimensions", ErrInvalid, len(c.Dx), len(c.Shape))
	}
	if math.IsNaN(c.Boundary) || math.IsNaN(c.Initial) {
		return fmt.Errorf("%w: boundary and initial values must be numbers", ErrInvalid)
	}
	if err := c.OptimizerConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Problem builds the initial guess, source term, fix and spacing. Boundary
// cells of the initial guess take Boundary, all others Initial.
func (c *Config) Problem() (poisson.Problem, error) {
	u0, err := grid.Full(c.Initial, c.Shape...)
	if err != nil {
		return poisson.Problem{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for i := range u0.Data {
		if u0.IsBoundary(i) {
			u0.Data[i] = c.Boundary
		}
	}

	phi, err := sources.Build(c.Source, c.Shape)
	if err != nil {
		return poisson.Problem{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return poisson.Problem{U0: u0, Phi: phi, Fix: c.Fix, Dx: c.Dx}, nil
}

func (c *Config) OptimizerConfig() gradopt.Config {
	o := c.Optimizer
	return gradopt.Config{
		RefreshInterval: o.RefreshInterval,
		RelTol:          o.RelTol,
		MinStep:         o.MinStep,
		Alpha:           o.Alpha,
		MaxIter:         o.MaxIter,
		MaxTime:         time.Duration(o.MaxTime * float64(time.Second)),
		MaxIterNoUpdate: o.MaxIterNoUpdate,
		Verbosity:       o.Verbosity,
	}
}

// Clone returns a deep copy, so presets can be modified by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Shape = append([]int(nil), c.Shape...)
	if c.Dx != nil {
		out.Dx = append([]float64(nil), c.Dx...)
	}
	return &out
}
