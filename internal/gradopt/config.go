package gradopt

import (
	"fmt"
	"time"
)

const (
	DefaultRefreshInterval = 100
	DefaultRelTol          = 1e-5
	DefaultMinStep         = 1e-3
	DefaultAlpha           = 0.9
	DefaultMaxIter         = 50000
	DefaultMaxTime         = 5 * time.Minute
	DefaultMaxIterNoUpdate = 5000
	DefaultVerbosity       = 1

	// progressEvery is the iteration period of verbose progress lines.
	progressEvery = 100
)

// Config holds the tuning knobs of the momentum optimizer.
type Config struct {
	// RefreshInterval is the number of iterations between step-size
	// re-searches.
	RefreshInterval int

	// RelTol stops the run once the best loss drops below RelTol times the
	// initial loss.
	RelTol float64

	// MinStep floors the step size.
	MinStep float64

	// Alpha weights the new gradient in the velocity blend.
	Alpha float64

	MaxIter         int
	MaxTime         time.Duration
	MaxIterNoUpdate int
	Verbosity       int
}

func DefaultConfig() Config {
	return Config{
		RefreshInterval: DefaultRefreshInterval,
		RelTol:          DefaultRelTol,
		MinStep:         DefaultMinStep,
		Alpha:           DefaultAlpha,
		MaxIter:         DefaultMaxIter,
		MaxTime:         DefaultMaxTime,
		MaxIterNoUpdate: DefaultMaxIterNoUpdate,
		Verbosity:       DefaultVerbosity,
	}
}

func (c Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive, got %d", ErrInvalidConfig, c.RefreshInterval)
	}
	if c.RelTol < 0 {
		return fmt.Errorf("%w: rel tol must be non-negative, got %g", ErrInvalidConfig, c.RelTol)
	}
	if c.MinStep <= 0 {
		return fmt.Errorf("%w: min step must be positive, got %g", ErrInvalidConfig, c.MinStep)
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be in (0, 1], got %g", ErrInvalidConfig, c.Alpha)
	}
	if c.MaxIter < 0 || c.MaxIterNoUpdate < 0 {
		return fmt.Errorf("%w: iteration limits must be non-negative", ErrInvalidConfig)
	}
	if c.MaxTime <= 0 {
		return fmt.Errorf("%w: max time must be positive, got %v", ErrInvalidConfig, c.MaxTime)
	}
	return nil
}
