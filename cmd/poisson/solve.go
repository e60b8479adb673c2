package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/san-kum/poisson/internal/config"
	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/metrics"
	"github.com/san-kum/poisson/internal/poisson"
	"github.com/san-kum/poisson/internal/storage"
	"github.com/san-kum/poisson/internal/tui"
	"github.com/san-kum/poisson/internal/viz"
	"github.com/spf13/cobra"
)

// buildConfig layers the configuration: defaults, then a preset, then a
// config file, then flags that were set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = runName
	}
	if flags.Changed("shape") {
		cfg.Shape = shape
		if !flags.Changed("dx") {
			cfg.Dx = nil
		}
	}
	if flags.Changed("dx") {
		cfg.Dx = dx
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("initial") {
		cfg.Initial = initial
	}
	if flags.Changed("source") {
		cfg.Source.Kind = sourceKind
	}
	if flags.Changed("amplitude") {
		cfg.Source.Amplitude = amplitude
	}
	if flags.Changed("sigma") {
		cfg.Source.Sigma = sigma
	}
	if flags.Changed("separation") {
		cfg.Source.Separation = separation
	}
	if flags.Changed("max-niter") {
		cfg.Optimizer.MaxIter = maxIter
	}
	if flags.Changed("max-time") {
		cfg.Optimizer.MaxTime = maxTime
	}
	if flags.Changed("rel-tol") {
		cfg.Optimizer.RelTol = relTol
	}
	if flags.Changed("verbosity") {
		cfg.Optimizer.Verbosity = verbosity
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// solveConfig runs one solve with the standard metrics attached. Extra
// observers see every iteration as well.
func solveConfig(ctx context.Context, cfg *config.Config, extra ...gradopt.Observer) (storage.Run, error) {
	problem, err := cfg.Problem()
	if err != nil {
		return storage.Run{}, err
	}

	trace := &metrics.Trace{}
	set := metrics.Standard()

	opt := gradopt.NewMomentum(cfg.OptimizerConfig()).WithLogger(slog.Default().With("run", cfg.Name))
	opt.AddObserver(trace)
	opt.AddObserver(set)
	for _, o := range extra {
		opt.AddObserver(o)
	}

	sol, err := poisson.NewSolver(opt).Solve(ctx, problem)
	if err != nil {
		return storage.Run{}, err
	}

	values := set.Values()
	maps.Copy(values, metrics.Residuals(sol))

	return storage.Run{
		Name:      cfg.Name,
		Optimizer: cfg.Optimizer,
		Solution:  sol,
		History:   trace.Iterations(),
		Metrics:   values,
	}, nil
}

func store(run storage.Run) (*storage.RunMetadata, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	runID, err := st.Save(run)
	if err != nil {
		return nil, err
	}
	return st.Load(runID)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	slog.Info("solving", "name", cfg.Name, "shape", cfg.Shape, "source", cfg.Source.Kind)
	run, err := solveConfig(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if run.Solution.Result.Status == gradopt.Interrupted {
		slog.Warn("interrupted, storing the best point found so far")
	}

	meta, err := store(run)
	if err != nil {
		return err
	}

	fmt.Println(viz.Summary(meta))
	fmt.Println(viz.Heatmap(run.Solution.U, width))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	// log lines would tear the alternate screen
	cfg.Optimizer.Verbosity = 0

	var run storage.Run
	feed := tui.NewFeed()
	title := fmt.Sprintf("%s %v", cfg.Name, cfg.Shape)
	_, err = tui.Run(cmd.Context(), title, cfg.Optimizer.MaxIter, feed, func(ctx context.Context) (*poisson.Solution, error) {
		var err error
		run, err = solveConfig(ctx, cfg, feed)
		return run.Solution, err
	})
	if err != nil {
		return err
	}

	meta, err := store(run)
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(meta))
	return nil
}
