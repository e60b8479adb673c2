package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/san-kum/poisson/internal/config"
	"github.com/san-kum/poisson/internal/sources"
	"github.com/san-kum/poisson/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string
	runName    string
	shape      []int
	dx         []float64
	boundary   float64
	initial    float64

	sourceKind string
	amplitude  float64
	sigma      float64
	separation float64

	maxIter   int
	maxTime   float64
	relTol    float64
	verbosity int

	theme   string
	width   int
	contour int
	outPath string
	history bool
)

func setupLogging(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

func addProblemFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&runName, "name", config.DefaultName, "run name")
	f.IntSliceVar(&shape, "shape", []int{config.DefaultSize, config.DefaultSize}, "grid shape, one entry per axis")
	f.Float64SliceVar(&dx, "dx", nil, "spacing per axis (default 1/shape)")
	f.Float64Var(&boundary, "boundary", config.DefaultBoundary, "initial value of boundary cells")
	f.Float64Var(&initial, "initial", config.DefaultInitial, "initial value of interior cells")
	f.StringVar(&sourceKind, "source", sources.KindZero, "source term: "+strings.Join(sources.Kinds(), ", "))
	f.Float64Var(&amplitude, "amplitude", 1, "source amplitude")
	f.Float64Var(&sigma, "sigma", 0.2, "gaussian source width")
	f.Float64Var(&separation, "separation", 0.5, "dipole pole separation")
	f.IntVar(&maxIter, "max-niter", 0, "iteration limit (default from config)")
	f.Float64Var(&maxTime, "max-time", 0, "time limit in seconds (default from config)")
	f.Float64Var(&relTol, "rel-tol", 0, "relative loss tolerance (default from config)")
	f.IntVar(&verbosity, "verbosity", 1, "optimizer verbosity: 0 silent, 1 progress, 2 every iteration")
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "poisson",
		Short:         "n-dimensional poisson solver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(logLevel); err != nil {
				return err
			}
			viz.SetTheme(theme)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".poisson", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeThermal.Name, "color theme: "+strings.Join(viz.ThemeNames(), ", "))

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve a problem and store the run",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	addProblemFlags(solveCmd)
	solveCmd.Flags().IntVar(&width, "width", 64, "width of the printed heat map")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "solve under a live terminal monitor",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addProblemFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&width, "width", 64, "width of the plots")
	showCmd.Flags().IntVar(&contour, "contour", 0, "draw this many iso-lines instead of shading")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "render a stored run to an image file",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output image (png, svg, pdf, ...)")
	plotCmd.Flags().BoolVar(&history, "history", false, "plot the convergence history instead of the solution")
	_ = plotCmd.MarkFlagRequired("out")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s shape=%v source=%s\n", name, p.Shape, p.Source.Kind)
			}
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search optimizer settings for a problem",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addProblemFlags(tuneCmd)
	addTuneFlags(tuneCmd)

	rootCmd.AddCommand(solveCmd, liveCmd, listCmd, showCmd, plotCmd, exportCmd, presetsCmd, tuneCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
