package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/san-kum/poisson/internal/tune"
	"github.com/spf13/cobra"
)

var (
	tuneAlpha   []float64
	tuneMinStep []float64
	tuneRefresh []float64
	tuneWorkers int
	tuneTop     int
)

func addTuneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64SliceVar(&tuneAlpha, "alpha", []float64{0.5, 0.7, 0.9}, "alpha values to try")
	f.Float64SliceVar(&tuneMinStep, "minstep", []float64{1e-3, 1e-2}, "minimum step values to try")
	f.Float64SliceVar(&tuneRefresh, "refresh", nil, "refresh intervals to try (default: keep config)")
	f.IntVar(&tuneWorkers, "workers", 0, "concurrent solves (default GOMAXPROCS)")
	f.IntVar(&tuneTop, "top", 10, "number of candidates to print")
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	problem, err := cfg.Problem()
	if err != nil {
		return err
	}

	ranges := map[string][]float64{
		tune.ParamAlpha:   tuneAlpha,
		tune.ParamMinStep: tuneMinStep,
		tune.ParamRefresh: tuneRefresh,
	}
	var names []string
	var values [][]float64
	for _, name := range tune.Params() {
		if len(ranges[name]) > 0 {
			names = append(names, name)
			values = append(values, ranges[name])
		}
	}

	search, err := tune.NewGridSearch(names, values)
	if err != nil {
		return err
	}
	search.Workers = tuneWorkers

	candidates, err := search.Search(cmd.Context(), cfg.OptimizerConfig(), problem)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPARAMS\tSTATUS\tITER\tEVALS\tLOSS")
	for i, c := range candidates {
		if i >= tuneTop {
			break
		}
		if c.Err != nil {
			fmt.Fprintf(w, "%d\t%s\terror: %v\t\t\t\n", i+1, formatParams(c.Params), c.Err)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%.4e\n",
			i+1,
			formatParams(c.Params),
			c.Result.Status,
			c.Result.Iterations,
			c.Result.Evaluations,
			c.Result.F,
		)
	}
	return w.Flush()
}

func formatParams(params map[string]float64) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	s := ""
	for i, name := range names {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%g", name, params[name])
	}
	return s
}
