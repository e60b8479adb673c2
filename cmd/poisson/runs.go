package main

import (
	"fmt"
	"os"

	"github.com/san-kum/poisson/internal/export"
	"github.com/san-kum/poisson/internal/storage"
	"github.com/san-kum/poisson/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	fmt.Println(viz.RunTable(runs))
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	u, err := st.LoadSolution(runID)
	if err != nil {
		return err
	}
	hist, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Summary(meta))
	fmt.Println()
	fmt.Println(viz.Convergence(hist, width, 10))
	fmt.Println()
	if contour > 0 && u.NDim() > 1 {
		fmt.Print(viz.Contour(u, width, contour))
	} else {
		fmt.Println(viz.Heatmap(u, width))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if history {
		hist, err := st.LoadHistory(runID)
		if err != nil {
			return err
		}
		if err := export.SaveConvergence(hist, outPath, meta.ID); err != nil {
			return err
		}
	} else {
		u, err := st.LoadSolution(runID)
		if err != nil {
			return err
		}
		if err := export.SaveImage(u, outPath, meta.ID); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	u, err := st.LoadSolution(runID)
	if err != nil {
		return err
	}

	if outPath == "" {
		return export.ExportJSON(os.Stdout, meta, u)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.ExportJSON(f, meta, u)
}
