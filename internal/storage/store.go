// Package storage persists solved runs as a directory per run holding
// metadata.json, solution.csv and history.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/poisson/internal/config"
	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/grid"
	"github.com/san-kum/poisson/internal/poisson"
)

const (
	metadataFile = "metadata.json"
	solutionFile = "solution.csv"
	historyFile  = "history.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Timestamp      time.Time              `json:"timestamp"`
	Shape          []int                  `json:"shape"`
	Dx             []float64              `json:"dx"`
	Fixed          int                    `json:"fixed"`
	Status         string                 `json:"status"`
	Iterations     int                    `json:"iterations"`
	Evaluations    int                    `json:"evaluations"`
	InitialLoss    float64                `json:"initial_loss"`
	FinalLoss      float64                `json:"final_loss"`
	ElapsedSeconds float64                `json:"elapsed_seconds"`
	Optimizer      config.OptimizerConfig `json:"optimizer"`
	Metrics        map[string]float64     `json:"metrics"`
}

// Run is everything recorded about one solve.
type Run struct {
	Name      string
	Optimizer config.OptimizerConfig
	Solution  *poisson.Solution
	History   []gradopt.Iteration
	Metrics   map[string]float64
}

func (s *Store) Save(run Run) (string, error) {
	sol := run.Solution
	if sol == nil || sol.Result == nil {
		return "", errors.New("storage: run has no solution")
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Name, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	fixed := 0
	for _, f := range sol.Fixed {
		if f {
			fixed++
		}
	}

	meta := RunMetadata{
		ID:             runID,
		Name:           run.Name,
		Timestamp:      now,
		Shape:          sol.U.Shape(),
		Dx:             sol.Dx,
		Fixed:          fixed,
		Status:         sol.Result.Status.String(),
		Iterations:     sol.Result.Iterations,
		Evaluations:    sol.Result.Evaluations,
		InitialLoss:    sol.Result.InitialF,
		FinalLoss:      sol.Result.F,
		ElapsedSeconds: sol.Result.Elapsed.Seconds(),
		Optimizer:      run.Optimizer,
		Metrics:        finite(run.Metrics),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSolution(filepath.Join(runDir, solutionFile), sol.U); err != nil {
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), run.History); err != nil {
		return "", err
	}
	return runID, nil
}

// finite drops values JSON cannot encode.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSolution(path string, u *grid.Grid) error {
	header := make([]string, 0, u.NDim()+1)
	for i := 0; i < u.NDim(); i++ {
		header = append(header, fmt.Sprintf("i%d", i))
	}
	header = append(header, "u")

	return writeCSV(path, header, func(w *csv.Writer) error {
		coords := make([]int, u.NDim())
		row := make([]string, u.NDim()+1)
		for i, v := range u.Data {
			u.Coords(i, coords)
			for k, c := range coords {
				row[k] = strconv.Itoa(c)
			}
			row[len(coords)] = formatFloat(v)
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeHistory(path string, history []gradopt.Iteration) error {
	header := []string{"iteration", "f", "fmin", "step", "elapsed"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, it := range history {
			row := []string{
				strconv.Itoa(it.N),
				formatFloat(it.F),
				formatFloat(it.FMin),
				formatFloat(it.Step),
				formatFloat(it.Elapsed.Seconds()),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header", filepath.Base(path))
	}
	return records[1:], nil
}

// LoadSolution rebuilds the solved grid of a run.
func (s *Store) LoadSolution(runID string) (*grid.Grid, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	u, err := grid.New(meta.Shape...)
	if err != nil {
		return nil, err
	}

	records, err := readCSV(filepath.Join(s.baseDir, runID, solutionFile))
	if err != nil {
		return nil, err
	}

	nd := u.NDim()
	coords := make([]int, nd)
	for line, record := range records {
		if len(record) != nd+1 {
			return nil, fmt.Errorf("solution line %d: expected %d fields, got %d", line+2, nd+1, len(record))
		}
		for k := 0; k < nd; k++ {
			c, err := strconv.Atoi(record[k])
			if err != nil || c < 0 || c >= meta.Shape[k] {
				return nil, fmt.Errorf("solution line %d: bad coordinate %q", line+2, record[k])
			}
			coords[k] = c
		}
		v, err := strconv.ParseFloat(record[nd], 64)
		if err != nil {
			return nil, fmt.Errorf("solution line %d: %w", line+2, err)
		}
		u.Set(v, coords...)
	}
	return u, nil
}

func (s *Store) LoadHistory(runID string) ([]gradopt.Iteration, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	history := make([]gradopt.Iteration, 0, len(records))
	for line, record := range records {
		if len(record) != 5 {
			return nil, fmt.Errorf("history line %d: expected 5 fields, got %d", line+2, len(record))
		}
		n, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("history line %d: %w", line+2, err)
		}
		var vals [4]float64
		for k := range vals {
			if vals[k], err = strconv.ParseFloat(record[k+1], 64); err != nil {
				return nil, fmt.Errorf("history line %d: %w", line+2, err)
			}
		}
		history = append(history, gradopt.Iteration{
			N:       n,
			F:       vals[0],
			FMin:    vals[1],
			Step:    vals[2],
			Elapsed: time.Duration(vals[3] * float64(time.Second)),
		})
	}
	return history, nil
}
