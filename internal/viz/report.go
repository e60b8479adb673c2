package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/storage"
)

// LogLoss returns log10 of the best loss per iteration. Zero losses are
// clamped to the smallest positive value seen.
func LogLoss(history []gradopt.Iteration) []float64 {
	floor := math.Inf(1)
	for _, it := range history {
		if it.FMin > 0 {
			floor = math.Min(floor, it.FMin)
		}
	}
	if math.IsInf(floor, 1) {
		floor = 1
	}

	out := make([]float64, len(history))
	for i, it := range history {
		out[i] = math.Log10(math.Max(it.FMin, floor))
	}
	return out
}

// Convergence plots log10 of the best loss against iteration.
func Convergence(history []gradopt.Iteration, width, height int) string {
	if len(history) == 0 {
		return Subtle.Render("no iterations recorded")
	}
	return asciigraph.Plot(LogLoss(history),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption("log10(best loss) per iteration"),
	)
}

func row(label, value string) string {
	return MetricLabel.Render(fmt.Sprintf("%-14s", label)) + MetricValue.Render(value)
}

// Summary renders the metadata of a stored run as a panel.
func Summary(meta *storage.RunMetadata) string {
	lines := []string{
		Title.Render(meta.ID),
		"",
		row("name", meta.Name),
		row("created", meta.Timestamp.Format("2006-01-02 15:04:05")),
		row("shape", fmt.Sprint(meta.Shape)),
		row("dx", fmt.Sprint(meta.Dx)),
		row("fixed cells", fmt.Sprint(meta.Fixed)),
		MetricLabel.Render(fmt.Sprintf("%-14s", "status")) + StatusStyle(meta.Status).Render(meta.Status),
		row("iterations", fmt.Sprint(meta.Iterations)),
		row("evaluations", fmt.Sprint(meta.Evaluations)),
		row("initial loss", fmt.Sprintf("%.4e", meta.InitialLoss)),
		row("final loss", fmt.Sprintf("%.4e", meta.FinalLoss)),
		row("elapsed", fmt.Sprintf("%.2fs", meta.ElapsedSeconds)),
	}

	if len(meta.Metrics) > 0 {
		lines = append(lines, "")
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, row(name, fmt.Sprintf("%.4g", meta.Metrics[name])))
		}
	}

	return Panel.BorderForeground(CurrentTheme.Accent).Render(strings.Join(lines, "\n"))
}

// RunTable renders one line per stored run.
func RunTable(runs []storage.RunMetadata) string {
	if len(runs) == 0 {
		return Subtle.Render("no runs")
	}
	header := fmt.Sprintf("%-28s %-12s %-20s %10s %12s", "ID", "SHAPE", "STATUS", "ITER", "LOSS")
	lines := []string{Title.Render(header)}
	for _, r := range runs {
		status := StatusStyle(r.Status).Render(fmt.Sprintf("%-20s", r.Status))
		lines = append(lines, fmt.Sprintf("%-28s %-12s %s %10d %12.3e",
			r.ID, fmt.Sprint(r.Shape), status, r.Iterations, r.FinalLoss))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
