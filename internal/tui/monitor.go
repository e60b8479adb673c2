// Package tui is a live terminal monitor for a running solve.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/poisson"
	"github.com/san-kum/poisson/internal/viz"
)

const (
	feedBuffer   = 256
	historyLimit = 240
	defaultWidth = 80
)

// Feed forwards optimizer iterations to the monitor. Iterations are dropped
// while the monitor is behind, so the optimizer never waits on rendering.
type Feed struct {
	ch chan gradopt.Iteration
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan gradopt.Iteration, feedBuffer)}
}

func (f *Feed) OnIteration(it gradopt.Iteration) {
	select {
	case f.ch <- it:
	default:
	}
}

// Close ends the feed. It must only be called once the optimizer returned.
func (f *Feed) Close() { close(f.ch) }

type (
	iterMsg gradopt.Iteration
	doneMsg struct {
		sol *poisson.Solution
		err error
	}
)

// SolveFunc runs the solve being monitored; it must honour ctx.
type SolveFunc func(ctx context.Context) (*poisson.Solution, error)

type Model struct {
	title   string
	maxIter int
	width   int

	cancel context.CancelFunc
	feed   <-chan gradopt.Iteration
	done   *outcome

	last     gradopt.Iteration
	seen     bool
	history  []float64
	stopping bool
	finished bool

	sol *poisson.Solution
	err error
}

func newModel(title string, maxIter int, cancel context.CancelFunc, feed <-chan gradopt.Iteration, done *outcome) Model {
	return Model{
		title:   title,
		maxIter: maxIter,
		width:   defaultWidth,
		cancel:  cancel,
		feed:    feed,
		done:    done,
	}
}

func waitIteration(feed <-chan gradopt.Iteration) tea.Cmd {
	return func() tea.Msg {
		it, ok := <-feed
		if !ok {
			return nil
		}
		return iterMsg(it)
	}
}

// outcome is written once by the solve goroutine before finished is closed.
type outcome struct {
	finished chan struct{}
	sol      *poisson.Solution
	err      error
}

func (o *outcome) wait() doneMsg {
	<-o.finished
	return doneMsg{sol: o.sol, err: o.err}
}

func waitDone(o *outcome) tea.Cmd {
	return func() tea.Msg { return o.wait() }
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitIteration(m.feed), waitDone(m.done))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case iterMsg:
		m.last, m.seen = gradopt.Iteration(msg), true
		if msg.FMin > 0 {
			m.history = append(m.history, math.Log10(msg.FMin))
			if len(m.history) > historyLimit {
				m.history = m.history[len(m.history)-historyLimit:]
			}
		}
		return m, waitIteration(m.feed)

	case doneMsg:
		m.finished = true
		m.sol, m.err = msg.sol, msg.err
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 40)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !m.stopping {
				m.stopping = true
				m.cancel()
			}
		}
		return m, nil
	}
	return m, nil
}

func label(s string) string { return viz.MetricLabel.Render(fmt.Sprintf("%-12s", s)) }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(viz.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(viz.Separator(m.width - 4))
	b.WriteString("\n\n")

	if !m.seen {
		b.WriteString(viz.Subtle.Render("waiting for the first iteration..."))
		b.WriteString("\n")
	} else {
		it := m.last
		fraction := 0.0
		if m.maxIter > 0 {
			fraction = float64(it.N) / float64(m.maxIter)
		}
		decades := 0.0
		if it.FInit > 0 && it.FMin > 0 {
			decades = math.Log10(it.FInit / it.FMin)
		}

		fmt.Fprintf(&b, "%s%s %s\n", label("iteration"),
			viz.MetricValue.Render(fmt.Sprintf("%d / %d", it.N, m.maxIter)), viz.ProgressBar(fraction, 24))
		fmt.Fprintf(&b, "%s%s\n", label("best loss"), viz.MetricValue.Render(fmt.Sprintf("%.4e", it.FMin)))
		fmt.Fprintf(&b, "%s%s\n", label("loss"), viz.MetricValue.Render(fmt.Sprintf("%.4e", it.F)))
		fmt.Fprintf(&b, "%s%s\n", label("reduction"), viz.MetricValue.Render(fmt.Sprintf("%.2f decades", decades)))
		fmt.Fprintf(&b, "%s%s\n", label("step"), viz.MetricValue.Render(fmt.Sprintf("%.4g", it.Step)))
		fmt.Fprintf(&b, "%s%s\n", label("elapsed"), viz.MetricValue.Render(it.Elapsed.Truncate(time.Millisecond).String()))
	}

	if len(m.history) > 1 {
		b.WriteString("\n")
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(max(m.width-14, 10)),
			asciigraph.Precision(1),
			asciigraph.Caption("log10(best loss)"),
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.stopping {
		b.WriteString(viz.StatusInterrupted.Render("stopping, keeping the best point..."))
	} else {
		b.WriteString(viz.KeyHint.Render("q / ctrl+c: stop and keep the best point"))
	}
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Run starts solve in the background and shows its progress until it
// returns. Quitting the monitor cancels the solve and waits for its best
// point. feed must be registered as an observer of the solve's optimizer.
func Run(ctx context.Context, title string, maxIter int, feed *Feed, solve SolveFunc) (*poisson.Solution, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := &outcome{finished: make(chan struct{})}
	go func() {
		done.sol, done.err = solve(ctx)
		feed.Close()
		close(done.finished)
	}()

	_, err := tea.NewProgram(newModel(title, maxIter, cancel, feed.ch, done), tea.WithAltScreen()).Run()
	cancel()

	res := done.wait()
	if res.err != nil {
		return nil, res.err
	}
	if err != nil {
		return res.sol, fmt.Errorf("monitor: %w", err)
	}
	return res.sol, nil
}
