package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/poisson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) (Model, *bool) {
	t.Helper()
	cancelled := false
	done := &outcome{finished: make(chan struct{})}
	m := newModel("laplace", 100, func() { cancelled = true }, NewFeed().ch, done)
	return m, &cancelled
}

func TestFeedDropsWhenFull(t *testing.T) {
	f := NewFeed()
	for i := 0; i < feedBuffer+10; i++ {
		f.OnIteration(gradopt.Iteration{N: i})
	}
	assert.Len(t, f.ch, feedBuffer)

	f.Close()
	cmd := waitIteration(f.ch)
	first := cmd()
	assert.Equal(t, iterMsg(gradopt.Iteration{N: 0}), first)
}

func TestModelIteration(t *testing.T) {
	m, _ := testModel(t)
	assert.Contains(t, m.View(), "waiting")

	next, cmd := m.Update(iterMsg{N: 7, F: 2, FMin: 1, FInit: 100, Step: 0.5, Elapsed: time.Second})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, 7, m.last.N)
	assert.Equal(t, []float64{0}, m.history)

	view := m.View()
	assert.Contains(t, view, "7 / 100")
	assert.Contains(t, view, "2.00 decades")
	assert.Contains(t, view, "1s")
}

func TestModelHistoryLimit(t *testing.T) {
	m, _ := testModel(t)
	for i := 0; i < historyLimit+5; i++ {
		next, _ := m.Update(iterMsg{N: i, FMin: 10})
		m = next.(Model)
	}
	assert.Len(t, m.history, historyLimit)
}

func TestModelStopCancelsOnce(t *testing.T) {
	m, cancelled := testModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	assert.Nil(t, cmd, "quitting waits for the solve to return")
	assert.True(t, *cancelled)
	assert.True(t, m.stopping)
	assert.Contains(t, m.View(), "stopping")

	*cancelled = false
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	assert.False(t, *cancelled)
}

func TestModelDoneQuits(t *testing.T) {
	m, _ := testModel(t)
	sol := &poisson.Solution{}

	next, cmd := m.Update(doneMsg{sol: sol})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, m.finished)
	assert.Same(t, sol, m.sol)
}

func TestOutcomeWait(t *testing.T) {
	o := &outcome{finished: make(chan struct{})}
	go func() {
		o.sol = &poisson.Solution{}
		close(o.finished)
	}()

	msg := waitDone(o)().(doneMsg)
	assert.NotNil(t, msg.sol)
	assert.Equal(t, msg, o.wait())
}
