// Package meter provides a cosmetic progress counter that advances on a timer
// while a request is in flight. Its value is unrelated to bytes transferred.
package meter

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	DefaultInterval = 400 * time.Millisecond
	DefaultCeiling  = 99
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg advances a running Simulator. Ticks are tagged with the simulator
// instance and the run that scheduled them so stale ticks are ignored.
type TickMsg struct {
	ID  int
	run int
}

// Simulator is an immutable snapshot; every transition returns a new value.
type Simulator struct {
	id       int
	run      int
	value    int
	ceiling  int
	interval time.Duration
	running  bool
}

// New returns a stopped simulator. A non-positive interval falls back to
// DefaultInterval and the ceiling is clamped to [1, 100].
func New(interval time.Duration, ceiling int) Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if ceiling < 1 {
		ceiling = 1
	}
	if ceiling > 100 {
		ceiling = 100
	}
	return Simulator{id: nextID(), ceiling: ceiling, interval: interval}
}

// Start resets the value to zero and schedules the first tick. Ticks left
// over from a previous run are invalidated.
func (s Simulator) Start() (Simulator, tea.Cmd) {
	s.run++
	s.value = 0
	s.running = true
	return s, s.tick()
}

// Stop halts ticking and freezes the current value.
func (s Simulator) Stop() Simulator {
	s.run++
	s.running = false
	return s
}

// Update consumes ticks addressed to this simulator and its current run.
func (s Simulator) Update(msg tea.Msg) (Simulator, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != s.id || tick.run != s.run || !s.running {
		return s, nil
	}
	if s.value < s.ceiling {
		s.value++
	}
	if s.value >= s.ceiling {
		s.running = false
		return s, nil
	}
	return s, s.tick()
}

func (s Simulator) tick() tea.Cmd {
	id, run := s.id, s.run
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, run: run}
	})
}

// Value returns the current percentage.
func (s Simulator) Value() int { return s.value }

// Ceiling returns the highest value the simulator will report.
func (s Simulator) Ceiling() int { return s.ceiling }

// Interval returns the tick period.
func (s Simulator) Interval() time.Duration { return s.interval }

// Running reports whether more ticks are scheduled.
func (s Simulator) Running() bool { return s.running }

// Percent returns the value as a fraction for progress bar widgets.
func (s Simulator) Percent() float64 { return float64(s.value) / 100 }

// Tick builds the message the simulator expects next. Exposed for tests and
// for driving the simulator without a real timer.
func (s Simulator) Tick() TickMsg {
	return TickMsg{ID: s.id, run: s.run}
}
