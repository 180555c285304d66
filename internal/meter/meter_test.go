package meter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorStopsAtCeiling(t *testing.T) {
	s := New(time.Millisecond, 5)
	s, cmd := s.Start()
	require.NotNil(t, cmd)
	require.True(t, s.Running())
	assert.Equal(t, 0, s.Value())

	for i := 0; i < 20; i++ {
		s, cmd = s.Update(s.Tick())
		assert.LessOrEqual(t, s.Value(), s.Ceiling())
		if !s.Running() {
			break
		}
		require.NotNil(t, cmd)
	}
	assert.Equal(t, 5, s.Value())
	assert.False(t, s.Running())
	assert.Nil(t, cmd, "no further tick once the ceiling is reached")

	s, cmd = s.Update(s.Tick())
	assert.Equal(t, 5, s.Value())
	assert.Nil(t, cmd)
}

func TestSimulatorIgnoresStaleTicks(t *testing.T) {
	s := New(time.Millisecond, 99)
	s, _ = s.Start()
	stale := s.Tick()
	s, _ = s.Update(stale)
	require.Equal(t, 1, s.Value())

	s = s.Stop()
	s, cmd := s.Update(stale)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, s.Value(), "stopped value stays frozen")

	s, _ = s.Start()
	s, _ = s.Update(stale)
	assert.Equal(t, 0, s.Value(), "ticks from an earlier run are ignored")
}

func TestSimulatorIgnoresOtherInstances(t *testing.T) {
	a := New(time.Millisecond, 99)
	b := New(time.Millisecond, 99)
	a, _ = a.Start()
	b, _ = b.Start()
	a, _ = a.Update(b.Tick())
	assert.Equal(t, 0, a.Value())
}

func TestSimulatorDefaults(t *testing.T) {
	s := New(0, 500)
	assert.Equal(t, DefaultInterval, s.Interval())
	assert.Equal(t, 100, s.Ceiling())
	assert.Equal(t, 1, New(0, -3).Ceiling())
	assert.False(t, s.Running())
}

func TestSimulatorPercent(t *testing.T) {
	s := New(time.Millisecond, 99)
	s, _ = s.Start()
	for i := 0; i < 25; i++ {
		s, _ = s.Update(s.Tick())
	}
	assert.InDelta(t, 0.25, s.Percent(), 0.0001)
}
