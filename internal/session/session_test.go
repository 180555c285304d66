package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/tdamcheck/internal/compliance"
	"github.com/csheth/tdamcheck/internal/document"
)

func selected() State {
	return State{}.Select(document.Info{Name: "report.pdf", Kind: document.KindPDF})
}

func TestBeginWithoutFile(t *testing.T) {
	s, err := State{}.Begin("req")
	require.ErrorIs(t, err, ErrNoFile)
	assert.Equal(t, Idle, s.Phase)
	assert.False(t, s.CanSubmit())
}

func TestBeginResetsState(t *testing.T) {
	s := selected()
	s.Chunks = []compliance.Chunk{{Text: "old"}}
	s.Progress = 40
	s.Err = errors.New("old")

	s, err := s.Begin("req-1")
	require.NoError(t, err)
	assert.Equal(t, Uploading, s.Phase)
	assert.Zero(t, s.Progress)
	assert.Empty(t, s.Chunks)
	assert.NoError(t, s.Err)
	assert.False(t, s.CanSubmit())
	assert.False(t, s.ShowResults())

	_, err = s.Begin("req-2")
	assert.ErrorIs(t, err, ErrBusy)
}

func TestSucceed(t *testing.T) {
	s, err := selected().Begin("req-1")
	require.NoError(t, err)
	s = s.Advance("req-1", 37)

	chunks := []compliance.Chunk{{Text: "hello world", Comment: "<b>ok</b>"}}
	s = s.Succeed("req-1", chunks)
	assert.Equal(t, Succeeded, s.Phase)
	assert.Equal(t, chunks, s.Chunks)
	assert.Equal(t, 37, s.Progress, "progress stays frozen where it was")
	assert.True(t, s.ShowResults())
	assert.True(t, s.CanSubmit())
}

func TestFailLeavesChunksEmpty(t *testing.T) {
	s, err := selected().Begin("req-1")
	require.NoError(t, err)
	s = s.Fail("req-1", errors.New("boom"))
	assert.Equal(t, Failed, s.Phase)
	assert.Empty(t, s.Chunks)
	assert.EqualError(t, s.Err, "boom")
	assert.False(t, s.ShowResults())
}

func TestStaleResultsIgnored(t *testing.T) {
	s, err := selected().Begin("req-1")
	require.NoError(t, err)

	s = s.Succeed("req-0", []compliance.Chunk{{Text: "stale"}})
	s = s.Fail("req-0", errors.New("stale"))
	s = s.Advance("req-0", 50)
	assert.Equal(t, Uploading, s.Phase)
	assert.Zero(t, s.Progress)

	s = s.Succeed("req-1", nil)
	s = s.Advance("req-1", 80)
	assert.Zero(t, s.Progress, "ticks after completion do not mutate state")
}

func TestAdvanceIsMonotonic(t *testing.T) {
	s, _ := selected().Begin("r")
	s = s.Advance("r", 10)
	s = s.Advance("r", 5)
	assert.Equal(t, 10, s.Progress)
	s = s.Advance("r", 400)
	assert.Equal(t, 100, s.Progress)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "uploading", Uploading.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
}
