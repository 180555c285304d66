// Package session holds the upload controller state as an immutable snapshot.
// Every transition is a method returning a new State, so the TUI model (and
// tests) can treat it as a reducer.
package session

import (
	"errors"

	"github.com/csheth/tdamcheck/internal/compliance"
	"github.com/csheth/tdamcheck/internal/document"
)

// Phase is the upload lifecycle stage.
type Phase int

const (
	Idle Phase = iota
	Uploading
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNoFile is returned by Begin when nothing has been selected.
	ErrNoFile = errors.New("please select a file first")
	// ErrBusy is returned by Begin while a request is already in flight.
	ErrBusy = errors.New("an upload is already in progress")
)

// State is the controller snapshot the presentation layer renders.
type State struct {
	Phase     Phase
	File      *document.Info
	Progress  int
	Chunks    []compliance.Chunk
	Err       error
	RequestID string
}

// Select records the chosen file. Any file is accepted. Selecting during an
// upload only affects the next submission.
func (s State) Select(info document.Info) State {
	s.File = &info
	return s
}

// Begin moves to Uploading for requestID, resetting progress and discarding
// the previous chunk collection.
func (s State) Begin(requestID string) (State, error) {
	if s.File == nil {
		return s, ErrNoFile
	}
	if s.Phase == Uploading {
		return s, ErrBusy
	}
	s.Phase = Uploading
	s.Progress = 0
	s.Chunks = nil
	s.Err = nil
	s.RequestID = requestID
	return s, nil
}

// Advance records a simulated progress value. Ignored outside Uploading and
// never decreases.
func (s State) Advance(requestID string, value int) State {
	if !s.current(requestID) || value <= s.Progress {
		return s
	}
	if value > 100 {
		value = 100
	}
	s.Progress = value
	return s
}

// Succeed stores chunks for the in-flight request. Results for any other
// request are ignored.
func (s State) Succeed(requestID string, chunks []compliance.Chunk) State {
	if !s.current(requestID) {
		return s
	}
	s.Phase = Succeeded
	s.Chunks = chunks
	s.Err = nil
	return s
}

// Fail marks the in-flight request failed, leaving the chunk collection as
// Begin left it.
func (s State) Fail(requestID string, err error) State {
	if !s.current(requestID) {
		return s
	}
	s.Phase = Failed
	s.Err = err
	return s
}

// Uploading reports whether a request is in flight.
func (s State) Uploading() bool {
	return s.Phase == Uploading
}

// ShowResults reports whether chunk panels should be rendered.
func (s State) ShowResults() bool {
	return s.Phase != Uploading && len(s.Chunks) > 0
}

// CanSubmit reports whether the submit control is enabled.
func (s State) CanSubmit() bool {
	return s.File != nil && s.Phase != Uploading
}

func (s State) current(requestID string) bool {
	return s.Phase == Uploading && requestID != "" && requestID == s.RequestID
}
