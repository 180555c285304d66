package tui

import (
	"context"
	"time"

	"github.com/csheth/tdamcheck/internal/compliance"
	"github.com/csheth/tdamcheck/internal/config"
	"github.com/csheth/tdamcheck/internal/document"
)

// Uploader sends a document to the compliance service.
type Uploader interface {
	UploadFile(ctx context.Context, requestID, path string) (*compliance.Result, error)
}

// Config wires the TUI to its collaborators. A zero Settings value means
// config.DefaultConfig, and a nil Uploader is built from Settings.
type Config struct {
	Settings config.Config
	Uploader Uploader
	Context  context.Context
}

type focusArea int

const (
	focusPicker focusArea = iota
	focusResults
)

const (
	noFileNotice   = "Please select a file first."
	busyNotice     = "An upload is already in progress."
	noChunksNotice = "The service returned no chunks for this document."
	appTitle       = "TDAM Compliance Checker"
	disclaimer     = "Language models can make mistakes, use at your own discretion"
)

type uploadResultMsg struct {
	requestID string
	chunks    []compliance.Chunk
	duration  time.Duration
	err       error
}

type inspectResultMsg struct {
	path string
	info document.Info
	err  error
}
