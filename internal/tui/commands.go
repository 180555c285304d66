package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/tdamcheck/internal/document"
)

var errNoUploader = errors.New("no compliance service configured")

func uploadJob(client Uploader, requestID, path string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if client == nil {
			return uploadResultMsg{requestID: requestID, err: errNoUploader}, errNoUploader
		}
		result, err := client.UploadFile(ctx, requestID, path)
		if err != nil {
			return uploadResultMsg{requestID: requestID, err: err}, err
		}
		return uploadResultMsg{
			requestID: requestID,
			chunks:    result.Chunks,
			duration:  result.Duration,
		}, nil
	}
}

// inspectJob gathers page counts and previews, which can take a while for
// large PDFs.
func inspectJob(path string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		info, err := document.Inspect(path)
		return inspectResultMsg{path: path, info: info, err: err}, err
	}
}
