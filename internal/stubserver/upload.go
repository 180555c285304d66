package stubserver

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const unsupportedFileType = "Unsupported file type."

func (s *Server) handleUpload(c echo.Context) error {
	header, err := c.FormFile(s.opts.FieldName)
	if err != nil {
		return newBadRequestError("no file provided", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !supportedExtension(ext) {
		// The real service answers 200 with an error body here.
		return c.JSON(http.StatusOK, map[string]string{"error": unsupportedFileType})
	}

	src, err := header.Open()
	if err != nil {
		return newInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	text, err := extractText(ext, src)
	if err != nil {
		return newBadRequestError("failed to extract text", err)
	}

	if s.opts.Delay > 0 {
		ctx := c.Request().Context()
		select {
		case <-time.After(s.opts.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var chunks []ReviewedChunk
	if s.opts.Reviewer != nil {
		chunks, err = ReviewWith(c.Request().Context(), s.opts.Reviewer, text)
		if err != nil {
			return newInternalError("review failed", err)
		}
	} else {
		chunks = Review(text)
	}
	s.logger.Debug().
		Str("file", header.Filename).
		Int64("size", header.Size).
		Int("chunks", len(chunks)).
		Msg("reviewed upload")
	return c.JSON(http.StatusOK, uploadResponse{Chunks: chunks})
}

type uploadResponse struct {
	Chunks []ReviewedChunk `json:"chunks"`
}

func supportedExtension(ext string) bool {
	switch ext {
	case ".pdf", ".docx", ".txt":
		return true
	default:
		return false
	}
}
