// Package stubserver serves a local stand-in for the compliance service. It
// speaks the same upload contract and produces deterministic rule-based
// reviews unless a model-backed Reviewer is configured.
package stubserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/csheth/tdamcheck/internal/logging"
)

const (
	DefaultAddr      = "127.0.0.1:8000"
	DefaultFieldName = "file"
	maxUploadBytes   = 32 << 20
)

// Options configure the stub.
type Options struct {
	FieldName string
	// Delay is slept before each review so the progress bar has something
	// to show.
	Delay time.Duration
	// Reviewer replaces the built-in rules when set.
	Reviewer Reviewer
}

// Server wraps the echo instance.
type Server struct {
	echo   *echo.Echo
	opts   Options
	logger zerolog.Logger
}

// APIError is returned for requests the stub cannot handle at all.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBadRequestError(message string, cause error) *APIError {
	err := &APIError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

func newInternalError(message string, cause error) *APIError {
	err := &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// New builds a Server with its routes registered.
func New(opts Options) *Server {
	if opts.FieldName == "" {
		opts.FieldName = DefaultFieldName
	}
	s := &Server{
		echo:   echo.New(),
		opts:   opts,
		logger: logging.Component("stub"),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.BodyLimit(fmt.Sprintf("%dM", maxUploadBytes>>20)))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info().
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))

	s.echo.GET("/healthz", s.handleHealth)
	s.echo.POST("/upload", s.handleUpload)
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	s.logger.Info().Str("addr", addr).Msg("stub service listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{Status: httpErr.Code, Code: http.StatusText(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	default:
		apiErr = newInternalError("unexpected error", err)
	}
	if apiErr.Status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	if jsonErr := c.JSON(apiErr.Status, apiErr); jsonErr != nil {
		s.logger.Error().Err(jsonErr).Msg("failed to write error response")
	}
}
