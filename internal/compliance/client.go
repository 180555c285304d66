// Package compliance uploads documents to the compliance-checking service and
// decodes the chunk list it returns.
package compliance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/tdamcheck/internal/logging"
)

const (
	DefaultEndpoint  = "http://localhost:8000/upload"
	DefaultFieldName = "file"
	// Checks run a model over every chunk, so they routinely take minutes.
	DefaultTimeout = 5 * time.Minute

	maxResponseBytes = 64 << 20
	maxErrorPreview  = 512
	requestIDHeader  = "X-Request-ID"
)

// Config describes how to reach the service.
type Config struct {
	Endpoint   string
	FieldName  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client performs uploads. It holds no per-request state.
type Client struct {
	endpoint  string
	fieldName string
	client    *http.Client
}

// Result is a decoded service response.
type Result struct {
	RequestID string
	Chunks    []Chunk
	Duration  time.Duration
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("endpoint %q must be an http(s) URL", endpoint)
	}
	field := cfg.FieldName
	if field == "" {
		field = DefaultFieldName
	}
	return &Client{
		endpoint:  endpoint,
		fieldName: field,
		client:    pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}, nil
}

// Endpoint returns the URL uploads are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// NewRequestID returns an identifier for one submission.
func NewRequestID() string {
	return uuid.NewString()
}

// UploadFile reads path and uploads it under its base name.
func (c *Client) UploadFile(ctx context.Context, requestID, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return c.Upload(ctx, requestID, filepath.Base(path), f)
}

// Upload posts content as a multipart form with a single file part and
// decodes the chunk list. Exactly one HTTP request is made.
func (c *Client) Upload(ctx context.Context, requestID, filename string, content io.Reader) (*Result, error) {
	if requestID == "" {
		requestID = NewRequestID()
	}
	logger := logging.Component("compliance").With().Str("request_id", requestID).Logger()

	body, contentType, err := c.encode(filename, content)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	started := time.Now()
	logger.Debug().Str("endpoint", c.endpoint).Str("file", filename).Int("bytes", body.Len()).Msg("uploading document")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "post document", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorPreview))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(preview)),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	chunks, err := decodeChunks(raw)
	if err != nil {
		return nil, err
	}
	duration := time.Since(started)
	logger.Debug().Int("chunks", len(chunks)).Dur("duration", duration).Msg("upload decoded")
	return &Result{RequestID: requestID, Chunks: chunks, Duration: duration}, nil
}

func (c *Client) encode(filename string, content io.Reader) (*bytes.Buffer, string, error) {
	if content == nil {
		return nil, "", errors.New("upload content is nil")
	}
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, c.fieldName, filename))
	header.Set("Content-Type", contentTypeFor(filename))
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("read document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finish form: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}

func decodeChunks(raw []byte) ([]Chunk, error) {
	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &DataError{Reason: "malformed response body", Err: err}
	}
	if parsed.Chunks == nil {
		if parsed.Error != "" {
			return nil, &DataError{Reason: "service error: " + parsed.Error}
		}
		return nil, &DataError{Reason: "response is missing the chunks field"}
	}
	return *parsed.Chunks, nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
