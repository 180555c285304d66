package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/csheth/tdamcheck/internal/stubserver"
)

func newTestApp(t *testing.T, endpoint string, out *bytes.Buffer) *cli.Command {
	t.Helper()
	flags := &Flags{Endpoint: endpoint, ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")}
	require.NoError(t, flags.LoadConfig())

	app := &cli.Command{Name: "tdamcheck"}
	app = NewCheckCmd(flags, out).Register(app)
	app = NewConfigCmd(flags, out).Register(app)
	app = NewStubCmd(flags).Register(app)
	return app
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCheckJSON(t *testing.T) {
	server := httptest.NewServer(stubserver.New(stubserver.Options{}).Handler())
	defer server.Close()

	var out bytes.Buffer
	app := newTestApp(t, server.URL+"/upload", &out)
	path := writeFile(t, "policy.txt", "Returns are guaranteed.")

	require.NoError(t, app.Run(context.Background(), []string{"tdamcheck", "check", "--json", path}))

	var report checkReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "policy.txt", report.File)
	assert.NotEmpty(t, report.RequestID)
	require.Len(t, report.Chunks, 1)
	assert.Equal(t, "Returns are guaranteed.", report.Chunks[0].Text)
	assert.Contains(t, report.Chunks[0].Comment, "Misleading claim")
}

func TestCheckRendersPanels(t *testing.T) {
	server := httptest.NewServer(stubserver.New(stubserver.Options{}).Handler())
	defer server.Close()

	var out bytes.Buffer
	app := newTestApp(t, server.URL+"/upload", &out)
	path := writeFile(t, "policy.txt", "Fees are described in the prospectus.")

	require.NoError(t, app.Run(context.Background(), []string{"tdamcheck", "check", "--width", "80", path}))
	assert.Contains(t, out.String(), "Document Chunk 1")
	assert.Contains(t, out.String(), "All criteria met.")
}

func TestCheckReportsServiceErrors(t *testing.T) {
	server := httptest.NewServer(stubserver.New(stubserver.Options{}).Handler())
	defer server.Close()

	var out bytes.Buffer
	app := newTestApp(t, server.URL+"/upload", &out)
	path := writeFile(t, "photo.png", "x")

	err := app.Run(context.Background(), []string{"tdamcheck", "check", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported file type.")
}

func TestCheckRequiresFile(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, "", &out)
	err := app.Run(context.Background(), []string{"tdamcheck", "check"})
	assert.ErrorContains(t, err, "exactly one FILE")
}

func TestEndpointOverrideValidated(t *testing.T) {
	flags := &Flags{Endpoint: "ftp://nope"}
	assert.ErrorContains(t, flags.LoadConfig(), "--endpoint")
}

func TestConfigPrintsYAML(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, "http://example.com/upload", &out)
	require.NoError(t, app.Run(context.Background(), []string{"tdamcheck", "config"}))
	assert.Contains(t, out.String(), "endpoint: http://example.com/upload")
	assert.Contains(t, out.String(), "ceiling: 99")
	assert.Contains(t, out.String(), "interval: 400ms")
}

func TestStubRejectsUnknownReviewer(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, "", &out)

	err := app.Run(context.Background(), []string{"tdamcheck", "stub", "--reviewer", "bard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown llm provider "bard"`)
}

func TestStubStartsWithModelReviewer(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, "", &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := app.Run(ctx, []string{
		"tdamcheck", "stub",
		"--addr", "127.0.0.1:0",
		"--reviewer", "ollama",
		"--model", "test-model",
		"--llm-endpoint", "http://127.0.0.1:1",
	})
	require.NoError(t, err)
}
