package stubserver

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/tdamcheck/internal/compliance"
	"github.com/csheth/tdamcheck/internal/highlight"
)

const sampleText = `Our fund is guaranteed to beat the market. It delivered strong returns last year.

Fees are described in the prospectus.`

func newTestClient(t *testing.T, opts Options) *compliance.Client {
	t.Helper()
	server := httptest.NewServer(New(opts).Handler())
	t.Cleanup(server.Close)
	client, err := compliance.New(compliance.Config{Endpoint: server.URL + "/upload", FieldName: opts.FieldName})
	require.NoError(t, err)
	return client
}

func TestUploadRoundTrip(t *testing.T) {
	client := newTestClient(t, Options{})

	result, err := client.Upload(context.Background(), "req-1", "policy.txt", strings.NewReader(sampleText))
	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)

	first := result.Chunks[0]
	assert.Equal(t, "Our fund is guaranteed to beat the market. It delivered strong returns last year.", first.Text)
	assert.Contains(t, first.Comment, "<strong>Misleading claim:</strong>")
	assert.Contains(t, first.Comment, `id="Our fund is guaranteed to beat the market."`)
	assert.Contains(t, first.Comment, "Missing disclosure")
	require.NotEmpty(t, first.Highlights)
	assert.NoError(t, highlight.Validate(first.Text, first.Highlights))
	span := first.Highlights[0]
	assert.Equal(t, "Our fund is guaranteed to beat the market.", string([]rune(first.Text)[span.Start:span.End]))

	assert.Equal(t, "Fees are described in the prospectus.", result.Chunks[1].Text)
	assert.Equal(t, criteriaMet, result.Chunks[1].Comment)
	assert.Empty(t, result.Chunks[1].Highlights)
}

func TestUploadCustomFieldName(t *testing.T) {
	client := newTestClient(t, Options{FieldName: "document"})
	result, err := client.Upload(context.Background(), "", "a.txt", strings.NewReader("Fine."))
	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
}

func TestUploadUnsupportedType(t *testing.T) {
	client := newTestClient(t, Options{})
	_, err := client.Upload(context.Background(), "", "photo.png", strings.NewReader("x"))
	require.Error(t, err)

	var dataErr *compliance.DataError
	require.True(t, errors.As(err, &dataErr), "expected DataError, got %T", err)
	assert.Contains(t, dataErr.Reason, unsupportedFileType)
}

func TestUploadMissingFile(t *testing.T) {
	server := httptest.NewServer(New(Options{}).Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/upload", "text/plain", strings.NewReader("nope"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(New(Options{}).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadCancelledBeforeDelay(t *testing.T) {
	client := newTestClient(t, Options{Delay: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Upload(ctx, "", "a.txt", strings.NewReader("Fine."))
	require.Error(t, err)
	assert.Equal(t, compliance.KindTransport, compliance.Classify(err))
}

func TestSplitChunks(t *testing.T) {
	assert.Empty(t, SplitChunks("  \n\n  "))
	assert.Equal(t, []string{"one two", "three"}, SplitChunks("one\ntwo\n\n\n three "))

	long := strings.Repeat("This sentence is padding for the chunker. ", 40)
	chunks := SplitChunks(long)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), maxChunkRunes)
		assert.True(t, strings.HasSuffix(c, "."))
	}
}

func TestReviewSingleSentenceSkipsMinorRules(t *testing.T) {
	chunks := Review("We always answer the phone.")
	require.Len(t, chunks, 1)
	assert.Equal(t, criteriaMet, chunks[0].Comment)

	chunks = Review("Returns are risk-free.")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Comment, "Unbalanced risk statement")
}

func TestReviewEscapesExcerpts(t *testing.T) {
	chunks := Review(`The "best" fund <b>ever</b>. It never loses.`)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Comment, "&lt;b&gt;")
	assert.NotContains(t, chunks[0].Comment, "<b>")
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>First</w:t></w:r><w:r><w:t xml:space="preserve"> paragraph.</w:t></w:r></w:p>
<w:p><w:r><w:t>Second.</w:t></w:r></w:p>
</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	text, err := extractText(".docx", &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"First paragraph.", "Second."}, SplitChunks(text))

	_, err = extractText(".docx", strings.NewReader("not a zip"))
	assert.Error(t, err)
}

type scriptedReviewer struct {
	calls []string
	fail  bool
}

func (r *scriptedReviewer) Review(_ context.Context, chunk string) (string, error) {
	r.calls = append(r.calls, chunk)
	if r.fail {
		return "", errors.New("model offline")
	}
	return `<ul><li id="` + chunk + `"><strong>Checked:</strong> fine</li></ul>`, nil
}

func TestUploadWithReviewer(t *testing.T) {
	reviewer := &scriptedReviewer{}
	client := newTestClient(t, Options{Reviewer: reviewer})

	result, err := client.Upload(context.Background(), "", "policy.txt", strings.NewReader(sampleText))
	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	assert.Len(t, reviewer.calls, 2)
	assert.Contains(t, result.Chunks[1].Comment, "<strong>Checked:</strong>")
	assert.Empty(t, result.Chunks[0].Highlights)
}

func TestUploadReviewerFailure(t *testing.T) {
	client := newTestClient(t, Options{Reviewer: &scriptedReviewer{fail: true}})

	_, err := client.Upload(context.Background(), "", "policy.txt", strings.NewReader(sampleText))
	require.Error(t, err)
	assert.Equal(t, compliance.KindStatus, compliance.Classify(err))
}
