package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsActiveContent(t *testing.T) {
	t.Parallel()
	s := New()

	tests := []struct {
		name      string
		in        string
		forbidden []string
	}{
		{"event handler", `<img src=x onerror=alert(1)>`, []string{"onerror", "alert"}},
		{"script block", `<script>alert(1)</script><p>hi</p>`, []string{"<script", "alert"}},
		{"javascript url", `<a href="javascript:alert(1)">x</a>`, []string{"javascript"}},
		{"inline handler", `<p onclick="steal()">Hello</p>`, []string{"onclick", "steal"}},
		{"iframe", `<iframe src="https://evil.example"></iframe>ok`, []string{"iframe", "evil"}},
		{"style", `<style>body{display:none}</style><em>x</em>`, []string{"<style", "display"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.Sanitize(tt.in)
			for _, bad := range tt.forbidden {
				assert.NotContains(t, got, bad)
			}
			assert.Equal(t, got, s.Sanitize(got), "sanitize must be idempotent")
		})
	}
}

func TestSanitizeKeepsFormatting(t *testing.T) {
	s := New()
	inputs := []string{
		`<b>ok</b>`,
		`<p>Hello <em>there</em></p>`,
		`<ul><li><strong>Missing disclosure:</strong> add the risk statement.</li></ul>`,
		`<ol><li>one</li><li>two</li></ol>`,
		`<p>See <a href="https://example.com/guide">the guide</a>.</p>`,
		`<abbr title="Key Investor Information Document?">KIID</abbr>`,
	}
	for _, in := range inputs {
		assert.Equal(t, in, s.Sanitize(in))
	}
}

func TestSanitizeRepairsMalformedMarkup(t *testing.T) {
	s := New()
	got := s.Sanitize(`<b>unclosed`)
	assert.Equal(t, `<b>unclosed</b>`, got)
	assert.Equal(t, got, s.Sanitize(got))

	got = s.Sanitize(`<p onclick="x()">Hello <em>there</p>`)
	assert.NotContains(t, got, "onclick")
	assert.Contains(t, got, "<em>there</em>")
	assert.Equal(t, got, s.Sanitize(got))
}

func TestSanitizeScriptBearingImage(t *testing.T) {
	s := New()
	assert.Equal(t, `<img src="x">`, s.Sanitize(`<img src=x onerror=alert(1)>`))
}

func TestMarkdownConvert(t *testing.T) {
	converter := NewMarkdown()
	got, err := converter.Convert(`<p><strong>Issue:</strong> fix the label</p>`)
	require.NoError(t, err)
	assert.Equal(t, "**Issue:** fix the label", got)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "- A: b\n- c", PlainText(`<ul><li><b>A</b>: b</li><li>c</li></ul>`))
	assert.Equal(t, "ok", PlainText(`<b>ok</b>`))
}
