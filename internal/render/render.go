// Package render draws chunk panels: the chunk text with its highlights
// applied next to the sanitized generated comment.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog"

	"github.com/csheth/tdamcheck/internal/compliance"
	"github.com/csheth/tdamcheck/internal/highlight"
	"github.com/csheth/tdamcheck/internal/logging"
	"github.com/csheth/tdamcheck/internal/sanitize"
)

const (
	defaultWidth    = 80
	minColumnWidth  = 20
	sideBySideWidth = 100
	columnGap       = 3
)

var (
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2d6a4f"))
	panelBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#40916c")).Padding(0, 1)
	markStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#111111")).TabWidth(lipgloss.NoTabConversion)
)

// Options configure a Renderer.
type Options struct {
	Width        int
	DefaultColor string
	FromAnchors  bool
	// Plain disables colours in generated comments, for non-terminal output.
	Plain bool
}

// Renderer turns chunks into terminal text. It caches a markdown renderer per
// width and is not safe for concurrent use.
type Renderer struct {
	opts      Options
	sanitizer *sanitize.Sanitizer
	markdown  *sanitize.Markdown
	glamour   *glamour.TermRenderer
	glamourW  int
	fallback  string
	logger    zerolog.Logger
}

// New returns a Renderer. DefaultColor must resolve; it falls back to yellow.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	fallback, ok := highlight.ResolveColor(opts.DefaultColor)
	if !ok {
		fallback, _ = highlight.ResolveColor("yellow")
	}
	return &Renderer{
		opts:      opts,
		sanitizer: sanitize.New(),
		markdown:  sanitize.NewMarkdown(),
		fallback:  fallback,
		logger:    logging.Component("render"),
	}
}

// SetWidth changes the total width available to panels.
func (r *Renderer) SetWidth(width int) {
	if width <= 0 {
		width = defaultWidth
	}
	r.opts.Width = width
}

// Width returns the total panel width.
func (r *Renderer) Width() int {
	return r.opts.Width
}

// Chunks renders every chunk as a panel, separated by blank lines.
func (r *Renderer) Chunks(chunks []compliance.Chunk) string {
	panels := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		panels = append(panels, r.Chunk(i, chunk))
	}
	return strings.Join(panels, "\n\n")
}

// Chunk renders one panel. Wide terminals place the text and the comment side
// by side; narrow ones stack them.
func (r *Renderer) Chunk(index int, chunk compliance.Chunk) string {
	inner := r.opts.Width - panelBoxStyle.GetHorizontalFrameSize()
	if inner < minColumnWidth {
		inner = minColumnWidth
	}

	if r.opts.Width >= sideBySideWidth {
		column := (inner - columnGap) / 2
		left := lipgloss.NewStyle().Width(column).Render(r.textColumn(index, chunk, column))
		right := lipgloss.NewStyle().Width(column).Render(r.commentColumn(chunk, column))
		gap := strings.Repeat(" ", columnGap)
		return panelBoxStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right))
	}

	body := r.textColumn(index, chunk, inner) + "\n\n" + r.commentColumn(chunk, inner)
	return panelBoxStyle.Render(body)
}

func (r *Renderer) textColumn(index int, chunk compliance.Chunk, width int) string {
	title := panelTitleStyle.Render(fmt.Sprintf("Document Chunk %d", index+1))
	return title + "\n" + wordwrap.String(r.Text(chunk), width)
}

func (r *Renderer) commentColumn(chunk compliance.Chunk, width int) string {
	title := panelTitleStyle.Render("Generated Comment")
	return title + "\n" + r.Comment(chunk.Comment, width)
}

// Text applies the chunk's highlights. Chunks without explicit highlights
// fall back to anchors in the comment when enabled.
func (r *Renderer) Text(chunk compliance.Chunk) string {
	spans := r.Spans(chunk)
	var b strings.Builder
	for _, seg := range highlight.Render(chunk.Text, spans) {
		if !seg.Highlighted() {
			b.WriteString(seg.Text)
			continue
		}
		// lipgloss pads multi-line blocks to their widest line, so each line
		// is styled on its own.
		style := r.markStyle(seg.Color)
		for i, line := range strings.Split(seg.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	return b.String()
}

// Spans returns the highlight spans applied to chunk.
func (r *Renderer) Spans(chunk compliance.Chunk) []highlight.Span {
	if len(chunk.Highlights) > 0 {
		if err := highlight.Validate(chunk.Text, chunk.Highlights); err != nil {
			r.logger.Warn().Err(err).Msg("repairing chunk highlights")
		}
		return chunk.Highlights
	}
	if r.opts.FromAnchors {
		return highlight.FromAnchors(chunk.Text, chunk.Comment, r.opts.DefaultColor)
	}
	return nil
}

func (r *Renderer) markStyle(color string) lipgloss.Style {
	hex, ok := highlight.ResolveColor(color)
	if !ok {
		hex = r.fallback
	}
	return markStyle.Background(lipgloss.Color(hex))
}

// Comment sanitizes markup and renders it as terminal markdown. When the
// markdown pipeline fails the sanitized text is shown without formatting.
func (r *Renderer) Comment(markup string, width int) string {
	safe := r.sanitizer.Sanitize(markup)
	if strings.TrimSpace(safe) == "" {
		return ""
	}
	text, err := r.markdown.Convert(safe)
	if err != nil {
		r.logger.Debug().Err(err).Msg("failed to convert comment to markdown, showing plain text")
		return wordwrap.String(sanitize.PlainText(safe), width)
	}
	renderer, err := r.termRenderer(width)
	if err != nil {
		r.logger.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return wordwrap.String(text, width)
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		r.logger.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return wordwrap.String(text, width)
	}
	return strings.Trim(rendered, "\n")
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	if r.glamour != nil && r.glamourW == width {
		return r.glamour, nil
	}
	style := styles.DarkStyle
	if r.opts.Plain {
		style = styles.NoTTYStyle
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.glamour = renderer
	r.glamourW = width
	return renderer, nil
}
