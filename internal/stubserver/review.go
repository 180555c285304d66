package stubserver

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/csheth/tdamcheck/internal/highlight"
)

const (
	maxChunkRunes     = 800
	maxCommentsPerRun = 7
	criteriaMet       = "<p>All criteria met.</p>"
	pastPerformance   = "Past performance is not a reliable indicator of future results."
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	whitespace     = regexp.MustCompile(`\s+`)
	sentencePart   = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*|[^.!?]+$`)
	performanceRef = regexp.MustCompile(`(?i)\b(returns?|performance|yield)\b`)
	disclosureRef  = regexp.MustCompile(`(?i)past performance is not`)
)

// ReviewedChunk is one element of the upload response. The service names the
// text field "chunk".
type ReviewedChunk struct {
	Chunk      string           `json:"chunk"`
	Comment    string           `json:"comment"`
	Highlights []highlight.Span `json:"highlights,omitempty"`
}

type rule struct {
	pattern *regexp.Regexp
	issue   string
	advice  string
	color   string
	// severe rules still apply to single sentence chunks
	severe bool
}

var rules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)\bguarantee[ds]?\b`),
		issue:   "Misleading claim",
		advice:  "Returns cannot be guaranteed; remove or qualify the statement.",
		color:   "lightpink",
		severe:  true,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(risk[- ]free|no risk)\b`),
		issue:   "Unbalanced risk statement",
		advice:  "State the principal risks alongside any claim about safety.",
		color:   "lightpink",
		severe:  true,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(always|never)\b`),
		issue:   "Absolute language",
		advice:  "Replace absolute terms with qualified wording.",
		color:   "yellow",
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(best|top|leading)\b`),
		issue:   "Unsubstantiated superlative",
		advice:  "Cite the source and period for any ranking.",
		color:   "yellow",
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(chart|graph|figure)\b`),
		issue:   "Chart labelling",
		advice:  "Confirm every chart labels all axes and names its source.",
		color:   "lightblue",
	},
}

// Review splits text into chunks and comments on each one.
func Review(text string) []ReviewedChunk {
	chunks := SplitChunks(text)
	out := make([]ReviewedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, reviewChunk(chunk))
	}
	return out
}

// Reviewer comments on one chunk with an HTML fragment. llm.Client
// satisfies it.
type Reviewer interface {
	Review(ctx context.Context, chunk string) (string, error)
}

// ReviewWith splits text like Review but asks reviewer for each comment.
// Highlights are left empty; clients derive them from the comment anchors.
func ReviewWith(ctx context.Context, reviewer Reviewer, text string) ([]ReviewedChunk, error) {
	chunks := SplitChunks(text)
	out := make([]ReviewedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		comment, err := reviewer.Review(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("review chunk %d: %w", i+1, err)
		}
		out = append(out, ReviewedChunk{Chunk: chunk, Comment: comment})
	}
	return out, nil
}

// SplitChunks breaks text on blank lines and packs long paragraphs into
// sentence groups of at most maxChunkRunes.
func SplitChunks(text string) []string {
	var chunks []string
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(whitespace.ReplaceAllString(para, " "))
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= maxChunkRunes {
			chunks = append(chunks, para)
			continue
		}
		var current strings.Builder
		for _, sentence := range sentences(para) {
			if current.Len() > 0 && utf8.RuneCountInString(current.String())+1+utf8.RuneCountInString(sentence) > maxChunkRunes {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(sentence)
		}
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
		}
	}
	return chunks
}

func sentences(text string) []string {
	var out []string
	for _, s := range sentencePart.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type finding struct {
	issue   string
	advice  string
	excerpt string
	color   string
}

func reviewChunk(text string) ReviewedChunk {
	parts := sentences(text)
	single := len(parts) < 2
	seen := map[string]bool{}
	var findings []finding

	for _, r := range rules {
		if single && !r.severe {
			continue
		}
		for _, sentence := range parts {
			if seen[r.issue] || !r.pattern.MatchString(sentence) {
				continue
			}
			seen[r.issue] = true
			findings = append(findings, finding{issue: r.issue, advice: r.advice, excerpt: sentence, color: r.color})
		}
	}

	if !single && !disclosureRef.MatchString(text) {
		for _, sentence := range parts {
			if performanceRef.MatchString(sentence) {
				findings = append(findings, finding{
					issue:   "Missing disclosure",
					advice:  fmt.Sprintf("Add the disclosure: %q", pastPerformance),
					excerpt: sentence,
					color:   "khaki",
				})
				break
			}
		}
	}

	if len(findings) > maxCommentsPerRun {
		findings = findings[:maxCommentsPerRun]
	}
	if len(findings) == 0 {
		return ReviewedChunk{Chunk: text, Comment: criteriaMet}
	}

	var comment strings.Builder
	var spans []highlight.Span
	comment.WriteString("<ul>\n")
	for _, f := range findings {
		fmt.Fprintf(&comment, "  <li id=\"%s\"><strong>%s:</strong> %s</li>\n",
			html.EscapeString(f.excerpt), html.EscapeString(f.issue), html.EscapeString(f.advice))
		if idx := strings.Index(text, f.excerpt); idx >= 0 {
			start := utf8.RuneCountInString(text[:idx])
			spans = append(spans, highlight.Span{
				Start: start,
				End:   start + utf8.RuneCountInString(f.excerpt),
				Color: f.color,
			})
		}
	}
	comment.WriteString("</ul>")

	return ReviewedChunk{
		Chunk:      text,
		Comment:    comment.String(),
		Highlights: highlight.Normalize(utf8.RuneCountInString(text), spans),
	}
}
