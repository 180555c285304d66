package sanitize

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// Markdown converts sanitized comment markup into Markdown for terminal
// renderers. The converter is not safe for concurrent use.
type Markdown struct {
	converter *md.Converter
}

// NewMarkdown returns a converter with GitHub flavoured extensions enabled so
// tables and strikethrough survive.
func NewMarkdown() *Markdown {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Markdown{converter: converter}
}

// Convert turns safe HTML into Markdown. Callers must sanitize first.
func (m *Markdown) Convert(safeHTML string) (string, error) {
	out, err := m.converter.ConvertString(safeHTML)
	if err != nil {
		return "", err
	}
	out = excessiveLinesRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}

// PlainText extracts the visible text of markup, one line per block element.
func PlainText(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "li":
				b.WriteString("\n- ")
			case "p", "div", "br", "ul", "ol", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	text := excessiveLinesRe.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(text)
}
