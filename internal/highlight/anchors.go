package highlight

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// minAnchorRunes skips ids too short to identify an excerpt.
const minAnchorRunes = 4

// FromAnchors derives spans from a comment whose list items carry the
// offending excerpt in their id attribute, e.g.
//
//	<li id="returns are guaranteed"><strong>Misleading claim:</strong> ...</li>
//
// Each excerpt is matched against text, exactly first and then ignoring case.
// Excerpts that cannot be found are skipped. The result is normalized.
func FromAnchors(text, commentHTML, color string) []Span {
	anchors := anchorExcerpts(commentHTML)
	if len(anchors) == 0 || text == "" {
		return nil
	}
	haystack := []rune(text)
	folded := foldRunes(haystack)
	spans := make([]Span, 0, len(anchors))
	for _, anchor := range anchors {
		needle := []rune(anchor)
		if len(needle) < minAnchorRunes {
			continue
		}
		start := indexRunes(haystack, needle)
		if start < 0 {
			start = indexRunes(folded, foldRunes(needle))
		}
		if start < 0 {
			continue
		}
		spans = append(spans, Span{Start: start, End: start + len(needle), Color: color})
	}
	return Normalize(len(haystack), spans)
}

func anchorExcerpts(commentHTML string) []string {
	doc, err := html.Parse(strings.NewReader(commentHTML))
	if err != nil {
		return nil
	}
	var excerpts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			for _, attr := range n.Attr {
				if attr.Key == "id" {
					if excerpt := strings.TrimSpace(attr.Val); excerpt != "" {
						excerpts = append(excerpts, excerpt)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return excerpts
}

func foldRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, r := range needle {
			if haystack[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
