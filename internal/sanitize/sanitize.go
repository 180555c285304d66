// Package sanitize makes service-generated comment markup safe to display.
package sanitize

import (
	"bytes"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sanitizer strips active content from HTML while keeping formatting tags.
// It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer using an allow-list suited to user generated
// content: paragraphs, emphasis, lists, tables and links survive; scripts,
// styles, event handlers and embedded objects do not. Links are left without
// an added rel="nofollow" and any title text is kept, so benign markup comes
// back as it went in.
func New() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(false)
	policy.AllowAttrs("title").Globally()
	return &Sanitizer{policy: policy}
}

// Sanitize returns markup that is safe to render. Well-formed benign markup
// passes through unchanged. Unbalanced markup is first rebuilt through an
// HTML5 parser so the result is well formed. Sanitize(Sanitize(x)) equals
// Sanitize(x).
func (s *Sanitizer) Sanitize(markup string) string {
	cleaned := s.policy.Sanitize(markup)
	if balanced(cleaned) {
		return cleaned
	}
	return s.policy.Sanitize(reparse(cleaned))
}

// voidElements never carry an end tag.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

func balanced(markup string) bool {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var stack []string
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return tokenizer.Err() == io.EOF && len(stack) == 0
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if voidElements[atom.Lookup(name)] {
				continue
			}
			stack = append(stack, string(name))
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if len(stack) == 0 || stack[len(stack)-1] != string(name) {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func reparse(markup string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return html.EscapeString(markup)
	}
	var buf bytes.Buffer
	for _, node := range nodes {
		if err := html.Render(&buf, node); err != nil {
			return html.EscapeString(markup)
		}
	}
	return buf.String()
}
