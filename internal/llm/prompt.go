package llm

import (
	"errors"
	"regexp"
	"strings"
)

var errEmptyChunk = errors.New("llm: chunk is empty")

const criteriaMet = "All criteria met."

const systemPrompt = `You review excerpts of marketing documents for a fund manager against a compliance guide.

Check each excerpt for:
- clear, unambiguous language;
- charts and graphs that label every axis and name their source;
- claims about returns or risk that lack balance or the required disclosures.

If the excerpt passes every check, reply with exactly "` + criteriaMet + `".

Otherwise reply with an HTML bulleted list of at most 7 items. Each item is
<li id="EXCERPT"><strong>Issue:</strong> advice</li>
where EXCERPT is copied verbatim from the excerpt so the reviewer can highlight it,
with any double quotes written as &quot;.

Ignore the word "Internal" and unclear source citations. Keep comments to a minimum for
excerpts of one sentence. When the excerpt already carries disclosures, only suggest
missing ones. Do not repeat feedback. Reply with the HTML only, without code fences.`

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	fenceRe      = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func buildReviewPrompt(chunk string) string {
	var b strings.Builder
	b.WriteString("Review this excerpt:\n\n")
	b.WriteString(whitespaceRe.ReplaceAllString(chunk, " "))
	return b.String()
}

// cleanCommentHTML strips code fences and wraps a bare pass verdict in a
// paragraph so every comment is an HTML fragment.
func cleanCommentHTML(raw string) string {
	out := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(out); m != nil {
		out = strings.TrimSpace(m[1])
	}
	if strings.EqualFold(strings.TrimSuffix(out, "."), strings.TrimSuffix(criteriaMet, ".")) {
		return "<p>" + criteriaMet + "</p>"
	}
	return out
}
