// Package highlight splits chunk text into plain and coloured display segments.
package highlight

import (
	"fmt"
	"sort"
)

// Span marks a character range [Start, End) of a chunk's text. Offsets count
// runes, not bytes, because the service computes them over decoded text.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color string `json:"color"`
}

// Segment is one run of display text. Color is empty for untagged text.
type Segment struct {
	Text  string
	Color string
}

// Highlighted reports whether the segment carries a colour.
func (s Segment) Highlighted() bool {
	return s.Color != ""
}

// Render partitions text into segments following spans. Joining the Text of
// every returned segment reproduces text exactly.
//
// Spans are normalized first: offsets are clamped to the text, inverted spans
// are dropped, spans are ordered by start, and a span that overlaps its
// predecessor is trimmed to begin where the predecessor ends.
func Render(text string, spans []Span) []Segment {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	normalized := Normalize(len(runes), spans)
	segments := make([]Segment, 0, 2*len(normalized)+1)
	last := 0
	for _, span := range normalized {
		if span.Start > last {
			segments = append(segments, Segment{Text: string(runes[last:span.Start])})
		}
		segments = append(segments, Segment{Text: string(runes[span.Start:span.End]), Color: span.Color})
		last = span.End
	}
	if last < len(runes) {
		segments = append(segments, Segment{Text: string(runes[last:])})
	}
	return segments
}

// Normalize returns the spans Render would apply to a text of length runes.
// Empty spans are removed since they contribute no characters.
func Normalize(length int, spans []Span) []Span {
	if len(spans) == 0 || length <= 0 {
		return nil
	}
	result := make([]Span, 0, len(spans))
	for _, span := range spans {
		span.Start = clamp(span.Start, 0, length)
		span.End = clamp(span.End, 0, length)
		if span.End <= span.Start {
			continue
		}
		result = append(result, span)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start < result[j].Start
	})
	trimmed := result[:0]
	last := 0
	for _, span := range result {
		if span.Start < last {
			span.Start = last
		}
		if span.End <= span.Start {
			continue
		}
		trimmed = append(trimmed, span)
		last = span.End
	}
	return trimmed
}

// Validate reports the first span that Render would have to repair. A nil
// result means the spans are in range, ordered, and disjoint.
func Validate(text string, spans []Span) error {
	length := len([]rune(text))
	prevEnd := 0
	for i, span := range spans {
		switch {
		case span.Start < 0 || span.End > length:
			return fmt.Errorf("highlight %d: range [%d,%d) outside text of length %d", i, span.Start, span.End, length)
		case span.End < span.Start:
			return fmt.Errorf("highlight %d: end %d before start %d", i, span.End, span.Start)
		case span.Start < prevEnd:
			return fmt.Errorf("highlight %d: starts at %d, overlapping or before previous end %d", i, span.Start, prevEnd)
		}
		prevEnd = span.End
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
