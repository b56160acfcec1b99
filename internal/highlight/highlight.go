package highlight

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/scamscan/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
)

// Markup used by HTML output.
const (
	openTag  = `<span class="highlight">`
	closeTag = `</span>`
)

// Segment is a contiguous piece of the original message.
type Segment struct {
	// Text is the raw (unescaped) text of the segment.
	Text string

	// Highlight is the flagged term this segment matched, or nil for plain text.
	Highlight *model.Highlight
}

// IsHighlighted reports whether the segment is a flagged term.
func (s Segment) IsHighlighted() bool {
	return s.Highlight != nil
}

// Annotation is an annotated message.
type Annotation struct {
	// Segments cover the whole message in order; concatenating their
	// Text reproduces the message exactly.
	Segments []Segment
}

// term is a deduplicated highlight with its precomputed rune length.
type term struct {
	highlight model.Highlight
	runes     int
}

// Terms returns the highlights deduplicated case-insensitively and sorted
// by descending character length. Ties keep classifier order. Blank terms
// are dropped.
func Terms(highlights []model.Highlight) []model.Highlight {
	terms := prepare(highlights)
	out := make([]model.Highlight, len(terms))
	for i, t := range terms {
		out[i] = t.highlight
	}
	return out
}

// prepare dedups and orders the flagged terms.
//
// Terms are bucketed by their full case fold, but two terms are duplicates
// only when strings.EqualFold, the rule Annotate matches with, says so:
// "straße" and "strasse" share a bucket and are both kept.
func prepare(highlights []model.Highlight) []term {
	folder := cases.Fold()
	buckets := make(map[string][]string, len(highlights))
	terms := make([]term, 0, len(highlights))

	for _, h := range highlights {
		if strings.TrimSpace(h.Term) == "" {
			continue
		}
		key := folder.String(h.Term)
		if slices.ContainsFunc(buckets[key], func(kept string) bool {
			return strings.EqualFold(kept, h.Term)
		}) {
			continue
		}
		buckets[key] = append(buckets[key], h.Term)
		terms = append(terms, term{highlight: h, runes: utf8.RuneCountInString(h.Term)})
	}

	slices.SortStableFunc(terms, func(a, b term) int {
		return b.runes - a.runes
	})
	return terms
}

// Annotate splits message into plain and flagged segments.
// Matching is case-insensitive and the matched text keeps its original case.
func Annotate(message string, highlights []model.Highlight) Annotation {
	if message == "" {
		return Annotation{}
	}

	terms := prepare(highlights)
	if len(terms) == 0 {
		return Annotation{Segments: []Segment{{Text: message}}}
	}

	// offsets[i] is the byte offset of rune i; offsets[n] == len(message).
	offsets := make([]int, 0, len(message)+1)
	for i := range message {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(message))
	runeCount := len(offsets) - 1

	var segments []Segment
	plainStart := 0

	for i := 0; i < runeCount; {
		matched := -1
		for ti, t := range terms {
			if i+t.runes > runeCount {
				continue
			}
			window := message[offsets[i]:offsets[i+t.runes]]
			if strings.EqualFold(window, t.highlight.Term) {
				matched = ti
				break
			}
		}

		if matched < 0 {
			i++
			continue
		}

		t := terms[matched]
		start, end := offsets[i], offsets[i+t.runes]
		if start > plainStart {
			segments = append(segments, Segment{Text: message[plainStart:start]})
		}
		h := t.highlight
		segments = append(segments, Segment{Text: message[start:end], Highlight: &h})
		plainStart = end
		i += t.runes
	}

	if plainStart < len(message) {
		segments = append(segments, Segment{Text: message[plainStart:]})
	}

	return Annotation{Segments: segments}
}

// HTML renders the annotation as escaped markup. Flagged terms are wrapped
// in <span class="highlight">; message text is always escaped.
func (a Annotation) HTML() string {
	return a.render(html.EscapeString, openTag, closeTag)
}

// Marked renders the annotation as plain text with flagged terms
// surrounded by before and after.
func (a Annotation) Marked(before, after string) string {
	return a.render(nil, before, after)
}

// Terminal renders the annotation for a terminal, styling flagged terms.
func (a Annotation) Terminal(style lipgloss.Style) string {
	var sb strings.Builder
	for _, s := range a.Segments {
		if s.IsHighlighted() {
			sb.WriteString(style.Render(s.Text))
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Text returns the original message.
func (a Annotation) Text() string {
	return a.render(nil, "", "")
}

// Matches returns the flagged segments in message order.
func (a Annotation) Matches() []Segment {
	var out []Segment
	for _, s := range a.Segments {
		if s.IsHighlighted() {
			out = append(out, s)
		}
	}
	return out
}

// render concatenates segments, escaping each one with escape when set.
func (a Annotation) render(escape func(string) string, before, after string) string {
	var sb strings.Builder
	for _, s := range a.Segments {
		text := s.Text
		if escape != nil {
			text = escape(text)
		}
		if s.IsHighlighted() {
			sb.WriteString(before)
			sb.WriteString(text)
			sb.WriteString(after)
			continue
		}
		sb.WriteString(text)
	}
	return sb.String()
}
