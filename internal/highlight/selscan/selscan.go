// Package selscan implements selection highlighting: marking other
// occurrences of the selected text, or of the word around the caret, within
// the visible ranges.
package selscan

import (
	"sort"
	"strings"

	"github.com/dshills/hilite/internal/highlight/region"
	"github.com/dshills/hilite/internal/text"
	"github.com/dshills/hilite/internal/text/cursor"
)

const (
	// maxSelectionLength is the longest selection worth highlighting.
	maxSelectionLength = 200

	// CurrentWordClass marks the occurrence containing the caret word.
	CurrentWordClass = "cm-current-word"

	// MatchedWordClass marks other whole-word occurrences.
	MatchedWordClass = "cm-matched-word"

	// CurrentStringClass marks the occurrence containing the selection.
	CurrentStringClass = "cm-current-string"

	// MatchedStringClass marks other occurrences of the selected text.
	MatchedStringClass = "cm-matched-string"
)

// Kind distinguishes caret-word queries from selected-text queries.
type Kind uint8

const (
	// KindWord queries the word around an empty caret.
	KindWord Kind = iota

	// KindString queries the selected text.
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindString {
		return "string"
	}
	return "word"
}

// Config controls selection highlighting behavior.
type Config struct {
	// WordAroundCursor enables highlighting the word at an empty caret.
	WordAroundCursor bool

	// SelectedText enables highlighting occurrences of selected text.
	SelectedText bool

	// MinLength is the minimum query length worth highlighting.
	MinLength int

	// MaxMatches aborts the scan (emitting nothing) past this many
	// occurrences.
	MaxMatches int

	// IgnoredWords suppresses caret-word highlighting for these words
	// (case-folded).
	IgnoredWords map[string]struct{}

	// Delay is the baseline recompute delay in milliseconds.
	Delay int
}

// DefaultConfig returns the documented option defaults.
func DefaultConfig() Config {
	return Config{
		WordAroundCursor: true,
		SelectedText:     true,
		MinLength:        3,
		MaxMatches:       100,
		Delay:            0,
	}
}

// ParseIgnoredWords converts the comma-separated option form into the
// case-folded lookup set.
func ParseIgnoredWords(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Split(s, ",") {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}

// SelRange is one selection range. Head is the caret side.
type SelRange struct {
	From int
	To   int
	Head int
}

// Empty returns true for a pure caret.
func (r SelRange) Empty() bool {
	return r.From == r.To
}

// Selection is the host editor's current selection state.
type Selection struct {
	Ranges []SelRange
}

// query is the derived per-scan selection query.
type query struct {
	text string
	kind Kind
	span text.Range
}

// Scan derives a query from the selection and returns token regions for
// its occurrences in the visible ranges, or nil when nothing should be
// highlighted.
func Scan(doc text.Document, visible []text.Range, sel Selection, cfg Config) []region.TokenRegion {
	if doc == nil || len(sel.Ranges) != 1 {
		return nil
	}

	q, ok := deriveQuery(doc, sel.Ranges[0], cfg)
	if !ok {
		return nil
	}

	currentClass := CurrentWordClass
	matchedClass := MatchedWordClass
	if q.kind == KindString {
		currentClass = CurrentStringClass
		matchedClass = MatchedStringClass
	}

	var out []region.TokenRegion
	count := 0
	for _, vr := range visible {
		vr = vr.Clamp(doc.Len())
		if vr.IsEmpty() {
			continue
		}

		cur := cursor.NewLiteral(doc.Slice(vr.From, vr.To), vr.From, q.text, true)
		for {
			m, mok := cur.Next()
			if !mok {
				break
			}
			if q.kind == KindWord && !wholeWord(doc, m) {
				continue
			}

			count++
			if count > cfg.MaxMatches {
				return nil
			}

			occ := m.Range()
			switch {
			case occ.Covers(q.span):
				out = append(out, region.TokenRegion{From: occ.From, To: occ.To, Class: currentClass})
			case !occ.Overlaps(q.span):
				out = append(out, region.TokenRegion{From: occ.From, To: occ.To, Class: matchedClass})
			default:
				// Partial overlap with the selection span: emitted as neither.
			}
		}
	}

	// Isolated, non-recurring highlights are not useful.
	minRegions := 1
	if q.kind == KindWord {
		minRegions = 2
	}
	if len(out) < minRegions {
		return nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].From < out[j].From
	})
	return out
}

// deriveQuery computes the query string and span from the selection state.
func deriveQuery(doc text.Document, main SelRange, cfg Config) (query, bool) {
	if main.Empty() {
		if !cfg.WordAroundCursor {
			return query{}, false
		}
		span, ok := text.WordAt(doc, main.Head)
		if !ok {
			return query{}, false
		}
		word := doc.Slice(span.From, span.To)
		if _, ignored := cfg.IgnoredWords[strings.ToLower(word)]; ignored {
			return query{}, false
		}
		if len(word) < cfg.MinLength {
			return query{}, false
		}
		return query{text: word, kind: KindWord, span: span}, true
	}

	if !cfg.SelectedText {
		return query{}, false
	}
	length := main.To - main.From
	if length < cfg.MinLength || length > maxSelectionLength {
		return query{}, false
	}
	trimmed := strings.TrimSpace(doc.Slice(main.From, main.To))
	if trimmed == "" {
		return query{}, false
	}
	return query{
		text: trimmed,
		kind: KindString,
		span: text.Range{From: main.From, To: main.To},
	}, true
}

// wholeWord reports whether the match sits on word boundaries on both
// sides.
func wholeWord(doc text.Document, m cursor.Match) bool {
	if text.CategoryBefore(doc, m.From) == text.CategoryWord {
		return false
	}
	return text.CategoryAt(doc, m.To) != text.CategoryWord
}
