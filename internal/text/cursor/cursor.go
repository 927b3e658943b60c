// Package cursor provides lazy match cursors over a bounded document range.
//
// A cursor is a finite, forward-only sequence of match spans. It is bound
// to one range at construction and is not restartable once exhausted;
// callers create a fresh cursor per range and rule.
package cursor

import "github.com/dshills/hilite/internal/text"

// Match is a single occurrence found by a cursor. Offsets are absolute
// document byte offsets.
type Match struct {
	From int
	To   int

	// Text is the matched document text.
	Text string

	// Groups holds named capture spans for regex matches. Nil for literal
	// matches and for regex patterns without named groups. Groups that did
	// not participate in the match are absent.
	Groups map[string]text.Range
}

// Range returns the match span.
func (m Match) Range() text.Range {
	return text.Range{From: m.From, To: m.To}
}

// Cursor yields matches in ascending offset order.
type Cursor interface {
	// Next returns the next match, or false when the sequence is exhausted.
	Next() (Match, bool)
}
