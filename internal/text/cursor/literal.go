package cursor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LiteralCursor finds occurrences of a fixed query string.
type LiteralCursor struct {
	// haystack is the range snapshot being searched.
	haystack string

	// base is the document offset of haystack[0].
	base int

	// query is the needle.
	query string

	// fold enables case-insensitive matching.
	fold bool

	// pos is the current search position within haystack.
	pos int

	done bool
}

// NewLiteral creates a cursor over the given snapshot. base is the document
// offset the snapshot starts at. An empty query yields an exhausted cursor.
func NewLiteral(snapshot string, base int, query string, fold bool) *LiteralCursor {
	return &LiteralCursor{
		haystack: snapshot,
		base:     base,
		query:    query,
		fold:     fold,
		done:     query == "",
	}
}

// Next returns the next occurrence, or false when exhausted.
func (c *LiteralCursor) Next() (Match, bool) {
	if c.done {
		return Match{}, false
	}

	var from, to int
	var ok bool
	if c.fold {
		from, to, ok = c.foldIndex()
	} else {
		idx := strings.Index(c.haystack[c.pos:], c.query)
		if idx >= 0 {
			from = c.pos + idx
			to = from + len(c.query)
			ok = true
		}
	}

	if !ok {
		c.done = true
		return Match{}, false
	}

	c.pos = to
	return Match{
		From: c.base + from,
		To:   c.base + to,
		Text: c.haystack[from:to],
	}, true
}

// foldIndex finds the next case-insensitive occurrence starting at c.pos.
// Rune-by-rune comparison keeps offsets exact even where simple lowercasing
// would change byte lengths.
func (c *LiteralCursor) foldIndex() (from, to int, ok bool) {
	for i := c.pos; i < len(c.haystack); {
		if end, matched := foldPrefix(c.haystack[i:], c.query); matched {
			return i, i + end, true
		}
		_, size := utf8.DecodeRuneInString(c.haystack[i:])
		if size == 0 {
			size = 1
		}
		i += size
	}
	return 0, 0, false
}

// foldPrefix reports whether s begins with query under case folding, and
// the byte length of the matched prefix.
func foldPrefix(s, query string) (int, bool) {
	si := 0
	for qi := 0; qi < len(query); {
		if si >= len(s) {
			return 0, false
		}
		qr, qsize := utf8.DecodeRuneInString(query[qi:])
		sr, ssize := utf8.DecodeRuneInString(s[si:])
		if unicode.ToLower(qr) != unicode.ToLower(sr) {
			return 0, false
		}
		qi += qsize
		si += ssize
	}
	return si, true
}
