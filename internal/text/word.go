package text

import (
	"unicode"
	"unicode/utf8"
)

// CharCategory classifies a character for word-boundary purposes.
type CharCategory uint8

const (
	// CategorySpace is whitespace.
	CategorySpace CharCategory = iota

	// CategoryWord is a letter, digit, or underscore.
	CategoryWord

	// CategoryPunct is everything else.
	CategoryPunct
)

// String returns the category name.
func (c CharCategory) String() string {
	switch c {
	case CategorySpace:
		return "space"
	case CategoryWord:
		return "word"
	case CategoryPunct:
		return "punct"
	default:
		return "unknown"
	}
}

// CategoryOf classifies a single rune.
func CategoryOf(r rune) CharCategory {
	switch {
	case unicode.IsSpace(r):
		return CategorySpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return CategoryWord
	default:
		return CategoryPunct
	}
}

// CategoryAt classifies the rune starting at the given offset. Offsets at
// or past the document end classify as space, so end-of-document behaves
// as a word boundary.
func CategoryAt(doc Document, pos int) CharCategory {
	if pos < 0 || pos >= doc.Len() {
		return CategorySpace
	}
	r, _ := utf8.DecodeRuneInString(doc.Slice(pos, pos+utf8.UTFMax))
	return CategoryOf(r)
}

// CategoryBefore classifies the rune ending at the given offset. A
// backward decode keeps multibyte characters intact; a forward decode at
// pos-1 would land mid-rune. Offsets at or before the document start
// classify as space.
func CategoryBefore(doc Document, pos int) CharCategory {
	if pos <= 0 || pos > doc.Len() {
		return CategorySpace
	}
	start := pos - utf8.UTFMax
	if start < 0 {
		start = 0
	}
	r, _ := utf8.DecodeLastRuneInString(doc.Slice(start, pos))
	return CategoryOf(r)
}

// WordAt returns the span of the word containing or immediately preceding
// the given position. Returns false when no word character touches the
// position.
func WordAt(doc Document, pos int) (Range, bool) {
	if pos < 0 {
		pos = 0
	}
	if pos > doc.Len() {
		pos = doc.Len()
	}

	line := doc.LineAt(pos)
	lineText := doc.Slice(line.Start, line.End)
	rel := pos - line.Start

	// A caret sits between characters; it belongs to a word when either
	// neighbor is a word character.
	start, end := rel, rel
	if !touchesWord(lineText, rel) {
		return Range{}, false
	}

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(lineText[:start])
		if CategoryOf(r) != CategoryWord {
			break
		}
		start -= size
	}
	for end < len(lineText) {
		r, size := utf8.DecodeRuneInString(lineText[end:])
		if CategoryOf(r) != CategoryWord {
			break
		}
		end += size
	}

	if start == end {
		return Range{}, false
	}
	return Range{From: line.Start + start, To: line.Start + end}, true
}

// touchesWord reports whether the caret at rel neighbors a word character.
func touchesWord(s string, rel int) bool {
	if rel < len(s) {
		r, _ := utf8.DecodeRuneInString(s[rel:])
		if CategoryOf(r) == CategoryWord {
			return true
		}
	}
	if rel > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:rel])
		if CategoryOf(r) == CategoryWord {
			return true
		}
	}
	return false
}
