package text

import (
	"sort"
	"strings"
	"sync"
)

// Buffer is a string-backed Document with a line index.
//
// It is intended for hosts that hand the engine full snapshots (and for
// tests); editors with their own buffer implementation satisfy Document
// directly.
type Buffer struct {
	mu sync.RWMutex

	// content is the full document text.
	content string

	// lineStarts holds the offset of the first character of each line.
	// lineStarts[0] is always 0.
	lineStarts []int
}

// NewBuffer creates a buffer holding the given text.
func NewBuffer(content string) *Buffer {
	b := &Buffer{}
	b.setContent(content)
	return b
}

// SetText replaces the entire buffer content.
func (b *Buffer) SetText(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setContent(content)
}

// Replace replaces the text in [from, to) with the given string.
func (b *Buffer) Replace(from, to int, s string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := Range{From: from, To: to}.Clamp(len(b.content))
	b.setContent(b.content[:r.From] + s + b.content[r.To:])
}

// setContent stores the text and rebuilds the line index.
func (b *Buffer) setContent(content string) {
	b.content = content

	starts := make([]int, 1, strings.Count(content, "\n")+1)
	starts[0] = 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	b.lineStarts = starts
}

// Len returns the document length in bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content)
}

// Slice returns the text in [from, to), clamped to the document bounds.
func (b *Buffer) Slice(from, to int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r := Range{From: from, To: to}.Clamp(len(b.content))
	return b.content[r.From:r.To]
}

// String returns the full document text.
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// LineAt returns the line containing the given offset. Offsets past the
// end resolve to the last line.
func (b *Buffer) LineAt(pos int) Line {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if pos < 0 {
		pos = 0
	}
	if pos > len(b.content) {
		pos = len(b.content)
	}

	// First line start strictly after pos, minus one.
	num := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > pos
	}) - 1

	return b.lineLocked(num)
}

// Line returns the line with the given 0-indexed number, clamped to the
// valid line range.
func (b *Buffer) Line(num int) Line {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if num < 0 {
		num = 0
	}
	if num >= len(b.lineStarts) {
		num = len(b.lineStarts) - 1
	}
	return b.lineLocked(num)
}

func (b *Buffer) lineLocked(num int) Line {
	start := b.lineStarts[num]
	end := len(b.content)
	if num+1 < len(b.lineStarts) {
		end = b.lineStarts[num+1] - 1 // exclude the newline
	}
	return Line{Num: num, Start: start, End: end}
}
