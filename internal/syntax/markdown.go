package syntax

import (
	"sort"
	"strings"

	"github.com/dshills/hilite/internal/text"
)

// MarkdownClassifier excludes fenced code blocks and YAML frontmatter.
//
// Regions are computed once from a document snapshot; rebuild the
// classifier after edits.
type MarkdownClassifier struct {
	excluded []text.Range
}

// NewMarkdown scans the document and records its excluded regions.
func NewMarkdown(doc text.Document) *MarkdownClassifier {
	c := &MarkdownClassifier{}
	c.scan(doc)
	return c
}

// Excluded returns true if the position lies in a fenced code block or
// frontmatter block.
func (c *MarkdownClassifier) Excluded(pos int) bool {
	i := sort.Search(len(c.excluded), func(i int) bool {
		return c.excluded[i].To > pos
	})
	return i < len(c.excluded) && c.excluded[i].Contains(pos)
}

// Regions returns the excluded spans in ascending order.
func (c *MarkdownClassifier) Regions() []text.Range {
	out := make([]text.Range, len(c.excluded))
	copy(out, c.excluded)
	return out
}

func (c *MarkdownClassifier) scan(doc text.Document) {
	count := doc.LineCount()
	if count == 0 {
		return
	}

	num := 0

	// Frontmatter must open on the very first line.
	first := doc.Line(0)
	if strings.TrimRight(doc.Slice(first.Start, first.End), " \t") == "---" {
		for n := 1; n < count; n++ {
			line := doc.Line(n)
			body := strings.TrimRight(doc.Slice(line.Start, line.End), " \t")
			if body == "---" || body == "..." {
				c.excluded = append(c.excluded, text.Range{From: first.Start, To: line.End})
				num = n + 1
				break
			}
		}
	}

	var fenceOpen bool
	var fenceMarker string
	var fenceStart int

	for ; num < count; num++ {
		line := doc.Line(num)
		body := doc.Slice(line.Start, line.End)
		trimmed := strings.TrimLeft(body, " ")

		// Fences may be indented by up to three spaces.
		if len(body)-len(trimmed) > 3 {
			continue
		}

		marker := fenceMarkerOf(trimmed)
		if marker == "" {
			continue
		}

		if !fenceOpen {
			fenceOpen = true
			fenceMarker = marker
			fenceStart = line.Start
			continue
		}

		// Closing fence must use the same character and carry no info string.
		if marker[0] == fenceMarker[0] && strings.TrimRight(trimmed, " \t") == marker {
			c.excluded = append(c.excluded, text.Range{From: fenceStart, To: line.End})
			fenceOpen = false
		}
	}

	// An unclosed fence excludes through end of document.
	if fenceOpen {
		c.excluded = append(c.excluded, text.Range{From: fenceStart, To: doc.Len()})
	}
}

// fenceMarkerOf returns the leading fence run ("```" or "~~~" or longer),
// or empty when the line does not open a fence.
func fenceMarkerOf(s string) string {
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(s) && s[n] == ch {
			n++
		}
		if n >= 3 {
			return s[:n]
		}
	}
	return ""
}
