// Package text provides the document abstraction the highlighting engine
// scans: random-access slicing, line lookup, and word-boundary
// classification over byte offsets.
package text

// Range is a half-open span [From, To) of document byte offsets.
type Range struct {
	From int
	To   int
}

// Len returns the span length.
func (r Range) Len() int {
	return r.To - r.From
}

// IsEmpty returns true if the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.To <= r.From
}

// Contains returns true if pos lies within the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.From && pos < r.To
}

// Covers returns true if o lies entirely within the range.
func (r Range) Covers(o Range) bool {
	return o.From >= r.From && o.To <= r.To
}

// Overlaps returns true if the two ranges share at least one offset.
func (r Range) Overlaps(o Range) bool {
	return r.From < o.To && o.From < r.To
}

// Clamp restricts the range to [0, limit].
func (r Range) Clamp(limit int) Range {
	if r.From < 0 {
		r.From = 0
	}
	if r.To > limit {
		r.To = limit
	}
	if r.From > r.To {
		r.From = r.To
	}
	return r
}

// Line describes a single document line. Start and End are byte offsets;
// End excludes the trailing newline.
type Line struct {
	// Num is the 0-indexed line number.
	Num int

	// Start is the offset of the first character on the line.
	Start int

	// End is the offset just past the last character, excluding the newline.
	End int
}

// Range returns the line's span, excluding the newline.
func (l Line) Range() Range {
	return Range{From: l.Start, To: l.End}
}

// Document is the read surface the engine scans. Implementations must
// tolerate out-of-bounds arguments by clamping rather than panicking.
type Document interface {
	// Len returns the document length in bytes.
	Len() int

	// Slice returns the text in [from, to).
	Slice(from, to int) string

	// LineAt returns the line containing the given offset.
	LineAt(pos int) Line

	// LineCount returns the number of lines. An empty document has one line.
	LineCount() int

	// Line returns the line with the given 0-indexed number.
	Line(num int) Line
}
