// Package syntax answers region-exclusion queries for the highlighting
// engine: whether a document position sits inside a span where highlighting
// is suppressed.
package syntax

// Classifier reports whether highlighting is suppressed at a position.
type Classifier interface {
	// Excluded returns true if the position lies in an excluded region.
	Excluded(pos int) bool
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(pos int) bool

// Excluded implements Classifier.
func (f ClassifierFunc) Excluded(pos int) bool {
	return f(pos)
}

// None is a classifier that never excludes anything.
var None Classifier = ClassifierFunc(func(int) bool { return false })
