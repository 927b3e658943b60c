// Package region defines the highlight region variants the engine emits
// and the aggregator that orders them for publication.
package region

import (
	"sort"
	"strings"
)

// Variant identifies a region kind. The numeric order is the fixed visual
// stacking order: line regions render beneath group regions, which render
// beneath token regions, which render beneath widgets.
type Variant uint8

const (
	// VariantLine styles an entire line.
	VariantLine Variant = iota

	// VariantGroup styles a named capture span.
	VariantGroup

	// VariantToken styles a matched span.
	VariantToken

	// VariantWidget is a zero-width boundary glyph.
	VariantWidget
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantLine:
		return "line"
	case VariantGroup:
		return "group"
	case VariantToken:
		return "token"
	case VariantWidget:
		return "widget"
	default:
		return "unknown"
	}
}

// Decoration is a renderable template shared across regions with the same
// variant, class, and attributes. Instances are owned by the decoration
// cache and reused between scan passes.
type Decoration struct {
	Variant Variant
	Class   string
	Attrs   map[string]string
}

// LineRegion styles the whole line beginning at Line (a line-start offset).
// Classes accumulate in rule-encounter order.
type LineRegion struct {
	Line    int
	Classes []string
	Deco    *Decoration
}

// ClassAttr returns the space-joined class list.
func (l LineRegion) ClassAttr() string {
	return strings.Join(l.Classes, " ")
}

// TokenRegion styles the half-open span [From, To).
type TokenRegion struct {
	From  int
	To    int
	Class string
	Attrs map[string]string
	Deco  *Decoration
}

// GroupRegion styles a named capture span; the capture name is the class.
type GroupRegion struct {
	From  int
	To    int
	Class string
	Deco  *Decoration
}

// WidgetRegion is a zero-width marker at a point position.
type WidgetRegion struct {
	At    int
	Class string
	Deco  *Decoration
}

// Sets is the published output of one scan pass: four region sets, each
// sorted ascending by start offset.
type Sets struct {
	Line   []LineRegion
	Group  []GroupRegion
	Token  []TokenRegion
	Widget []WidgetRegion
}

// Total returns the number of regions across all sets.
func (s Sets) Total() int {
	return len(s.Line) + len(s.Group) + len(s.Token) + len(s.Widget)
}

// Aggregator accumulates regions during a scan pass and produces sorted
// sets. One line region is kept per line; classes append in encounter
// order.
type Aggregator struct {
	lines   map[int]int // line-start offset -> index into lineOrder
	lineSet []LineRegion
	groups  []GroupRegion
	tokens  []TokenRegion
	widgets []WidgetRegion
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{lines: make(map[int]int)}
}

// AddLineClass appends a class to the line region for the given line start.
func (a *Aggregator) AddLineClass(lineStart int, class string) {
	if i, ok := a.lines[lineStart]; ok {
		a.lineSet[i].Classes = append(a.lineSet[i].Classes, class)
		return
	}
	a.lines[lineStart] = len(a.lineSet)
	a.lineSet = append(a.lineSet, LineRegion{Line: lineStart, Classes: []string{class}})
}

// AddToken appends a token region.
func (a *Aggregator) AddToken(r TokenRegion) {
	a.tokens = append(a.tokens, r)
}

// AddGroup appends a group region.
func (a *Aggregator) AddGroup(r GroupRegion) {
	a.groups = append(a.groups, r)
}

// AddWidget appends a widget region.
func (a *Aggregator) AddWidget(r WidgetRegion) {
	a.widgets = append(a.widgets, r)
}

// Lines returns the accumulated line regions in line order. The aggregator
// retains ownership; callers must not mutate the result.
func (a *Aggregator) Lines() []LineRegion {
	return a.lineSet
}

// SetLineDeco attaches a decoration to the line region at the given index.
func (a *Aggregator) SetLineDeco(i int, deco *Decoration) {
	if i >= 0 && i < len(a.lineSet) {
		a.lineSet[i].Deco = deco
	}
}

// Result sorts each set ascending by start offset and returns them.
func (a *Aggregator) Result() Sets {
	sort.SliceStable(a.lineSet, func(i, j int) bool {
		return a.lineSet[i].Line < a.lineSet[j].Line
	})
	sort.SliceStable(a.groups, func(i, j int) bool {
		return a.groups[i].From < a.groups[j].From
	})
	sort.SliceStable(a.tokens, func(i, j int) bool {
		return a.tokens[i].From < a.tokens[j].From
	})
	sort.SliceStable(a.widgets, func(i, j int) bool {
		return a.widgets[i].At < a.widgets[j].At
	})

	return Sets{
		Line:   a.lineSet,
		Group:  a.groups,
		Token:  a.tokens,
		Widget: a.widgets,
	}
}
