// Package rules holds the static highlighting rule store: named pattern
// rules mapped to classes, with per-rule mark-mode flags and an explicit
// application order.
package rules

import (
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/hilite/internal/diag"
)

// MarkMode is a set of orthogonal flags selecting which region variants a
// match produces. Modes combine freely on one rule; the zero value means
// the default token mark.
type MarkMode uint8

const (
	// ModeMatch emits a token region for the matched span.
	ModeMatch MarkMode = 1 << iota

	// ModeLine adds the rule class to the match's line region.
	ModeLine

	// ModeStart emits a zero-width widget at the match start.
	ModeStart

	// ModeEnd emits a zero-width widget at the match end.
	ModeEnd

	// ModeGroup emits group regions for named capture spans.
	ModeGroup
)

// Has returns true if the flag is set.
func (m MarkMode) Has(flag MarkMode) bool {
	return m&flag != 0
}

// String returns the set flags as a comma-separated list.
func (m MarkMode) String() string {
	if m == 0 {
		return "match"
	}
	var parts []string
	for _, f := range []struct {
		flag MarkMode
		name string
	}{
		{ModeMatch, "match"},
		{ModeLine, "line"},
		{ModeStart, "start"},
		{ModeEnd, "end"},
		{ModeGroup, "group"},
	} {
		if m.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseMarkModes converts mode names to a flag set. Unknown names are
// ignored.
func ParseMarkModes(names []string) MarkMode {
	var m MarkMode
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "match":
			m |= ModeMatch
		case "line":
			m |= ModeLine
		case "start":
			m |= ModeStart
		case "end":
			m |= ModeEnd
		case "group":
			m |= ModeGroup
		}
	}
	return m
}

// Rule is one highlighting rule. Rules are immutable once loaded and are
// identified by class.
type Rule struct {
	// ID is the rule's key in the rule set.
	ID string

	// Pattern is the literal text or regular expression to match.
	Pattern string

	// Regex selects regex matching; otherwise Pattern is a literal.
	Regex bool

	// Class is the style class emitted regions carry.
	Class string

	// Modes selects which region variants a match produces.
	Modes MarkMode

	// Color is an optional normalized hex color for the class.
	Color string
}

// RuleSet is an ordered collection of rules. Order determines scan order,
// not visual stacking.
type RuleSet struct {
	rules map[string]Rule
	order []string
}

// Load builds a rule set from the given rules and application order.
//
// Only presence is checked: rules with an empty pattern or class are
// dropped (reported on the diagnostic channel), and malformed regex is
// deferred to scan time so one bad rule cannot fail the whole set. IDs in
// order that name no rule are skipped; rules absent from order append in
// ID order.
func Load(in map[string]Rule, order []string) *RuleSet {
	rs := &RuleSet{rules: make(map[string]Rule, len(in))}

	accept := func(id string) bool {
		r, ok := in[id]
		if !ok {
			return false
		}
		if _, dup := rs.rules[id]; dup {
			return false
		}
		if r.Pattern == "" || r.Class == "" {
			diag.Debugf(diag.CatConfig, "dropping rule %q: missing pattern or class", id)
			return false
		}
		r.ID = id
		r.Color = normalizeColor(id, r.Color)
		rs.rules[id] = r
		rs.order = append(rs.order, id)
		return true
	}

	for _, id := range order {
		accept(id)
	}

	rest := make([]string, 0, len(in))
	for id := range in {
		if _, ok := rs.rules[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		accept(id)
	}

	return rs
}

// Get returns the rule with the given ID.
func (rs *RuleSet) Get(id string) (Rule, bool) {
	r, ok := rs.rules[id]
	return r, ok
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.order)
}

// Ordered returns the rules in application order.
func (rs *RuleSet) Ordered() []Rule {
	out := make([]Rule, 0, len(rs.order))
	for _, id := range rs.order {
		out = append(out, rs.rules[id])
	}
	return out
}

// Order returns the application order of rule IDs.
func (rs *RuleSet) Order() []string {
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

// normalizeColor parses and canonicalizes an optional rule color to
// lowercase hex. Invalid colors are cleared, not fatal.
func normalizeColor(id, color string) string {
	if color == "" {
		return ""
	}
	c, err := colorful.Hex(color)
	if err != nil {
		diag.Debugf(diag.CatConfig, "rule %q: invalid color %q: %v", id, color, err)
		return ""
	}
	return strings.ToLower(c.Hex())
}
