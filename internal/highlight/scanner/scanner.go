// Package scanner implements the static highlighting pass: for each
// visible range and each rule, find matches, filter excluded regions, and
// emit typed highlight regions.
package scanner

import (
	"sort"
	"strings"

	"github.com/dshills/hilite/internal/diag"
	"github.com/dshills/hilite/internal/highlight/cache"
	"github.com/dshills/hilite/internal/highlight/region"
	"github.com/dshills/hilite/internal/highlight/rules"
	"github.com/dshills/hilite/internal/syntax"
	"github.com/dshills/hilite/internal/text"
	"github.com/dshills/hilite/internal/text/cursor"
)

// Scanner runs static highlighting passes. It owns the decoration cache,
// which persists and is reused across passes.
type Scanner struct {
	cache *cache.Cache
}

// New creates a scanner with a default-bounded decoration cache.
func New() *Scanner {
	return &Scanner{cache: cache.New()}
}

// CacheStats exposes decoration cache counters.
func (s *Scanner) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// Scan finds all rule matches within the visible ranges and returns four
// region sets, each sorted ascending by start offset.
//
// The scan never fails: a malformed pattern skips that rule for that
// range, a match on an excluded line emits nothing, and the result is
// always four (possibly empty) sets. Regions are not deduplicated across
// overlapping visible ranges; each pass is a full replace.
func (s *Scanner) Scan(doc text.Document, visible []text.Range, rs *rules.RuleSet, excluded syntax.Classifier) region.Sets {
	agg := region.NewAggregator()
	if doc == nil || rs == nil {
		return agg.Result()
	}
	if excluded == nil {
		excluded = syntax.None
	}

	ordered := rs.Ordered()
	for _, vr := range visible {
		vr = vr.Clamp(doc.Len())
		if vr.IsEmpty() {
			continue
		}
		snapshot := doc.Slice(vr.From, vr.To)

		for _, rule := range ordered {
			s.scanRule(doc, snapshot, vr, rule, excluded, agg)
		}
	}

	s.attachLineDecos(agg)
	sets := agg.Result()
	s.cache.Evict()
	return sets
}

// scanRule runs one rule over one visible range.
func (s *Scanner) scanRule(doc text.Document, snapshot string, vr text.Range, rule rules.Rule, excluded syntax.Classifier, agg *region.Aggregator) {
	var cur cursor.Cursor
	if rule.Regex {
		rc, err := cursor.NewRegex(snapshot, vr.From, rule.Pattern)
		if err != nil {
			diag.Debugf(diag.CatScanner, "rule %q: bad pattern: %v", rule.ID, err)
			return
		}
		cur = rc
	} else {
		cur = cursor.NewLiteral(snapshot, vr.From, rule.Pattern, false)
	}

	for {
		m, ok := cur.Next()
		if !ok {
			return
		}

		line := doc.LineAt(m.From)
		probe := line.Start + 1
		if probe > doc.Len() {
			probe = doc.Len()
		}
		if excluded.Excluded(probe) {
			continue
		}

		s.emit(rule, m, line, agg)
	}
}

// emit dispatches one match through the rule's mark modes. All modes apply
// independently; a rule with no modes set emits the default token mark.
func (s *Scanner) emit(rule rules.Rule, m cursor.Match, line text.Line, agg *region.Aggregator) {
	modes := rule.Modes
	if modes == 0 {
		modes = rules.ModeMatch
	}

	if modes.Has(rules.ModeLine) {
		agg.AddLineClass(line.Start, rule.Class)
	}

	if modes.Has(rules.ModeMatch) {
		attrs := map[string]string{"data-contents": strings.TrimSpace(m.Text)}
		agg.AddToken(region.TokenRegion{
			From:  m.From,
			To:    m.To,
			Class: rule.Class,
			Attrs: attrs,
			Deco:  s.cache.Get(region.VariantToken, rule.Class, attrs),
		})
	}

	if modes.Has(rules.ModeStart) {
		class := rule.Class + "-start"
		agg.AddWidget(region.WidgetRegion{
			At:    m.From,
			Class: class,
			Deco:  s.cache.Get(region.VariantWidget, class, nil),
		})
	}

	if modes.Has(rules.ModeEnd) {
		class := rule.Class + "-end"
		agg.AddWidget(region.WidgetRegion{
			At:    m.To,
			Class: class,
			Deco:  s.cache.Get(region.VariantWidget, class, nil),
		})
	}

	if modes.Has(rules.ModeGroup) && len(m.Groups) > 0 {
		for _, name := range sortedGroupNames(m.Groups) {
			span := m.Groups[name]
			agg.AddGroup(region.GroupRegion{
				From:  span.From,
				To:    span.To,
				Class: name,
				Deco:  s.cache.Get(region.VariantGroup, name, nil),
			})
		}
	}
}

// attachLineDecos resolves decoration templates for accumulated line
// regions once their class lists are final.
func (s *Scanner) attachLineDecos(agg *region.Aggregator) {
	for i, lr := range agg.Lines() {
		agg.SetLineDeco(i, s.cache.Get(region.VariantLine, lr.ClassAttr(), nil))
	}
}

// sortedGroupNames orders group names for deterministic emission.
func sortedGroupNames(groups map[string]text.Range) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
