package cursor

import (
	"regexp"

	"github.com/dshills/hilite/internal/text"
)

// RegexCursor finds occurrences of a compiled regular expression.
type RegexCursor struct {
	re       *regexp.Regexp
	haystack string
	base     int
	pos      int
	done     bool
}

// NewRegex compiles the pattern and creates a cursor over the snapshot.
// base is the document offset the snapshot starts at. Compilation failure
// is returned to the caller; the scan contract is to skip the rule.
func NewRegex(snapshot string, base int, pattern string) (*RegexCursor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexCursor{
		re:       re,
		haystack: snapshot,
		base:     base,
	}, nil
}

// Next returns the next occurrence, or false when exhausted.
func (c *RegexCursor) Next() (Match, bool) {
	for !c.done {
		if c.pos > len(c.haystack) {
			break
		}

		loc := c.re.FindStringSubmatchIndex(c.haystack[c.pos:])
		if loc == nil {
			break
		}

		from := c.pos + loc[0]
		to := c.pos + loc[1]

		// Empty matches advance one byte so the cursor stays finite.
		if to == from {
			c.pos = from + 1
			continue
		}
		c.pos = to

		return Match{
			From:   c.base + from,
			To:     c.base + to,
			Text:   c.haystack[from:to],
			Groups: c.groups(loc, from-loc[0]),
		}, true
	}

	c.done = true
	return Match{}, false
}

// groups extracts named capture spans as absolute document offsets.
// Unnamed groups and groups that did not participate are skipped.
func (c *RegexCursor) groups(loc []int, offset int) map[string]text.Range {
	names := c.re.SubexpNames()
	var out map[string]text.Range
	for i, name := range names {
		if i == 0 || name == "" {
			continue
		}
		if 2*i+1 >= len(loc) || loc[2*i] < 0 || loc[2*i+1] < 0 {
			continue
		}
		if out == nil {
			out = make(map[string]text.Range)
		}
		out[name] = text.Range{
			From: c.base + offset + loc[2*i],
			To:   c.base + offset + loc[2*i+1],
		}
	}
	return out
}
