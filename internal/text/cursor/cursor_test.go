package cursor

import (
	"testing"
)

func collect(c Cursor) []Match {
	var out []Match
	for {
		m, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func TestLiteralCursor(t *testing.T) {
	c := NewLiteral("cat cat dog cat", 0, "cat", false)
	matches := collect(c)

	if len(matches) != 3 {
		t.Fatalf("match count = %d, want 3", len(matches))
	}
	wantFrom := []int{0, 4, 12}
	for i, m := range matches {
		if m.From != wantFrom[i] {
			t.Errorf("match %d from = %d, want %d", i, m.From, wantFrom[i])
		}
		if m.To != m.From+3 {
			t.Errorf("match %d to = %d, want %d", i, m.To, m.From+3)
		}
		if m.Text != "cat" {
			t.Errorf("match %d text = %q, want 'cat'", i, m.Text)
		}
	}
}

func TestLiteralCursorBaseOffset(t *testing.T) {
	c := NewLiteral("xxcatxx", 100, "cat", false)
	m, ok := c.Next()
	if !ok {
		t.Fatal("expected a match")
	}
	if m.From != 102 || m.To != 105 {
		t.Errorf("match = [%d,%d), want [102,105)", m.From, m.To)
	}
}

func TestLiteralCursorCaseFold(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		query    string
		want     int
	}{
		{"exact", "foo foo", "foo", 2},
		{"upper document", "FOO FoO foo", "Foo", 3},
		{"no fold misses", "FOO", "foo", 1},
		{"unicode fold", "Über über", "ÜBER", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLiteral(tt.haystack, 0, tt.query, true)
			if got := len(collect(c)); got != tt.want {
				t.Errorf("match count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLiteralCursorEmptyQuery(t *testing.T) {
	c := NewLiteral("anything", 0, "", false)
	if _, ok := c.Next(); ok {
		t.Error("empty query should yield no matches")
	}
}

func TestLiteralCursorNotRestartable(t *testing.T) {
	c := NewLiteral("cat", 0, "cat", false)
	collect(c)
	if _, ok := c.Next(); ok {
		t.Error("exhausted cursor should stay exhausted")
	}
}

func TestRegexCursor(t *testing.T) {
	c, err := NewRegex("TODO: one\nnote\nTODO: two", 0, `TODO:\s*\w+`)
	if err != nil {
		t.Fatalf("NewRegex failed: %v", err)
	}

	matches := collect(c)
	if len(matches) != 2 {
		t.Fatalf("match count = %d, want 2", len(matches))
	}
	if matches[0].Text != "TODO: one" {
		t.Errorf("first match = %q", matches[0].Text)
	}
	if matches[1].From != 15 {
		t.Errorf("second match from = %d, want 15", matches[1].From)
	}
}

func TestRegexCursorBadPattern(t *testing.T) {
	if _, err := NewRegex("text", 0, `[unclosed`); err == nil {
		t.Error("expected compile error")
	}
}

func TestRegexCursorNamedGroups(t *testing.T) {
	c, err := NewRegex("key=value", 10, `(?P<k>\w+)=(?P<v>\w+)`)
	if err != nil {
		t.Fatalf("NewRegex failed: %v", err)
	}

	m, ok := c.Next()
	if !ok {
		t.Fatal("expected a match")
	}
	if len(m.Groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(m.Groups))
	}

	k, ok := m.Groups["k"]
	if !ok {
		t.Fatal("missing group k")
	}
	if k.From != 10 || k.To != 13 {
		t.Errorf("group k = [%d,%d), want [10,13)", k.From, k.To)
	}
	v := m.Groups["v"]
	if v.From != 14 || v.To != 19 {
		t.Errorf("group v = [%d,%d), want [14,19)", v.From, v.To)
	}
}

func TestRegexCursorOptionalGroupAbsent(t *testing.T) {
	c, err := NewRegex("abc", 0, `a(?P<opt>x)?bc`)
	if err != nil {
		t.Fatalf("NewRegex failed: %v", err)
	}

	m, ok := c.Next()
	if !ok {
		t.Fatal("expected a match")
	}
	if _, present := m.Groups["opt"]; present {
		t.Error("non-participating group should be absent")
	}
}

func TestRegexCursorEmptyMatchAdvances(t *testing.T) {
	c, err := NewRegex("ab", 0, `x*`)
	if err != nil {
		t.Fatalf("NewRegex failed: %v", err)
	}

	// All matches are empty; the cursor must terminate.
	if got := len(collect(c)); got != 0 {
		t.Errorf("empty-only matches should be skipped, got %d", got)
	}
}
