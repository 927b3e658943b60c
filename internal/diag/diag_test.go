package diag

import (
	"sync"
	"testing"
)

func TestChannelDelivery(t *testing.T) {
	c := NewChannel()

	var mu sync.Mutex
	var got []Record
	c.Subscribe(func(r Record) {
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
	})

	c.Emit(LevelWarn, CatScanner, "rule %q failed", "todo")

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("record count = %d, want 1", len(got))
	}
	r := got[0]
	if r.Level != LevelWarn || r.Category != CatScanner {
		t.Errorf("record = %+v", r)
	}
	if r.Message != `rule "todo" failed` {
		t.Errorf("message = %q", r.Message)
	}
	if r.Time.IsZero() {
		t.Error("record time should be set")
	}
}

func TestChannelNoHandlers(t *testing.T) {
	c := NewChannel()
	// Emitting with no subscribers is a no-op, not a panic.
	c.Emit(LevelDebug, CatConfig, "discarded")
}

func TestChannelNilHandlerIgnored(t *testing.T) {
	c := NewChannel()
	c.Subscribe(nil)
	c.Emit(LevelDebug, CatView, "still fine")
}

func TestChannelPanickingHandler(t *testing.T) {
	c := NewChannel()

	var delivered int
	c.Subscribe(func(Record) { panic("bad handler") })
	c.Subscribe(func(Record) { delivered++ })

	c.Emit(LevelError, CatSchedule, "x")

	if delivered != 1 {
		t.Errorf("later handler deliveries = %d, want 1", delivered)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		l    Level
		want string
	}{
		{LevelDebug, "debug"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.l.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
