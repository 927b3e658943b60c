package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// collector accumulates handler deliveries.
type collector struct {
	mu    sync.Mutex
	paths []string
}

func (c *collector) handle(path string) {
	c.mu.Lock()
	c.paths = append(c.paths, path)
	c.mu.Unlock()
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func (c *collector) waitFor(t *testing.T, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.count() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d deliveries, got %d", n, c.count())
}

func TestWatcherDeliversOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules:\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var c collector
	w, err := New(c.handle, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("rules:\n  a: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c.waitFor(t, 1, 2*time.Second)

	c.mu.Lock()
	got := c.paths[0]
	c.mu.Unlock()
	abs, _ := filepath.Abs(path)
	if got != abs {
		t.Errorf("delivered path = %q, want %q", got, abs)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	if err := os.WriteFile(path, []byte("order = []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var c collector
	w, err := New(c.handle, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	// A rapid burst of writes coalesces into one delivery.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("order = []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	c.waitFor(t, 1, 2*time.Second)
	time.Sleep(300 * time.Millisecond)

	if got := c.count(); got != 1 {
		t.Errorf("deliveries = %d, want 1", got)
	}
}

func TestWatcherClose(t *testing.T) {
	var c collector
	w, err := New(c.handle)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	if err := w.Watch("anything"); err != ErrWatcherClosed {
		t.Errorf("Watch after Close = %v, want ErrWatcherClosed", err)
	}
}

func TestWatcherPanickingHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	var c collector
	var calls atomic.Int32
	handler := func(p string) {
		if calls.Add(1) == 1 {
			panic("bad handler")
		}
		c.handle(p)
	}

	w, err := New(handler, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	// First write panics inside the handler; the watcher survives and
	// delivers the second.
	if err := os.WriteFile(path, []byte(`{"order":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"order":["a"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c.waitFor(t, 1, 2*time.Second)
}
