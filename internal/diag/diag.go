// Package diag provides the debug diagnostic channel for the highlighting
// engine.
//
// Every recoverable scan failure (malformed regex, cursor construction,
// group extraction) is reported here and nowhere else. The default channel
// discards records; hosts install a handler to observe them.
package diag

import (
	"fmt"
	"sync"
	"time"
)

// Level represents record severity.
type Level uint8

const (
	// LevelDebug is for scan-internal diagnostics.
	LevelDebug Level = iota

	// LevelWarn is for degraded but recoverable conditions.
	LevelWarn

	// LevelError is for failures outside the scan fail-soft contract.
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Category identifies the component that produced a record.
type Category string

const (
	// CatScanner is the static scanner.
	CatScanner Category = "scanner"

	// CatSelection is the selection scanner.
	CatSelection Category = "selection"

	// CatSchedule is the update scheduler.
	CatSchedule Category = "schedule"

	// CatConfig is configuration loading and reload.
	CatConfig Category = "config"

	// CatView is the terminal view binding.
	CatView Category = "view"
)

// Record is a single diagnostic entry.
type Record struct {
	Time     time.Time
	Level    Level
	Category Category
	Message  string
}

// Handler receives diagnostic records.
type Handler func(Record)

// Channel routes records to registered handlers.
type Channel struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewChannel creates an empty diagnostic channel.
func NewChannel() *Channel {
	return &Channel{}
}

// Subscribe registers a handler for all records.
func (c *Channel) Subscribe(h Handler) {
	if h == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Emit delivers a record to all handlers.
// Handlers run under panic recovery so a faulty handler cannot take down
// the scan that reported the diagnostic.
func (c *Channel) Emit(level Level, cat Category, format string, args ...any) {
	c.mu.RLock()
	handlers := make([]Handler, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	rec := Record{
		Time:     time.Now(),
		Level:    level,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
	}

	for _, h := range handlers {
		safeCall(h, rec)
	}
}

func safeCall(h Handler, rec Record) {
	defer func() {
		_ = recover()
	}()
	h(rec)
}

// defaultChannel is the package-level channel used by the convenience
// functions below.
var defaultChannel = NewChannel()

// Default returns the package-level channel.
func Default() *Channel {
	return defaultChannel
}

// Subscribe registers a handler on the package-level channel.
func Subscribe(h Handler) {
	defaultChannel.Subscribe(h)
}

// Debugf emits a debug record on the package-level channel.
func Debugf(cat Category, format string, args ...any) {
	defaultChannel.Emit(LevelDebug, cat, format, args...)
}

// Warnf emits a warn record on the package-level channel.
func Warnf(cat Category, format string, args ...any) {
	defaultChannel.Emit(LevelWarn, cat, format, args...)
}

// Errorf emits an error record on the package-level channel.
func Errorf(cat Category, format string, args ...any) {
	defaultChannel.Emit(LevelError, cat, format, args...)
}
