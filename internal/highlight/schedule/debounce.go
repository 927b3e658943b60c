package schedule

import (
	"sync"
	"time"
)

// debounce implements leading-edge debouncing: the first trigger in a
// burst fires immediately; triggers arriving inside the window coalesce
// into at most one trailing call when the window expires.
type debounce struct {
	mu      sync.Mutex
	timer   *time.Timer
	window  time.Duration
	pending bool
	fn      func()
}

// Trigger fires fn immediately when no window is open, otherwise records
// it as the pending trailing call and resets the window.
func (d *debounce) Trigger(window time.Duration, fn func()) {
	d.mu.Lock()
	if d.timer == nil {
		d.window = window
		d.fn = fn
		d.timer = time.AfterFunc(window, d.expire)
		d.mu.Unlock()
		fn()
		return
	}

	d.pending = true
	d.fn = fn
	d.window = window
	d.timer.Reset(window)
	d.mu.Unlock()
}

// expire runs at window end: fires a pending trailing call and keeps the
// window open, or closes the window when nothing arrived.
func (d *debounce) expire() {
	d.mu.Lock()
	if !d.pending {
		d.timer = nil
		d.mu.Unlock()
		return
	}
	d.pending = false
	fn := d.fn
	d.timer.Reset(d.window)
	d.mu.Unlock()

	fn()
}

// Cancel drops any pending trailing call and closes the window.
func (d *debounce) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	d.fn = nil
}
