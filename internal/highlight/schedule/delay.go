package schedule

import "time"

// Adaptive delay policy. Bigger documents and viewports push the selection
// recompute further out; typing keeps a floor so the highlight does not
// chase every keystroke; pure scrolling keeps a ceiling so highlights
// follow the viewport promptly.
const (
	// largeDocSize raises the delay floor to largeDocDelay.
	largeDocSize = 100_000

	// hugeDocSize raises the delay floor to hugeDocDelay.
	hugeDocSize = 500_000

	largeDocDelay = 300 * time.Millisecond
	hugeDocDelay  = 500 * time.Millisecond

	// largeViewportSize adds viewportPenalty to the delay.
	largeViewportSize = 20_000
	viewportPenalty   = 100 * time.Millisecond

	// typingFloor is the minimum delay for typing-classified edits.
	typingFloor = 300 * time.Millisecond

	// scrollCeiling caps the delay for pure-scroll viewport changes.
	scrollCeiling = 100 * time.Millisecond

	// clearDelay is the fixed delay before the transitional clear fires.
	clearDelay = 20 * time.Millisecond
)

// adaptiveDelay computes the recompute delay for one qualifying change.
func adaptiveDelay(base time.Duration, docLen, visibleLen int, typing, scrollOnly bool) time.Duration {
	d := base
	if docLen > largeDocSize && d < largeDocDelay {
		d = largeDocDelay
	}
	if docLen > hugeDocSize && d < hugeDocDelay {
		d = hugeDocDelay
	}
	if visibleLen > largeViewportSize {
		d += viewportPenalty
	}
	if typing && d < typingFloor {
		d = typingFloor
	}
	if scrollOnly && d > scrollCeiling {
		d = scrollCeiling
	}
	return d
}

// visibleSpan totals the visible range lengths.
func visibleSpan(lens []int) int {
	total := 0
	for _, l := range lens {
		total += l
	}
	return total
}
