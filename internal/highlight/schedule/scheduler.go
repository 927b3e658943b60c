// Package schedule decides, on every document, viewport, or selection
// change, whether and when to re-run the highlighting scanners.
//
// Static highlighting recomputes synchronously. Selection highlighting is
// debounced with an adaptive delay, preceded by a transitional clear that
// empties stale selection regions before the recompute lands. The clear
// and the recompute are two independently cancellable timers.
package schedule

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/hilite/internal/diag"
	"github.com/dshills/hilite/internal/highlight/region"
	"github.com/dshills/hilite/internal/highlight/rules"
	"github.com/dshills/hilite/internal/highlight/scanner"
	"github.com/dshills/hilite/internal/highlight/selscan"
	"github.com/dshills/hilite/internal/syntax"
	"github.com/dshills/hilite/internal/text"
)

// State is the scheduler's scan lifecycle state.
type State uint8

const (
	// StateIdle means no scan is pending or published.
	StateIdle State = iota

	// StateScanPending means a recompute is scheduled.
	StateScanPending

	// StateScanned means the most recent scan has been published.
	StateScanned
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanPending:
		return "scan-pending"
	case StateScanned:
		return "scanned"
	default:
		return "unknown"
	}
}

// Source supplies the editor state a scan reads. Implementations return
// current snapshots; the scheduler reads them at fire time, not at trigger
// time.
type Source interface {
	// Document returns the current document.
	Document() text.Document

	// VisibleRanges returns the spans currently rendered.
	VisibleRanges() []text.Range

	// Selection returns the current selection state.
	Selection() selscan.Selection

	// Classifier answers excluded-region queries for the current document.
	Classifier() syntax.Classifier
}

// Publisher receives scan output. Calls may arrive from timer goroutines.
type Publisher interface {
	// PublishStatic replaces the published static region sets.
	PublishStatic(region.Sets)

	// PublishSelection replaces the published selection regions.
	PublishSelection([]region.TokenRegion)

	// ClearSelection empties the published selection regions. Fired as the
	// transitional step before a delayed recompute.
	ClearSelection()
}

// Scheduler drives the two scanners for one attached editor view.
type Scheduler struct {
	mu sync.Mutex

	// id identifies this attached view on diagnostics.
	id uuid.UUID

	src Source
	pub Publisher

	static  *scanner.Scanner
	ruleSet *rules.RuleSet
	selCfg  selscan.Config

	state State

	recompute  debounce
	clearTimer *time.Timer

	closed bool
}

// New creates a scheduler for one view.
func New(src Source, pub Publisher, rs *rules.RuleSet, cfg selscan.Config) *Scheduler {
	return &Scheduler{
		id:      uuid.New(),
		src:     src,
		pub:     pub,
		static:  scanner.New(),
		ruleSet: rs,
		selCfg:  cfg,
	}
}

// ID returns the scheduler's instance identity.
func (s *Scheduler) ID() uuid.UUID {
	return s.id
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DocumentChanged handles a document edit. typing marks interactive
// keystroke edits, which use a longer delay floor.
func (s *Scheduler) DocumentChanged(typing bool) {
	if s.isClosed() {
		return
	}
	s.rescanStatic()
	s.scheduleSelection(typing, false)
}

// ViewportChanged handles a visible-range change. scrollOnly marks pure
// scrolling, which uses a shorter delay ceiling.
func (s *Scheduler) ViewportChanged(scrollOnly bool) {
	if s.isClosed() {
		return
	}
	s.rescanStatic()
	s.scheduleSelection(false, scrollOnly)
}

// SelectionChanged handles a caret or selection move.
func (s *Scheduler) SelectionChanged() {
	if s.isClosed() {
		return
	}
	s.scheduleSelection(false, false)
}

// Reconfigure installs a new rule set and selection configuration and
// forces a fresh pass regardless of delay state.
func (s *Scheduler) Reconfigure(rs *rules.RuleSet, cfg selscan.Config) {
	if s.isClosed() {
		return
	}

	s.mu.Lock()
	s.ruleSet = rs
	s.selCfg = cfg
	s.mu.Unlock()

	diag.Debugf(diag.CatSchedule, "view %s: reconfigured, forcing rescan", s.id)
	s.rescanStatic()
	s.recompute.Cancel()
	s.scheduleSelection(false, false)
}

// Close cancels pending timers. Further triggers are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
	s.mu.Unlock()

	s.recompute.Cancel()
}

func (s *Scheduler) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// rescanStatic runs the static scanner synchronously and publishes the
// result. Synchronous scans always run to completion.
func (s *Scheduler) rescanStatic() {
	s.mu.Lock()
	rs := s.ruleSet
	s.mu.Unlock()

	sets := s.static.Scan(s.src.Document(), s.src.VisibleRanges(), rs, s.src.Classifier())
	s.pub.PublishStatic(sets)
}

// scheduleSelection arms the transitional clear and the debounced
// recompute for one qualifying change.
func (s *Scheduler) scheduleSelection(typing, scrollOnly bool) {
	doc := s.src.Document()
	visLens := make([]int, 0, 4)
	for _, vr := range s.src.VisibleRanges() {
		visLens = append(visLens, vr.Len())
	}

	s.mu.Lock()
	base := time.Duration(s.selCfg.Delay) * time.Millisecond
	delay := adaptiveDelay(base, doc.Len(), visibleSpan(visLens), typing, scrollOnly)
	s.state = StateScanPending

	// Stale selection regions interfere with pointer interactions on the
	// old decorations; empty them before the recompute lands.
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}
	s.clearTimer = time.AfterFunc(clearDelay, s.pub.ClearSelection)
	s.mu.Unlock()

	s.recompute.Trigger(delay, s.runSelectionScan)
}

// runSelectionScan executes the selection scanner and publishes its
// regions. A clear still pending at this point is superseded: it must not
// fire after the publish and wipe the fresh regions.
func (s *Scheduler) runSelectionScan() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}
	cfg := s.selCfg
	s.mu.Unlock()

	regions := selscan.Scan(s.src.Document(), s.src.VisibleRanges(), s.src.Selection(), cfg)
	s.pub.PublishSelection(regions)

	s.mu.Lock()
	s.state = StateScanned
	s.mu.Unlock()
}
