// Package view binds the highlighting engine to a terminal: it renders a
// document with live highlight regions and feeds caret, viewport, and
// configuration changes into the update scheduler.
package view

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/hilite/internal/config"
	"github.com/dshills/hilite/internal/diag"
	"github.com/dshills/hilite/internal/highlight/region"
	"github.com/dshills/hilite/internal/highlight/selscan"
	"github.com/dshills/hilite/internal/syntax"
	"github.com/dshills/hilite/internal/text"
)

// View is a read-only terminal viewer for one document.
type View struct {
	mu sync.Mutex

	screen tcell.Screen
	buf    *text.Buffer
	class  syntax.Classifier
	sched  Scheduler

	name    string
	caret   int
	anchor  int // selection anchor; equal to caret when nothing is selected
	topLine int
	width   int
	height  int

	staticSets region.Sets
	selRegions []region.TokenRegion

	styles map[string]tcell.Style
}

// Scheduler is the slice of the update scheduler the view drives.
type Scheduler interface {
	DocumentChanged(typing bool)
	ViewportChanged(scrollOnly bool)
	SelectionChanged()
	Close()
}

// New creates a view over the given buffer.
func New(name string, buf *text.Buffer, cfg *config.Config) *View {
	return &View{
		buf:    buf,
		class:  syntax.NewMarkdown(buf),
		name:   name,
		styles: buildStyles(cfg),
	}
}

// SetScheduler attaches the update scheduler driving this view.
func (v *View) SetScheduler(s Scheduler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sched = s
}

// Document implements schedule.Source.
func (v *View) Document() text.Document {
	return v.buf
}

// VisibleRanges implements schedule.Source: the span of the lines
// currently on screen.
func (v *View) VisibleRanges() []text.Range {
	v.mu.Lock()
	top, height := v.topLine, v.height
	v.mu.Unlock()
	if height <= 1 {
		height = 2
	}

	first := v.buf.Line(top)
	last := v.buf.Line(top + height - 2) // final row is the status line
	return []text.Range{{From: first.Start, To: last.End}}
}

// Selection implements schedule.Source.
func (v *View) Selection() selscan.Selection {
	v.mu.Lock()
	defer v.mu.Unlock()

	from, to := v.anchor, v.caret
	if from > to {
		from, to = to, from
	}
	return selscan.Selection{
		Ranges: []selscan.SelRange{{From: from, To: to, Head: v.caret}},
	}
}

// Classifier implements schedule.Source.
func (v *View) Classifier() syntax.Classifier {
	return v.class
}

// PublishStatic implements schedule.Publisher.
func (v *View) PublishStatic(sets region.Sets) {
	v.mu.Lock()
	v.staticSets = sets
	v.mu.Unlock()
	v.wake()
}

// PublishSelection implements schedule.Publisher.
func (v *View) PublishSelection(regions []region.TokenRegion) {
	v.mu.Lock()
	v.selRegions = regions
	v.mu.Unlock()
	v.wake()
}

// ClearSelection implements schedule.Publisher.
func (v *View) ClearSelection() {
	v.mu.Lock()
	v.selRegions = nil
	v.mu.Unlock()
	v.wake()
}

// Reload installs freshly loaded styles. The caller reconfigures the
// scheduler separately.
func (v *View) Reload(cfg *config.Config) {
	v.mu.Lock()
	v.styles = buildStyles(cfg)
	v.mu.Unlock()
	v.wake()
}

// wake posts an interrupt so the event loop redraws. tcell screens are
// only safe to drive from the event loop; publications arrive from timer
// goroutines.
func (v *View) wake() {
	v.mu.Lock()
	screen := v.screen
	v.mu.Unlock()
	if screen != nil {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// quitSignal is the interrupt payload Quit posts.
type quitSignal struct{}

// Quit asks the event loop to exit. Safe from any goroutine.
func (v *View) Quit() {
	v.mu.Lock()
	screen := v.screen
	v.mu.Unlock()
	if screen != nil {
		_ = screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
	}
}

// Run initializes the terminal and processes events until quit.
func (v *View) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault)
	v.mu.Lock()
	v.screen = screen
	v.width, v.height = screen.Size()
	sched := v.sched
	v.mu.Unlock()

	if sched != nil {
		defer sched.Close()
		sched.DocumentChanged(false)
	}

	for {
		v.draw()
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch tev := ev.(type) {
		case *tcell.EventResize:
			v.mu.Lock()
			v.width, v.height = tev.Size()
			v.mu.Unlock()
			screen.Sync()
			if sched != nil {
				sched.ViewportChanged(false)
			}
		case *tcell.EventKey:
			if v.handleKey(tev, sched) {
				return nil
			}
		case *tcell.EventInterrupt:
			if _, quit := tev.Data().(quitSignal); quit {
				return nil
			}
			// Otherwise redraw on the next loop iteration.
		}
	}
}

// handleKey processes one key event; returns true to quit.
func (v *View) handleKey(ev *tcell.EventKey, sched Scheduler) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return true
		}
	case tcell.KeyUp:
		v.moveCaretLine(-1, ev.Modifiers()&tcell.ModShift != 0, sched)
	case tcell.KeyDown:
		v.moveCaretLine(1, ev.Modifiers()&tcell.ModShift != 0, sched)
	case tcell.KeyLeft:
		v.moveCaret(-1, ev.Modifiers()&tcell.ModShift != 0, sched)
	case tcell.KeyRight:
		v.moveCaret(1, ev.Modifiers()&tcell.ModShift != 0, sched)
	case tcell.KeyPgUp:
		v.scroll(-v.pageSize(), sched)
	case tcell.KeyPgDn:
		v.scroll(v.pageSize(), sched)
	}
	return false
}

func (v *View) pageSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.height > 2 {
		return v.height - 2
	}
	return 1
}

// moveCaret shifts the caret by a byte delta. extend keeps the anchor in
// place, growing a selection.
func (v *View) moveCaret(delta int, extend bool, sched Scheduler) {
	v.mu.Lock()
	v.caret += delta
	if v.caret < 0 {
		v.caret = 0
	}
	if v.caret > v.buf.Len() {
		v.caret = v.buf.Len()
	}
	if !extend {
		v.anchor = v.caret
	}
	v.mu.Unlock()

	v.scrollCaretIntoView(sched)
	if sched != nil {
		sched.SelectionChanged()
	}
}

// moveCaretLine moves the caret vertically, preserving the column where
// possible.
func (v *View) moveCaretLine(delta int, extend bool, sched Scheduler) {
	v.mu.Lock()
	line := v.buf.LineAt(v.caret)
	col := v.caret - line.Start
	target := v.buf.Line(line.Num + delta)
	v.caret = target.Start + col
	if v.caret > target.End {
		v.caret = target.End
	}
	if !extend {
		v.anchor = v.caret
	}
	v.mu.Unlock()

	v.scrollCaretIntoView(sched)
	if sched != nil {
		sched.SelectionChanged()
	}
}

// scroll shifts the viewport by a line delta; a pure scroll leaves the
// caret alone.
func (v *View) scroll(delta int, sched Scheduler) {
	v.mu.Lock()
	v.topLine += delta
	if v.topLine < 0 {
		v.topLine = 0
	}
	if max := v.buf.LineCount() - 1; v.topLine > max {
		v.topLine = max
	}
	v.mu.Unlock()

	if sched != nil {
		sched.ViewportChanged(true)
	}
}

// scrollCaretIntoView adjusts the viewport after caret movement.
func (v *View) scrollCaretIntoView(sched Scheduler) {
	v.mu.Lock()
	line := v.buf.LineAt(v.caret)
	rows := v.height - 1
	moved := false
	if line.Num < v.topLine {
		v.topLine = line.Num
		moved = true
	} else if rows > 0 && line.Num >= v.topLine+rows {
		v.topLine = line.Num - rows + 1
		moved = true
	}
	v.mu.Unlock()

	if moved && sched != nil {
		sched.ViewportChanged(false)
	}
}

// draw renders the visible lines with their highlight regions and the
// status line.
func (v *View) draw() {
	v.mu.Lock()
	screen := v.screen
	if screen == nil {
		v.mu.Unlock()
		return
	}
	top, width, height := v.topLine, v.width, v.height
	sets := v.staticSets
	sel := v.selRegions
	styles := v.styles
	caret := v.caret
	v.mu.Unlock()

	screen.Clear()

	rows := height - 1
	for row := 0; row < rows; row++ {
		num := top + row
		if num >= v.buf.LineCount() {
			break
		}
		line := v.buf.Line(num)
		v.drawLine(screen, row, width, line, sets, sel, styles)

		if caret >= line.Start && caret <= line.End {
			screen.ShowCursor(caret-line.Start, row)
		}
	}

	v.drawStatus(screen, width, height, sets, sel)
	screen.Show()
}

// drawLine renders one document line, layering region styles in stacking
// order: line, group, token, widget.
func (v *View) drawLine(screen tcell.Screen, row, width int, line text.Line, sets region.Sets, sel []region.TokenRegion, styles map[string]tcell.Style) {
	base := tcell.StyleDefault
	for _, lr := range sets.Line {
		if lr.Line == line.Start {
			if st, ok := styles[lr.ClassAttr()]; ok {
				base = st
			} else {
				base = base.Background(tcell.ColorDarkSlateGray)
			}
		}
	}

	body := v.buf.Slice(line.Start, line.End)
	col := 0
	for i, r := range body {
		if col >= width {
			break
		}
		pos := line.Start + i
		style := base

		for _, gr := range sets.Group {
			if pos >= gr.From && pos < gr.To {
				style = styleOr(styles, gr.Class, style.Underline(true))
			}
		}
		for _, tr := range sets.Token {
			if pos >= tr.From && pos < tr.To {
				style = styleOr(styles, tr.Class, style.Bold(true))
			}
		}
		for _, sr := range sel {
			if pos >= sr.From && pos < sr.To {
				style = styleOr(styles, sr.Class, style.Reverse(true))
			}
		}
		for _, wr := range sets.Widget {
			if wr.At == pos {
				style = style.Underline(true)
			}
		}

		screen.SetContent(col, row, r, nil, style)
		col++
	}
}

// drawStatus renders the bottom status line.
func (v *View) drawStatus(screen tcell.Screen, width, height int, sets region.Sets, sel []region.TokenRegion) {
	if height < 1 {
		return
	}
	status := fmt.Sprintf(" %s | static:%d selection:%d | q to quit", v.name, sets.Total(), len(sel))
	style := tcell.StyleDefault.Reverse(true)
	for col, r := range statusCells(status, width) {
		screen.SetContent(col, height-1, r, nil, style)
	}
}

// statusCells pads or truncates the status text to width cells, decoding
// runes so multibyte document names render intact.
func statusCells(status string, width int) []rune {
	cells := make([]rune, 0, width)
	for _, r := range status {
		if len(cells) == width {
			break
		}
		cells = append(cells, r)
	}
	for len(cells) < width {
		cells = append(cells, ' ')
	}
	return cells
}

// styleOr resolves a class to its configured style, falling back to the
// given default.
func styleOr(styles map[string]tcell.Style, class string, fallback tcell.Style) tcell.Style {
	if st, ok := styles[class]; ok {
		return st
	}
	return fallback
}

// buildStyles maps rule classes and the selection classes to terminal
// styles. Rule colors come from the configuration; selection classes use
// fixed styles.
func buildStyles(cfg *config.Config) map[string]tcell.Style {
	styles := map[string]tcell.Style{
		selscan.CurrentWordClass:   tcell.StyleDefault.Reverse(true).Bold(true),
		selscan.MatchedWordClass:   tcell.StyleDefault.Reverse(true),
		selscan.CurrentStringClass: tcell.StyleDefault.Reverse(true).Bold(true),
		selscan.MatchedStringClass: tcell.StyleDefault.Reverse(true),
	}
	if cfg == nil {
		return styles
	}

	for _, r := range cfg.Rules {
		if r.Class == "" {
			continue
		}
		st := tcell.StyleDefault.Bold(true)
		if r.Color != "" {
			c, err := colorful.Hex(r.Color)
			if err != nil {
				diag.Debugf(diag.CatView, "class %q: bad color %q", r.Class, r.Color)
			} else {
				cr, cg, cb := c.RGB255()
				st = st.Foreground(tcell.NewRGBColor(int32(cr), int32(cg), int32(cb)))
			}
		}
		styles[r.Class] = st
	}
	return styles
}
