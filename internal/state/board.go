package state

import (
	"errors"
	"log"
)

// ErrInvalidPage is returned when a negative page index is selected.
var ErrInvalidPage = errors.New("page index must not be negative")

// Board is the annotation surface of one open document. It holds the strokes
// of every page and the global history. Boards are not safe for concurrent
// use; all calls must come from the input-dispatch goroutine.
type Board struct {
	pages   *Pages
	history History
	seq     sequence
	session string
	measure TextMeasurer

	page int
	tool Tool
	open *PathStroke // stroke of the gesture in progress

	// OnTextTap is called when the text tool is active and the user taps at
	// (x, y). The receiver collects a string and calls AddText.
	OnTextTap func(x, y float64)
}

// NewBoard returns an empty board on page 0 with no tool selected.
func NewBoard(measure TextMeasurer) *Board {
	if measure == nil {
		measure = MeasureFunc(func(string, float64) float64 { return 0 })
	}
	return &Board{
		pages:   NewPages(),
		session: newSessionID(),
		measure: measure,
	}
}

// Session identifies this board in logs.
func (b *Board) Session() string { return b.session }

func (b *Board) Tool() Tool { return b.tool }

// SetTool selects the tool used for the next gestures. Switching tools ends
// any gesture in progress.
func (b *Board) SetTool(t Tool) {
	b.closeGesture()
	b.tool = t
}

func (b *Board) Page() int { return b.page }

// SetPage changes the page that receives input and is rendered. Strokes and
// history are kept.
func (b *Board) SetPage(page int) error {
	if page < 0 {
		return ErrInvalidPage
	}
	if page != b.page {
		b.closeGesture()
		b.page = page
	}
	return nil
}

// Down starts a gesture at (x, y). It reports whether the board consumed the
// event; with no tool selected the event belongs to the document viewer.
func (b *Board) Down(x, y float64) bool {
	p := Point{X: x, Y: y}
	switch b.tool {
	case ToolPen, ToolHighlighter:
		b.closeGesture()
		s := &PathStroke{
			id:     StrokeID(b.seq.next()),
			style:  StyleFor(b.tool),
			points: []Point{p},
		}
		b.add(s)
		b.open = s
		return true
	case ToolEraser:
		b.EraseAt(x, y)
		return true
	case ToolText:
		if b.OnTextTap != nil {
			b.OnTextTap(x, y)
		}
		return true
	}
	return false
}

// Move continues the current gesture.
func (b *Board) Move(x, y float64) bool {
	switch b.tool {
	case ToolPen, ToolHighlighter:
		if b.open != nil && b.pages.Contains(b.page, b.open.id) {
			b.open.extend(Point{X: x, Y: y})
		}
		return true
	case ToolEraser:
		b.EraseAt(x, y)
		return true
	case ToolText:
		return true
	}
	return false
}

// Up ends the current gesture. The stroke was committed to history when the
// gesture started, so nothing else is recorded.
func (b *Board) Up(x, y float64) bool {
	if b.tool == ToolNone {
		return false
	}
	b.closeGesture()
	return true
}

func (b *Board) closeGesture() {
	if b.open != nil {
		b.open.frozen = true
		b.open = nil
	}
}

// AddText places a label with its baseline origin at (x, y) on the active
// page.
func (b *Board) AddText(text string, x, y float64) *TextStroke {
	style := StyleFor(ToolText)
	s := &TextStroke{
		id:    StrokeID(b.seq.next()),
		style: style,
		text:  text,
		at:    Point{X: x, Y: y},
		width: b.measure.MeasureText(text, style.FontSize),
	}
	b.add(s)
	return s
}

func (b *Board) add(s Stroke) {
	b.history.ClearRedo()
	b.pages.Append(b.page, s)
	b.history.Record(Action{Seq: b.seq.next(), Page: b.page, Stroke: s, Op: OpAdd})
}

// EraseAt removes every stroke on the active page that (x, y) hits. Each
// removal is its own history entry. The redo stack is cleared before the
// scan, whether or not anything is hit. It reports whether anything was
// removed.
func (b *Board) EraseAt(x, y float64) bool {
	b.history.ClearRedo()
	p := Point{X: x, Y: y}
	removed := 0
	for _, s := range b.pages.Strokes(b.page) {
		if !HitTest(s, p) {
			continue
		}
		b.pages.Remove(b.page, s.ID())
		b.history.Record(Action{Seq: b.seq.next(), Page: b.page, Stroke: s, Op: OpRemove})
		if b.open != nil && b.open.id == s.ID() {
			b.closeGesture()
		}
		removed++
	}
	if removed > 0 {
		log.Printf("[BOARD] %s: erased %d stroke(s) on page %d", b.session, removed, b.page)
	}
	return removed > 0
}

// Undo reverts the newest action on whatever page it happened. It reports
// false when there is nothing to undo.
func (b *Board) Undo() bool {
	a, ok := b.history.Undo(b.pages)
	if !ok {
		return false
	}
	if b.open != nil && a.Stroke.ID() == b.open.id {
		b.closeGesture()
	}
	log.Printf("[BOARD] %s: undo %s #%d on page %d", b.session, a.Op, a.Stroke.ID(), a.Page)
	return true
}

// Redo reapplies the most recently undone action. It reports false when
// there is nothing to redo.
func (b *Board) Redo() bool {
	a, ok := b.history.Redo(b.pages)
	if !ok {
		return false
	}
	log.Printf("[BOARD] %s: redo %s #%d on page %d", b.session, a.Op, a.Stroke.ID(), a.Page)
	return true
}

// PeekUndo returns the action Undo would revert.
func (b *Board) PeekUndo() (Action, bool) { return b.history.PeekUndo() }

// PeekRedo returns the action Redo would reapply.
func (b *Board) PeekRedo() (Action, bool) { return b.history.PeekRedo() }

func (b *Board) CanUndo() bool { return b.history.UndoLen() > 0 }
func (b *Board) CanRedo() bool { return b.history.RedoLen() > 0 }

// Strokes returns the strokes of the active page in drawing order.
func (b *Board) Strokes() []Stroke { return b.pages.Strokes(b.page) }

// DetachedStrokes returns copies of the active page's strokes that stay
// valid after the board moves on, for handing to other goroutines.
func (b *Board) DetachedStrokes() []Stroke {
	strokes := b.pages.Strokes(b.page)
	for i, s := range strokes {
		if ps, ok := s.(*PathStroke); ok {
			strokes[i] = ps.detach()
		}
	}
	return strokes
}

// StrokesOn returns the strokes of page in drawing order.
func (b *Board) StrokesOn(page int) []Stroke { return b.pages.Strokes(page) }

// Snapshot summarises the board for debug output.
type Snapshot struct {
	Session string
	Page    int
	Tool    string
	Strokes map[int]int
	Undo    int
	Redo    int
}

func (b *Board) Snapshot() Snapshot {
	counts := make(map[int]int)
	for _, page := range b.pages.Indexes() {
		counts[page] = b.pages.Len(page)
	}
	return Snapshot{
		Session: b.session,
		Page:    b.page,
		Tool:    b.tool.String(),
		Strokes: counts,
		Undo:    b.history.UndoLen(),
		Redo:    b.history.RedoLen(),
	}
}
