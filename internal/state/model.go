package state

import (
	"image/color"
	"slices"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Point is a position in view-local coordinates.
type Point struct{ X, Y float64 }

func (p Point) vec() vec.Vec2 { return vec.Vec2{X: p.X, Y: p.Y} }

// Tool selects what input on the board does. The zero value means no tool
// is active and input falls through to the document viewer.
type Tool int

const (
	ToolNone Tool = iota
	ToolPen
	ToolHighlighter
	ToolEraser
	ToolText
)

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolHighlighter:
		return "highlighter"
	case ToolEraser:
		return "eraser"
	case ToolText:
		return "text"
	}
	return "none"
}

// ParseTool maps a tool name back to a Tool. Unknown names give ToolNone.
func ParseTool(name string) Tool {
	switch name {
	case "pen":
		return ToolPen
	case "highlighter":
		return ToolHighlighter
	case "eraser":
		return ToolEraser
	case "text":
		return ToolText
	}
	return ToolNone
}

// Style holds the rendering attributes of a stroke.
type Style struct {
	Width    float64
	FontSize float64
	Color    color.NRGBA
	Fill     bool // filled glyphs instead of an outline
	Erase    bool // clears the destination when composited
}

// StrokeID identifies one stroke for the lifetime of a board.
type StrokeID uint64

// Stroke is one committed annotation unit: a *PathStroke or a *TextStroke.
type Stroke interface {
	ID() StrokeID
	Style() Style
	Bounds() rect.Rect
	isStroke()
}

// PathStroke is the trace of one drag gesture.
type PathStroke struct {
	id     StrokeID
	style  Style
	points []Point
	frozen bool
}

func (s *PathStroke) ID() StrokeID { return s.id }
func (s *PathStroke) Style() Style { return s.style }
func (*PathStroke) isStroke()      {}

// Points returns the stroke's points. The caller must not modify them.
func (s *PathStroke) Points() []Point { return s.points }

// Bounds returns the bounding box of the points, inflated by the line width.
func (s *PathStroke) Bounds() rect.Rect {
	return boundsOf(s.points, s.style.Width)
}

// detach returns a frozen copy that shares no memory with s.
func (s *PathStroke) detach() *PathStroke {
	return &PathStroke{id: s.id, style: s.style, points: slices.Clone(s.points), frozen: true}
}

// extend appends p while the originating gesture is still open.
func (s *PathStroke) extend(p Point) bool {
	if s.frozen {
		return false
	}
	s.points = append(s.points, p)
	return true
}

// TextStroke is a text label anchored at its baseline origin.
type TextStroke struct {
	id    StrokeID
	style Style
	text  string
	at    Point
	width float64
}

func (s *TextStroke) ID() StrokeID { return s.id }
func (s *TextStroke) Style() Style { return s.style }
func (*TextStroke) isStroke()      {}

// Text returns the label.
func (s *TextStroke) Text() string { return s.text }

// At returns the baseline origin.
func (s *TextStroke) At() Point { return s.at }

// Width returns the measured advance of the label.
func (s *TextStroke) Width() float64 { return s.width }

// Bounds returns the box extending right and up from the anchor.
func (s *TextStroke) Bounds() rect.Rect {
	return rect.Rect{
		LLx: s.at.X,
		LLy: s.at.Y - s.style.FontSize,
		URx: s.at.X + s.width,
		URy: s.at.Y,
	}
}

// OpType is the kind of a history entry.
type OpType string

const (
	OpAdd    OpType = "add"
	OpRemove OpType = "remove"
)

// Action records one add or remove of one stroke on one page.
type Action struct {
	Seq    uint64
	Page   int
	Stroke Stroke
	Op     OpType
}
