package ui

import (
	"image/color"

	"ScoreViewer/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// swipeThreshold is how far an unconsumed drag must travel to turn the page.
const swipeThreshold = 80

// MeasureText measures text the way canvas.Text draws it, so hit boxes
// match what is on screen.
var MeasureText = state.MeasureFunc(func(text string, size float64) float64 {
	return float64(fyne.MeasureText(text, float32(size), fyne.TextStyle{}).Width)
})

// AnnotationCanvas draws the active page's strokes and routes pointer input
// to the board. Input the board does not consume is read as a page swipe.
type AnnotationCanvas struct {
	widget.BaseWidget
	board *state.Board

	gesture bool // the board consumed the current press
	swipeDX float32
	cursor  *fyne.Position

	// OnSwipe is called with -1 or +1 when the user swipes to the previous
	// or next page.
	OnSwipe func(delta int)

	// OnChanged is called after input changed the board.
	OnChanged func()
}

var _ fyne.Widget = (*AnnotationCanvas)(nil)
var _ fyne.Draggable = (*AnnotationCanvas)(nil)
var _ desktop.Mouseable = (*AnnotationCanvas)(nil)
var _ desktop.Hoverable = (*AnnotationCanvas)(nil)

func NewAnnotationCanvas(b *state.Board) *AnnotationCanvas {
	c := &AnnotationCanvas{board: b}
	c.ExtendBaseWidget(c)
	return c
}

func (c *AnnotationCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.swipeDX = 0
	c.gesture = c.board.Down(float64(e.Position.X), float64(e.Position.Y))
	if c.gesture {
		c.changed()
	}
}

func (c *AnnotationCanvas) Dragged(e *fyne.DragEvent) {
	c.trackCursor(e.Position)
	if !c.gesture {
		c.swipeDX += e.Dragged.DX
		return
	}
	c.board.Move(float64(e.Position.X), float64(e.Position.Y))
	c.changed()
}

func (c *AnnotationCanvas) DragEnd() {
	if c.gesture {
		return
	}
	dx := c.swipeDX
	c.swipeDX = 0
	if c.OnSwipe == nil {
		return
	}
	switch {
	case dx <= -swipeThreshold:
		c.OnSwipe(1)
	case dx >= swipeThreshold:
		c.OnSwipe(-1)
	}
}

func (c *AnnotationCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !c.gesture {
		return
	}
	c.board.Up(float64(e.Position.X), float64(e.Position.Y))
	c.gesture = false
	c.changed()
}

func (c *AnnotationCanvas) MouseIn(e *desktop.MouseEvent)    { c.trackCursor(e.Position) }
func (c *AnnotationCanvas) MouseMoved(e *desktop.MouseEvent) { c.trackCursor(e.Position) }

func (c *AnnotationCanvas) MouseOut() {
	if c.cursor != nil {
		c.cursor = nil
		c.Refresh()
	}
}

func (c *AnnotationCanvas) trackCursor(pos fyne.Position) {
	if c.board.Tool() != state.ToolEraser {
		if c.cursor != nil {
			c.cursor = nil
			c.Refresh()
		}
		return
	}
	c.cursor = &pos
	c.Refresh()
}

func (c *AnnotationCanvas) changed() {
	c.Refresh()
	if c.OnChanged != nil {
		c.OnChanged()
	}
}

func (c *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &annotationRenderer{canvas: c}
	r.background = canvas.NewRectangle(color.Transparent)
	r.rebuild()
	return r
}

type annotationRenderer struct {
	canvas     *AnnotationCanvas
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *annotationRenderer) rebuild() {
	objects := []fyne.CanvasObject{r.background}
	for _, s := range r.canvas.board.Strokes() {
		objects = append(objects, strokeObjects(s)...)
	}
	if pos := r.canvas.cursor; pos != nil {
		w := float32(state.StyleFor(state.ToolEraser).Width)
		ring := canvas.NewCircle(color.Transparent)
		ring.StrokeColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
		ring.StrokeWidth = 1
		ring.Resize(fyne.NewSize(2*w, 2*w))
		ring.Move(fyne.NewPos(pos.X-w, pos.Y-w))
		objects = append(objects, ring)
	}
	r.objects = objects
}

func strokeObjects(s state.Stroke) []fyne.CanvasObject {
	st := s.Style()
	switch s := s.(type) {
	case *state.PathStroke:
		pts := s.Points()
		if len(pts) == 1 {
			w := float32(st.Width)
			dot := canvas.NewCircle(st.Color)
			dot.Resize(fyne.NewSize(w, w))
			dot.Move(fyne.NewPos(float32(pts[0].X)-w/2, float32(pts[0].Y)-w/2))
			return []fyne.CanvasObject{dot}
		}
		objects := make([]fyne.CanvasObject, 0, len(pts)-1)
		for i := 1; i < len(pts); i++ {
			segment := canvas.NewLine(st.Color)
			segment.StrokeWidth = float32(st.Width)
			segment.Position1 = fyne.NewPos(float32(pts[i-1].X), float32(pts[i-1].Y))
			segment.Position2 = fyne.NewPos(float32(pts[i].X), float32(pts[i].Y))
			objects = append(objects, segment)
		}
		return objects
	case *state.TextStroke:
		text := canvas.NewText(s.Text(), st.Color)
		text.TextSize = float32(st.FontSize)
		at := s.At()
		text.Move(fyne.NewPos(float32(at.X), float32(at.Y-st.FontSize)))
		text.Resize(fyne.NewSize(float32(s.Width()), float32(st.FontSize)))
		return []fyne.CanvasObject{text}
	}
	return nil
}

func (r *annotationRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *annotationRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.canvas)
}

func (r *annotationRenderer) Layout(size fyne.Size) { r.background.Resize(size) }
func (r *annotationRenderer) MinSize() fyne.Size    { return fyne.NewSize(300, 300) }
func (r *annotationRenderer) Destroy()              {}
