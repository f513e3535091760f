package ui

import (
	"bytes"
	"testing"

	"ScoreViewer/internal/document"
	"ScoreViewer/internal/net"
	"ScoreViewer/internal/state"

	"fyne.io/fyne/v2/test"
	"seehuhn.de/go/pdf"
	pdfdoc "seehuhn.de/go/pdf/document"
)

func newScore(t *testing.T, pages int) *document.Score {
	t.Helper()
	buf := &bytes.Buffer{}
	doc, err := pdfdoc.WriteMultiPage(buf, &pdf.Rectangle{URx: 595, URy: 842}, pdf.V1_7, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < pages; i++ {
		page := doc.AddPage()
		page.Rectangle(50, 50, 100, 20)
		page.Fill()
		if err := page.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if err := doc.Close(); err != nil {
		t.Fatal(err)
	}
	s, err := document.NewScore(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// answer replaces the confirm dialog with a fixed reply and counts questions.
func answer(v *Viewer, ok bool) *int {
	asked := 0
	v.confirm = func(_, _ string, done func(bool)) {
		asked++
		done(ok)
	}
	return &asked
}

func TestViewerUndoOnOtherPage(t *testing.T) {
	v := NewViewer(test.NewApp(), Options{Score: newScore(t, 2)})
	v.board.SetTool(state.ToolPen)
	v.canvas.MouseDown(press(10, 10))
	v.canvas.MouseUp(press(10, 10))
	v.SetPage(1)

	asked := answer(v, false)
	v.undoOrRedo(true)
	if *asked != 1 {
		t.Fatalf("asked %d times, want 1", *asked)
	}
	if v.board.Page() != 1 || len(v.board.StrokesOn(0)) != 1 {
		t.Fatal("declined undo changed the board")
	}

	asked = answer(v, true)
	v.undoOrRedo(true)
	if v.board.Page() != 0 {
		t.Errorf("page = %d after undo, want 0", v.board.Page())
	}
	if n := len(v.board.StrokesOn(0)); n != 0 {
		t.Errorf("%d strokes left on page 0", n)
	}
	if !v.board.CanRedo() || !v.undoBtn.Disabled() || v.redoBtn.Disabled() {
		t.Error("history buttons not updated")
	}

	// Redo on the same page needs no confirmation.
	v.undoOrRedo(false)
	if *asked != 1 || len(v.board.StrokesOn(0)) != 1 {
		t.Errorf("redo on the same page: asked %d, strokes %d", *asked, len(v.board.StrokesOn(0)))
	}
}

func TestViewerDispatchClampsPage(t *testing.T) {
	v := NewViewer(test.NewApp(), Options{Score: newScore(t, 2)})

	r := v.Dispatch(net.Event{Type: net.EventPage, Page: 99})
	if r.Page != 1 || v.board.Page() != 1 {
		t.Errorf("page = %d (reply %d), want 1", v.board.Page(), r.Page)
	}
	r = v.Dispatch(net.Event{Type: net.EventPage, Page: -3})
	if r.Page != 0 || !r.Handled {
		t.Errorf("reply %+v, want page 0", r)
	}

	v.Dispatch(net.Event{Type: net.EventTool, Tool: "eraser"})
	if v.tools.Current() != state.ToolEraser || v.board.Tool() != state.ToolEraser {
		t.Errorf("tool = %v, picker %v", v.board.Tool(), v.tools.Current())
	}
}

func TestViewerWithoutScore(t *testing.T) {
	v := NewViewer(test.NewApp(), Options{})
	v.SetPage(3)
	if v.board.Page() != 0 {
		t.Errorf("page = %d without a score, want 0", v.board.Page())
	}
}
