package ui

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"ScoreViewer/internal/document"
	"ScoreViewer/internal/net"
	"ScoreViewer/internal/playback"
	"ScoreViewer/internal/prefs"
	"ScoreViewer/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Options describes what the viewer opens with. Every field may be left
// empty.
type Options struct {
	Score        *document.Score
	MidiPath     string
	MidiDuration time.Duration
	Prefs        *prefs.Store
	Status       string
}

// Viewer is the main window: the score page, its annotation overlay, the
// tool bar and, when a MIDI file is loaded, the playback bar.
type Viewer struct {
	opts      Options
	window    fyne.Window
	board     *state.Board
	canvas    *AnnotationCanvas
	tools     *ToolPicker
	player    *playback.Player
	pageCount int

	pageLabel *widget.Label
	pageText  *canvas.Text
	undoBtn   *widget.Button
	redoBtn   *widget.Button
	statusBar *widget.Label

	slider      *widget.Slider
	timeLabel   *widget.Label
	sliderMoved bool // slider value set by playback, not the user

	// confirm asks a yes/no question and reports the answer to done.
	confirm func(title, message string, done func(bool))

	// OnChanged is called on the UI goroutine after the board changed.
	OnChanged func(net.Reply)
}

// NewViewer builds the main window of app.
func NewViewer(app fyne.App, opts Options) *Viewer {
	v := &Viewer{
		opts:      opts,
		window:    app.NewWindow("Score Viewer"),
		board:     state.NewBoard(MeasureText),
		pageCount: 1,
		statusBar: widget.NewLabel(opts.Status),
		pageLabel: widget.NewLabel(""),
	}
	v.confirm = func(title, message string, done func(bool)) {
		dialog.ShowConfirm(title, message, done, v.window)
	}
	if opts.Score != nil && opts.Score.Pages() > 0 {
		v.pageCount = opts.Score.Pages()
	}
	v.window.Resize(fyne.NewSize(1024, 768))

	v.canvas = NewAnnotationCanvas(v.board)
	v.canvas.OnSwipe = func(delta int) { v.SetPage(v.board.Page() + delta) }
	v.canvas.OnChanged = v.changed
	v.board.OnTextTap = v.askText
	v.tools = NewToolPicker(v.board.SetTool)

	v.undoBtn = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { v.undoOrRedo(true) })
	v.redoBtn = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { v.undoOrRedo(false) })
	prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { v.SetPage(v.board.Page() - 1) })
	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { v.SetPage(v.board.Page() + 1) })

	toolbar := container.NewHBox(
		widget.NewLabel("Tool:"),
		v.tools.Object(),
		widget.NewSeparator(),
		v.undoBtn,
		v.redoBtn,
		layout.NewSpacer(),
		prev,
		v.pageLabel,
		next,
	)

	v.pageText = canvas.NewText("", color.Gray{Y: 0xc0})
	v.pageText.TextSize = 64
	v.pageText.Alignment = fyne.TextAlignCenter
	page := container.NewStack(
		canvas.NewRectangle(color.White),
		container.NewCenter(v.pageText),
		v.canvas,
	)

	bottom := fyne.CanvasObject(v.statusBar)
	if opts.MidiDuration > 0 {
		bottom = container.NewVBox(v.playbackBar(), v.statusBar)
	}
	v.window.SetContent(container.NewBorder(toolbar, bottom, nil, nil, page))
	v.window.SetOnClosed(v.saveProgress)

	v.updatePage()
	v.updateHistoryButtons()
	return v
}

// Board returns the annotation surface. It must only be used on the UI
// goroutine.
func (v *Viewer) Board() *state.Board { return v.board }

// ShowAndRun shows the window, offers to resume the previous session and
// runs the event loop.
func (v *Viewer) ShowAndRun() {
	v.offerResume()
	v.window.ShowAndRun()
}

// Dispatch applies a remote event on the UI goroutine and waits for the
// result.
func (v *Viewer) Dispatch(ev net.Event) net.Reply {
	var r net.Reply
	fyne.DoAndWait(func() {
		if ev.Type == net.EventPage {
			ev.Page = v.clampPage(ev.Page)
		}
		r = net.Apply(v.board, ev)
		if ev.Type == net.EventTool {
			v.tools.Select(v.board.Tool())
		}
		v.updatePage()
		v.updateHistoryButtons()
		v.canvas.Refresh()
	})
	return r
}

// SetStatus shows text in the status bar. It may be called from any
// goroutine.
func (v *Viewer) SetStatus(text string) {
	fyne.Do(func() { v.statusBar.SetText(text) })
}

// SetPage shows page, clamped to the score.
func (v *Viewer) SetPage(page int) {
	page = v.clampPage(page)
	if page == v.board.Page() {
		return
	}
	if err := v.board.SetPage(page); err != nil {
		log.Printf("[UI] set page %d: %v", page, err)
		return
	}
	v.updatePage()
	v.canvas.Refresh()
	v.changed()
}

func (v *Viewer) clampPage(page int) int {
	if v.opts.Score == nil {
		return 0
	}
	return v.opts.Score.ClampPage(page)
}

func (v *Viewer) updatePage() {
	n := v.board.Page() + 1
	v.pageLabel.SetText(fmt.Sprintf("%d / %d", n, v.pageCount))
	v.pageText.Text = fmt.Sprintf("%d", n)
	v.pageText.Refresh()
}

func (v *Viewer) updateHistoryButtons() {
	setEnabled(v.undoBtn, v.board.CanUndo())
	setEnabled(v.redoBtn, v.board.CanRedo())
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (v *Viewer) changed() {
	v.updateHistoryButtons()
	if v.OnChanged != nil {
		v.OnChanged(net.Describe(v.board, true))
	}
}

// undoOrRedo reverts or reapplies the pending action. When it belongs to
// another page the user is asked first, and the page is switched before
// running it.
func (v *Viewer) undoOrRedo(undo bool) {
	peek, run := v.board.PeekRedo, v.board.Redo
	if undo {
		peek, run = v.board.PeekUndo, v.board.Undo
	}
	a, ok := peek()
	if !ok {
		return
	}
	apply := func() {
		if a.Page != v.board.Page() {
			v.SetPage(a.Page)
		}
		run()
		v.canvas.Refresh()
		v.changed()
	}
	if a.Page == v.board.Page() {
		apply()
		return
	}
	v.confirm("Notice",
		fmt.Sprintf("This annotation was made on page %d.", a.Page+1),
		func(ok bool) {
			if ok {
				apply()
			}
		})
}

func (v *Viewer) askText(x, y float64) {
	entry := widget.NewEntry()
	items := []*widget.FormItem{widget.NewFormItem("Text", entry)}
	dialog.ShowForm("Add text", "Add", "Cancel", items, func(ok bool) {
		if !ok || entry.Text == "" {
			return
		}
		v.board.AddText(entry.Text, x, y)
		v.canvas.Refresh()
		v.changed()
	}, v.window)
}

func (v *Viewer) playbackBar() fyne.CanvasObject {
	v.player = playback.NewPlayer()
	v.player.Load(v.opts.MidiDuration, v.pageCount)
	total := v.player.Total()

	v.timeLabel = widget.NewLabel(clockText(0, total))
	v.slider = widget.NewSlider(0, total.Seconds())
	v.slider.OnChanged = func(sec float64) {
		if v.sliderMoved {
			return
		}
		v.player.Seek(time.Duration(sec * float64(time.Second)))
	}
	v.player.OnUpdate = func(pos, total time.Duration, page int) {
		fyne.Do(func() {
			v.sliderMoved = true
			v.slider.SetValue(min(pos, total).Seconds())
			v.sliderMoved = false
			v.timeLabel.SetText(clockText(pos, total))
			v.SetPage(page)
		})
	}

	play := widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		v.player.Play(context.Background())
	})
	pause := widget.NewButtonWithIcon("", theme.MediaPauseIcon(), v.player.Pause)
	stop := widget.NewButtonWithIcon("", theme.MediaStopIcon(), func() {
		v.player.Stop()
		v.saveProgress()
	})
	rewind := widget.NewButtonWithIcon("", theme.MediaFastRewindIcon(), v.player.Rewind)
	forward := widget.NewButtonWithIcon("", theme.MediaFastForwardIcon(), v.player.Forward)

	buttons := container.NewHBox(rewind, play, pause, stop, forward, v.timeLabel)
	return container.NewBorder(nil, nil, buttons, nil, v.slider)
}

func clockText(pos, total time.Duration) string {
	return playback.FormatClock(pos) + " / " + playback.FormatClock(total)
}

func (v *Viewer) saveProgress() {
	if v.opts.Prefs == nil || v.player == nil || v.opts.Score == nil {
		return
	}
	st := prefs.State{
		Page:      v.board.Page(),
		Position:  v.player.Position(),
		ScorePath: v.opts.Score.Path,
		MidiPath:  v.opts.MidiPath,
	}
	if err := v.opts.Prefs.Save(context.Background(), st); err != nil {
		log.Printf("[PREFS] %v", err)
	}
}

func (v *Viewer) offerResume() {
	if v.opts.Prefs == nil || v.player == nil || v.opts.Score == nil {
		return
	}
	st, ok, err := v.opts.Prefs.Load(context.Background())
	if err != nil {
		log.Printf("[PREFS] %v", err)
		return
	}
	if !ok || !st.Resumable() || st.ScorePath != v.opts.Score.Path || st.MidiPath != v.opts.MidiPath {
		return
	}
	v.confirm("Restore session",
		fmt.Sprintf("Resume at page %d, %s?", st.Page+1, playback.FormatClock(st.Position)),
		func(ok bool) {
			if !ok {
				return
			}
			v.player.Seek(st.Position)
			v.SetPage(st.Page)
		})
}
