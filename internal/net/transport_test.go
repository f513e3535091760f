package net

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ScoreViewer/internal/export"
	"ScoreViewer/internal/state"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
)

// lockedBoard stands in for the UI goroutine owning the board.
type lockedBoard struct {
	mu sync.Mutex
	b  *state.Board
}

func (l *lockedBoard) dispatch(ev Event) Reply {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Apply(l.b, ev)
}

func startHub(t *testing.T) (*Hub, *lockedBoard, string) {
	t.Helper()
	lb := &lockedBoard{b: state.NewBoard(nil)}
	hub := NewHub(lb.dispatch, export.Size{Width: 200, Height: 200})
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + InputPath
	return hub, lb, url
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, ev Event) Reply {
	t.Helper()
	if err := conn.WriteJSON(ev); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var r Reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestHubDrawAndUndo(t *testing.T) {
	_, lb, url := startHub(t)
	conn := dial(t, url)

	r := send(t, conn, Event{Type: EventDown, X: 1, Y: 1})
	if r.Handled {
		t.Error("down handled with no tool selected")
	}

	send(t, conn, Event{Type: EventTool, Tool: "pen"})
	send(t, conn, Event{Type: EventDown, X: 1, Y: 1})
	send(t, conn, Event{Type: EventMove, X: 5, Y: 1})
	r = send(t, conn, Event{Type: EventUp, X: 5, Y: 1})
	want := Reply{Type: "state", Handled: true, Page: 0, Tool: "pen", CanUndo: true}
	if d := cmp.Diff(want, r); d != "" {
		t.Errorf("reply (-want +got):\n%s", d)
	}

	r = send(t, conn, Event{Type: EventUndo})
	if !r.Handled || r.CanUndo || !r.CanRedo {
		t.Errorf("undo reply %+v", r)
	}

	lb.mu.Lock()
	n := len(lb.b.Strokes())
	lb.mu.Unlock()
	if n != 0 {
		t.Errorf("%d strokes left after undo", n)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub, _, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("%d clients connected, want 2", hub.Clients())
		}
		time.Sleep(time.Millisecond)
	}

	send(t, a, Event{Type: EventPage, Page: 3})
	b.SetReadDeadline(time.Now().Add(5 * time.Second))
	var r Reply
	if err := b.ReadJSON(&r); err != nil {
		t.Fatal(err)
	}
	if r.Page != 3 || !r.Handled {
		t.Errorf("broadcast reply %+v", r)
	}
}

func TestHubSnapshot(t *testing.T) {
	_, lb, url := startHub(t)
	lb.mu.Lock()
	lb.b.AddText("dolce", 10, 50)
	lb.mu.Unlock()

	conn := dial(t, url)
	if err := conn.WriteJSON(Event{Type: EventSnapshot}); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.BinaryMessage || !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("snapshot kind %d, prefix %q", kind, data[:min(8, len(data))])
	}
}

func TestApplyText(t *testing.T) {
	b := state.NewBoard(nil)
	r := Apply(b, Event{Type: EventText, Text: "a tempo", X: 4, Y: 40})
	if !r.Handled || !r.CanUndo {
		t.Errorf("reply %+v", r)
	}
	r = Apply(b, Event{Type: EventPage, Page: -2})
	if r.Handled {
		t.Error("negative page accepted")
	}
}

func TestInputURL(t *testing.T) {
	if got := InputURL("10.0.0.7", 8888); got != "ws://10.0.0.7:8888/input" {
		t.Errorf("InputURL = %q", got)
	}
}

func TestHubSnapshotWhileDrawing(t *testing.T) {
	_, lb, url := startHub(t)
	lb.mu.Lock()
	lb.b.SetTool(state.ToolPen)
	lb.b.Down(0, 0)
	lb.mu.Unlock()

	done := make(chan struct{})
	drawing := make(chan struct{})
	go func() {
		defer close(drawing)
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			lb.mu.Lock()
			lb.b.Move(float64(i%200), float64(i%150))
			lb.mu.Unlock()
		}
	}()
	defer func() {
		close(done)
		<-drawing
	}()

	conn := dial(t, url)
	for i := 0; i < 20; i++ {
		if err := conn.WriteJSON(Event{Type: EventSnapshot}); err != nil {
			t.Fatal(err)
		}
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		if kind != websocket.BinaryMessage || !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Fatalf("snapshot %d: kind %d", i, kind)
		}
	}
}
