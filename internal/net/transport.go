package net

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"ScoreViewer/internal/export"
	"ScoreViewer/internal/state"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sanity-io/litter"
)

// InputPath is where remote input devices connect.
const InputPath = "/input"

// EventType names a remote input event.
type EventType string

const (
	EventDown     EventType = "down"
	EventMove     EventType = "move"
	EventUp       EventType = "up"
	EventText     EventType = "text"
	EventTool     EventType = "tool"
	EventPage     EventType = "page"
	EventUndo     EventType = "undo"
	EventRedo     EventType = "redo"
	EventSnapshot EventType = "snapshot"
)

// Event is one input event sent by a remote device.
type Event struct {
	Type EventType `json:"type"`
	X    float64   `json:"x,omitempty"`
	Y    float64   `json:"y,omitempty"`
	Text string    `json:"text,omitempty"`
	Tool string    `json:"tool,omitempty"`
	Page int       `json:"page,omitempty"`
}

// Reply describes the board after an event. It is broadcast to every
// connected device.
type Reply struct {
	Type    string `json:"type"`
	Handled bool   `json:"handled"`
	Page    int    `json:"page"`
	Tool    string `json:"tool"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`

	// Strokes of the active page, filled in for snapshot requests. They are
	// copies, safe to read after the dispatcher returns.
	Strokes []state.Stroke `json:"-"`
}

// Dispatcher applies an event to the board. The hub calls it from
// connection goroutines; implementations must hop to the goroutine that owns
// the board.
type Dispatcher func(Event) Reply

// Apply runs ev against b directly. It is the body of a Dispatcher.
func Apply(b *state.Board, ev Event) Reply {
	handled := false
	switch ev.Type {
	case EventDown:
		handled = b.Down(ev.X, ev.Y)
	case EventMove:
		handled = b.Move(ev.X, ev.Y)
	case EventUp:
		handled = b.Up(ev.X, ev.Y)
	case EventText:
		b.AddText(ev.Text, ev.X, ev.Y)
		handled = true
	case EventTool:
		b.SetTool(state.ParseTool(ev.Tool))
		handled = true
	case EventPage:
		handled = b.SetPage(ev.Page) == nil
	case EventUndo:
		handled = b.Undo()
	case EventRedo:
		handled = b.Redo()
	case EventSnapshot:
		handled = true
	}
	r := Describe(b, handled)
	if ev.Type == EventSnapshot {
		r.Strokes = b.DetachedStrokes()
	}
	return r
}

// Describe reports the current state of b.
func Describe(b *state.Board, handled bool) Reply {
	return Reply{
		Type:    "state",
		Handled: handled,
		Page:    b.Page(),
		Tool:    b.Tool().String(),
		CanUndo: b.CanUndo(),
		CanRedo: b.CanRedo(),
	}
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // serialises writes
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// Hub accepts remote input devices and relays their events to the board.
type Hub struct {
	dispatch  Dispatcher
	sheet     export.Size
	clients   mapset.Set[*client]
	upgrader  websocket.Upgrader
	OnConnect func(id string)
}

// NewHub returns a hub that hands events to dispatch. Snapshot sheets are
// rendered at sheet size.
func NewHub(dispatch Dispatcher, sheet export.Size) *Hub {
	return &Hub{
		dispatch: dispatch,
		sheet:    sheet,
		clients:  mapset.NewSet[*client](),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Clients returns the number of connected devices.
func (h *Hub) Clients() int { return h.clients.Cardinality() }

// ServeHTTP upgrades the request and serves the device until it hangs up.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HUB] upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	c := &client{id: uuid.NewString(), conn: conn}
	h.clients.Add(c)
	log.Printf("[HUB] device %s connected from %s", c.id, r.RemoteAddr)
	if h.OnConnect != nil {
		h.OnConnect(c.id)
	}
	defer func() {
		h.clients.Remove(c)
		conn.Close()
		log.Printf("[HUB] device %s disconnected", c.id)
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[HUB] read from %s: %v", c.id, err)
			}
			return
		}
		h.handle(c, ev)
	}
}

func (h *Hub) handle(from *client, ev Event) {
	switch ev.Type {
	case EventDown, EventMove, EventUp, EventText, EventTool, EventPage, EventUndo, EventRedo, EventSnapshot:
	default:
		log.Printf("[HUB] ignoring event from %s: %s", from.id, litter.Sdump(ev))
		return
	}

	reply := h.dispatch(ev)
	if ev.Type == EventSnapshot {
		buf := &bytes.Buffer{}
		if err := export.WritePage(buf, reply.Strokes, h.sheet); err != nil {
			log.Printf("[HUB] snapshot for %s: %v", from.id, err)
			return
		}
		if err := from.write(websocket.BinaryMessage, buf.Bytes()); err != nil {
			log.Printf("[HUB] send snapshot to %s: %v", from.id, err)
		}
		return
	}
	h.Broadcast(reply)
}

// Broadcast sends r to every connected device.
func (h *Hub) Broadcast(r Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Printf("[HUB] encode reply: %v", err)
		return
	}
	for _, c := range h.clients.ToSlice() {
		if err := c.write(websocket.TextMessage, data); err != nil {
			log.Printf("[HUB] send to %s: %v", c.id, err)
		}
	}
}
