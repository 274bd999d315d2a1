package remote

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"echoes/internal/gallery"
)

// Viewer is the gallery's end of a relay session: it receives control
// messages as scene thunks and sends feedback frames back.
type Viewer struct {
	conn *websocket.Conn
	log  *slog.Logger

	events chan func(*gallery.Scene)

	writeMu sync.Mutex
	closed  chan struct{}
	once    sync.Once
}

// DialRelay joins a relay session, e.g. ws://host:port/ws/session/living-room.
func DialRelay(url string, log *slog.Logger) (*Viewer, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", url, err)
	}
	v := &Viewer{
		conn:   conn,
		log:    log,
		events: make(chan func(*gallery.Scene), 256),
		closed: make(chan struct{}),
	}
	go v.readLoop()
	go v.pingLoop()
	return v, nil
}

// Events is drained by the frame loop.
func (v *Viewer) Events() <-chan func(*gallery.Scene) { return v.events }

// BindScene attaches the feedback callbacks: hover changes and derived
// playlists are mirrored to the controller side of the session.
func (v *Viewer) BindScene(s *gallery.Scene) {
	s.OnHover = func(id string) {
		v.SendFeedback(Feedback{Type: TypeHoverFeedback, ItemID: id})
	}
	s.OnPlaylist = func(items []gallery.MediaItem) {
		titles := make([]string, len(items))
		for i, it := range items {
			titles[i] = it.Title
		}
		v.SendFeedback(Feedback{Type: TypePlaylist, Titles: titles})
	}
}

// SendFeedback pushes one feedback frame to the controller side.
func (v *Viewer) SendFeedback(f Feedback) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := v.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		v.log.Warn("feedback send failed", "error", err)
	}
}

func (v *Viewer) Close() {
	v.once.Do(func() {
		close(v.closed)
		v.conn.Close()
	})
}

func (v *Viewer) readLoop() {
	defer v.Close()
	v.conn.SetReadLimit(maxMessageSize)
	v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := Decode(data)
		if err != nil {
			v.log.Debug("bad control frame", "error", err)
			continue
		}
		select {
		case v.events <- Thunk(msg):
		default:
			// Control backlog; pointer streams tolerate dropped frames.
		}
	}
}

func (v *Viewer) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			v.writeMu.Lock()
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := v.conn.WriteMessage(websocket.PingMessage, nil)
			v.writeMu.Unlock()
			if err != nil {
				v.Close()
				return
			}
		case <-v.closed:
			return
		}
	}
}
