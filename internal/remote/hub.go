package remote

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection in a session room.
type Client struct {
	ID      string
	Session string
	Send    chan []byte
	Conn    *websocket.Conn
}

// BroadcastMessage fans data out to every client in a session except the
// sender.
type BroadcastMessage struct {
	Session string
	Sender  string
	Data    []byte
}

// Hub pairs controllers and viewers per session and relays frames between
// them without inspecting the payload.
type Hub struct {
	Clients    map[string]map[*Client]bool // session -> clients
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan BroadcastMessage

	// Publish, when set, mirrors every broadcast to an external bus so
	// relays can be scaled out.
	Publish func(session string, data []byte)

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan BroadcastMessage),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.Clients[client.Session] == nil {
				h.Clients[client.Session] = make(map[*Client]bool)
			}
			h.Clients[client.Session][client] = true
			h.mu.Unlock()
		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.Clients[client.Session]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.Clients, client.Session)
					}
				}
			}
			h.mu.Unlock()
		case msg := <-h.Broadcast:
			h.deliver(msg)
			if h.Publish != nil {
				h.Publish(msg.Session, msg.Data)
			}
		}
	}
}

// Deliver fans a frame out locally without republishing; the bus bridge uses
// it for frames that arrived from another relay.
func (h *Hub) Deliver(session string, data []byte) {
	h.deliver(BroadcastMessage{Session: session, Data: data})
}

func (h *Hub) deliver(msg BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.Clients[msg.Session] {
		if client.ID == msg.Sender {
			continue
		}
		select {
		case client.Send <- msg.Data:
		default:
			// Slow consumer; drop the frame rather than the session.
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the relay's HTTP surface.
type Server struct {
	hub *Hub
	log *slog.Logger
}

func NewServer(hub *Hub, log *slog.Logger) *Server {
	return &Server{hub: hub, log: log}
}

// Router mounts the session endpoint.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws/session/{session}", s.serveWS)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return r
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]
	if session == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		ID:      uuid.NewString(),
		Session: session,
		Send:    make(chan []byte, 64),
		Conn:    conn,
	}
	s.hub.Register <- client
	s.log.Info("client joined", "session", session, "client", client.ID)

	go s.writePump(client)
	go s.readPump(client)
}

func (s *Server) readPump(c *Client) {
	defer func() {
		s.hub.Unregister <- c
		c.Conn.Close()
		s.log.Info("client left", "session", c.Session, "client", c.ID)
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		s.hub.Broadcast <- BroadcastMessage{Session: c.Session, Sender: c.ID, Data: data}
	}
}

func (s *Server) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
