package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvOrTimeout(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestHubBroadcastSkipsSender(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	controller := &Client{ID: "controller", Session: "room", Send: make(chan []byte, 4)}
	viewer := &Client{ID: "viewer", Session: "room", Send: make(chan []byte, 4)}
	other := &Client{ID: "other", Session: "elsewhere", Send: make(chan []byte, 4)}
	hub.Register <- controller
	hub.Register <- viewer
	hub.Register <- other

	hub.Broadcast <- BroadcastMessage{Session: "room", Sender: "controller", Data: []byte("hello")}

	assert.Equal(t, []byte("hello"), recvOrTimeout(t, viewer.Send))
	select {
	case <-controller.Send:
		t.Fatal("sender received its own frame")
	case <-other.Send:
		t.Fatal("frame crossed sessions")
	case <-time.After(50 * time.Millisecond):
	}
}

// registerAndWait registers a client and blocks until the hub goroutine has
// inserted it, so direct Deliver calls afterwards see the full room.
func registerAndWait(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	hub.Register <- c
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		ok := hub.Clients[c.Session][c]
		hub.mu.RUnlock()
		if ok {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("client never registered")
}

func TestHubDeliverReachesEveryone(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{ID: "a", Session: "room", Send: make(chan []byte, 4)}
	b := &Client{ID: "b", Session: "room", Send: make(chan []byte, 4)}
	registerAndWait(t, hub, a)
	registerAndWait(t, hub, b)

	// Frames from the bus have no local sender.
	hub.Deliver("room", []byte("bus"))
	assert.Equal(t, []byte("bus"), recvOrTimeout(t, a.Send))
	assert.Equal(t, []byte("bus"), recvOrTimeout(t, b.Send))
}

func TestHubPublishMirror(t *testing.T) {
	hub := NewHub()
	published := make(chan []byte, 1)
	hub.Publish = func(session string, data []byte) {
		require.Equal(t, "room", session)
		published <- data
	}
	go hub.Run()

	hub.Broadcast <- BroadcastMessage{Session: "room", Sender: "x", Data: []byte("frame")}
	assert.Equal(t, []byte("frame"), recvOrTimeout(t, published))
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{ID: "c", Session: "room", Send: make(chan []byte, 4)}
	hub.Register <- c
	hub.Unregister <- c

	select {
	case _, open := <-c.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}
