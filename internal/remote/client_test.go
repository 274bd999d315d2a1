package remote

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echoes/internal/gallery"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestViewerFeedbackReachesController(t *testing.T) {
	frames := make(chan []byte, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames <- data
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	viewer, err := DialRelay(url, discardLogger())
	require.NoError(t, err)
	defer viewer.Close()

	scene := gallery.NewScene(1, 0, nil)
	scene.SetItems([]gallery.MediaItem{
		{ID: "i1", Title: "Song", Musician: "X", Type: "image"},
		{ID: "a1", Title: "Song", Musician: "X", Type: "audio", URL: "https://cdn.example/song.mp3"},
	})
	viewer.BindScene(scene)

	// Focusing derives the related playlist and mirrors it out.
	scene.SelectItem("i1")
	var playlist Feedback
	require.NoError(t, json.Unmarshal(recvOrTimeout(t, frames), &playlist))
	assert.Equal(t, TypePlaylist, playlist.Type)
	assert.Equal(t, []string{"Song"}, playlist.Titles)

	// Retiring the pointer reports the hover going away.
	scene.PointerHide()
	var hover Feedback
	require.NoError(t, json.Unmarshal(recvOrTimeout(t, frames), &hover))
	assert.Equal(t, TypeHoverFeedback, hover.Type)
	assert.Equal(t, "", hover.ItemID)
}
