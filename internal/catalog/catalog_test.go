package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echoes/internal/gallery"
)

func TestFileProviderReadsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `[
        {"id": "a", "title": "Song Title", "url": "https://cdn.example/a.jpg",
         "type": "image", "category": "art", "tags": ["cover"],
         "musician": "Artist", "created_at": "2024-03-01T12:00:00Z"},
        {"id": "b", "title": "Live Take", "url": "https://cdn.example/b.mp3",
         "type": "audio", "musician": "Artist"}
    ]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	items, err := NewFileProvider(path).Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "Song Title", items[0].Title)
	assert.Equal(t, []string{"cover"}, items[0].Tags)
	assert.Equal(t, 2024, items[0].CreatedAt.Year())
	assert.True(t, items[1].IsAudio())
}

func TestFileProviderRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title": "no id"}]`), 0o644))

	_, err := NewFileProvider(path).Items(context.Background())
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, gallery.MediaItem{
		ID:          "x",
		Title:       "Harbor Lights",
		URL:         "https://cdn.example/x.jpg",
		Type:        "image",
		Category:    "photo",
		Tags:        []string{"night", "city"},
		AspectRatio: 1.5,
		Musician:    "Artist",
		CreatedAt:   created,
	}))

	items, err := store.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Harbor Lights", items[0].Title)
	assert.Equal(t, []string{"night", "city"}, items[0].Tags)
	assert.Equal(t, 1.5, items[0].AspectRatio)
	assert.True(t, items[0].CreatedAt.Equal(created))

	// Upsert with the same id replaces.
	require.NoError(t, store.Upsert(ctx, gallery.MediaItem{ID: "x", Title: "Harbor Lights II"}))
	items, err = store.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Harbor Lights II", items[0].Title)

	require.NoError(t, store.Delete(ctx, "x"))
	items, err = store.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStoreImportFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `[
        {"id": "a", "title": "One"},
        {"id": "b", "title": "Two"}
    ]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	n, err := store.Import(context.Background(), NewFileProvider(path))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, err := store.Items(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
