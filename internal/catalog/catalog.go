// Package catalog loads the media items the gallery arranges. Items come
// either from a local JSON file or from a SQLite database, behind a common
// Provider interface so the viewer does not care which.
package catalog

import (
	"context"

	"echoes/internal/gallery"
)

// Provider yields the full media catalog.
type Provider interface {
	Items(ctx context.Context) ([]gallery.MediaItem, error)
}
