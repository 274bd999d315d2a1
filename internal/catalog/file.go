package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"echoes/internal/gallery"
)

// itemRecord is the on-disk and on-wire shape of a media item.
type itemRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	URL          string   `json:"url,omitempty"`
	Type         string   `json:"type,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	AspectRatio  float64  `json:"aspect_ratio,omitempty"`
	Year         int      `json:"year,omitempty"`
	Musician     string   `json:"musician,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

func (r itemRecord) toItem() gallery.MediaItem {
	it := gallery.MediaItem{
		ID:           r.ID,
		Title:        r.Title,
		URL:          r.URL,
		Type:         r.Type,
		Category:     r.Category,
		Tags:         r.Tags,
		AspectRatio:  r.AspectRatio,
		Year:         r.Year,
		Musician:     r.Musician,
		ThumbnailURL: r.ThumbnailURL,
	}
	if r.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			it.CreatedAt = t
		}
	}
	return it
}

func recordFrom(it gallery.MediaItem) itemRecord {
	r := itemRecord{
		ID:           it.ID,
		Title:        it.Title,
		URL:          it.URL,
		Type:         it.Type,
		Category:     it.Category,
		Tags:         it.Tags,
		AspectRatio:  it.AspectRatio,
		Year:         it.Year,
		Musician:     it.Musician,
		ThumbnailURL: it.ThumbnailURL,
	}
	if !it.CreatedAt.IsZero() {
		r.CreatedAt = it.CreatedAt.UTC().Format(time.RFC3339)
	}
	return r
}

// FileProvider reads the catalog from a JSON array on disk.
type FileProvider struct {
	path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Items(ctx context.Context) ([]gallery.MediaItem, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var records []itemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", p.path, err)
	}
	items := make([]gallery.MediaItem, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("parse catalog %s: item without id", p.path)
		}
		items = append(items, r.toItem())
	}
	return items, nil
}
