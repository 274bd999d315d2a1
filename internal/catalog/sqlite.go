package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"echoes/internal/gallery"
)

const schema = `
CREATE TABLE IF NOT EXISTS media_items (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL DEFAULT '',
    url           TEXT NOT NULL DEFAULT '',
    type          TEXT NOT NULL DEFAULT '',
    category      TEXT NOT NULL DEFAULT '',
    tags          TEXT NOT NULL DEFAULT '[]',
    aspect_ratio  REAL NOT NULL DEFAULT 0,
    year          INTEGER NOT NULL DEFAULT 0,
    musician      TEXT NOT NULL DEFAULT '',
    thumbnail_url TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_media_items_category ON media_items(category);
CREATE INDEX IF NOT EXISTS idx_media_items_musician ON media_items(musician);
`

// Store persists the catalog in SQLite.
type Store struct {
	db *sql.DB
}

// Open connects to (or creates) the catalog database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Items loads the whole catalog ordered by creation time, newest first.
func (s *Store) Items(ctx context.Context) ([]gallery.MediaItem, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, title, url, type, category, tags,
               aspect_ratio, year, musician, thumbnail_url, created_at
        FROM media_items
        ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query media items: %w", err)
	}
	defer rows.Close()

	var items []gallery.MediaItem
	for rows.Next() {
		var it gallery.MediaItem
		var tags, createdAt string
		if err := rows.Scan(
			&it.ID, &it.Title, &it.URL, &it.Type, &it.Category, &tags,
			&it.AspectRatio, &it.Year, &it.Musician, &it.ThumbnailURL, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan media item: %w", err)
		}
		if tags != "" && tags != "[]" {
			if err := json.Unmarshal([]byte(tags), &it.Tags); err != nil {
				return nil, fmt.Errorf("parse tags for %s: %w", it.ID, err)
			}
		}
		if createdAt != "" {
			if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
				it.CreatedAt = t
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Upsert inserts or replaces one item.
func (s *Store) Upsert(ctx context.Context, it gallery.MediaItem) error {
	if it.ID == "" {
		return fmt.Errorf("upsert media item: empty id")
	}
	tags := "[]"
	if len(it.Tags) > 0 {
		b, err := json.Marshal(it.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for %s: %w", it.ID, err)
		}
		tags = string(b)
	}
	createdAt := ""
	if !it.CreatedAt.IsZero() {
		createdAt = it.CreatedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO media_items (
            id, title, url, type, category, tags,
            aspect_ratio, year, musician, thumbnail_url, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            url = excluded.url,
            type = excluded.type,
            category = excluded.category,
            tags = excluded.tags,
            aspect_ratio = excluded.aspect_ratio,
            year = excluded.year,
            musician = excluded.musician,
            thumbnail_url = excluded.thumbnail_url,
            created_at = excluded.created_at`,
		it.ID, it.Title, it.URL, it.Type, it.Category, tags,
		it.AspectRatio, it.Year, it.Musician, it.ThumbnailURL, createdAt,
	)
	if err != nil {
		return fmt.Errorf("upsert media item %s: %w", it.ID, err)
	}
	return nil
}

// Delete removes one item; deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete media item %s: %w", id, err)
	}
	return nil
}

// Import loads a JSON catalog file into the store.
func (s *Store) Import(ctx context.Context, provider Provider) (int, error) {
	items, err := provider.Items(ctx)
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if err := s.Upsert(ctx, it); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}
