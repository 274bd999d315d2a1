package gallery

import (
	"strings"
	"time"
)

// MediaItem is one catalog asset. Only ID is required; every consumer of the
// optional fields tolerates the zero value.
type MediaItem struct {
	ID           string
	Title        string
	URL          string
	Type         string // "image", "video" or "audio"
	Category     string
	Tags         []string
	AspectRatio  float64
	Year         int
	Musician     string
	ThumbnailURL string
	CreatedAt    time.Time
}

var audioExtensions = map[string]bool{
	"mp3": true, "wav": true, "ogg": true, "m4a": true, "flac": true, "aac": true,
}

// IsAudio reports whether the item is an audio asset, either by declared type
// or by url extension.
func (m MediaItem) IsAudio() bool {
	if strings.EqualFold(m.Type, "audio") {
		return true
	}
	if m.URL == "" {
		return false
	}
	u := m.URL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.LastIndexByte(u, '.'); i >= 0 {
		return audioExtensions[strings.ToLower(u[i+1:])]
	}
	return false
}

// DisplayAspect returns the width/height ratio to render the item at:
// the declared ratio when present, 16:9 for videos, square otherwise.
func (m MediaItem) DisplayAspect() float64 {
	if m.AspectRatio > 0 {
		return m.AspectRatio
	}
	if strings.EqualFold(m.Type, "video") {
		return 16.0 / 9.0
	}
	return 1.0
}

// HasSecureURL reports whether the item may be fetched for ambient playback.
// Catalog assets come off an https CDN; file urls cover local installs.
func (m MediaItem) HasSecureURL() bool {
	return strings.HasPrefix(m.URL, "https://") || strings.HasPrefix(m.URL, "file://")
}

// VisualWorkingSet filters the catalog down to the items the scene places:
// audio assets are excluded, and when any categories are active only items
// in an active category pass. An empty category set passes everything.
func VisualWorkingSet(items []MediaItem, activeCategories map[string]bool) []MediaItem {
	out := make([]MediaItem, 0, len(items))
	for _, it := range items {
		if it.IsAudio() {
			continue
		}
		if len(activeCategories) > 0 && !activeCategories[it.Category] {
			continue
		}
		out = append(out, it)
	}
	return out
}

// VisualCategories lists the distinct categories of the non-audio items, in
// first-seen order.
func VisualCategories(items []MediaItem) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if it.IsAudio() || it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	return out
}
