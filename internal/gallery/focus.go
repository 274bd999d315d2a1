package gallery

import "sort"

// FocusState is the explicit focus record. Selecting the focused item again
// releases it; selecting another item moves focus directly.
type FocusState struct {
	focusedID string
}

// Select toggles focus on id and reports whether anything is focused after.
func (f *FocusState) Select(id string) bool {
	if f.focusedID == id {
		f.focusedID = ""
	} else {
		f.focusedID = id
	}
	return f.focusedID != ""
}

func (f *FocusState) Clear()            { f.focusedID = "" }
func (f *FocusState) FocusedID() string { return f.focusedID }
func (f *FocusState) Focused() bool     { return f.focusedID != "" }

// FocusSets partitions the working set around the focused item. Primary holds
// other renditions of the focused work by the same musician, Secondary the
// musician's other works, Far everything else. The three sets plus the
// focused item always cover the working set exactly once.
type FocusSets struct {
	Primary   map[string]bool
	Secondary map[string]bool
	Far       map[string]bool
}

// Class returns the animation rate class for id under these sets.
func (s FocusSets) Class(id string, focusedID string) RateClass {
	switch {
	case id == focusedID:
		return RateFocused
	case s.Primary[id]:
		return RatePrimary
	case s.Secondary[id]:
		return RateSecondary
	case s.Far[id]:
		return RateFar
	default:
		return RateDefault
	}
}

// DeriveFocusSets classifies every working-set item relative to the focused
// one. Items without a musician match, or when the focused item has no
// musician at all, land in Far.
func DeriveFocusSets(focused MediaItem, items []MediaItem) FocusSets {
	sets := FocusSets{
		Primary:   map[string]bool{},
		Secondary: map[string]bool{},
		Far:       map[string]bool{},
	}
	for _, it := range items {
		if it.ID == focused.ID {
			continue
		}
		if focused.Musician != "" && it.Musician == focused.Musician {
			if AreTitlesSimilar(it.Title, focused.Title) {
				sets.Primary[it.ID] = true
			} else {
				sets.Secondary[it.ID] = true
			}
			continue
		}
		sets.Far[it.ID] = true
	}
	return sets
}

// RelatedPlaylist derives the audio playlist for a focused item: audio assets
// by the same musician whose title names the same work, ordered by title.
// An empty musician derives an empty playlist.
func RelatedPlaylist(focused MediaItem, catalog []MediaItem) []MediaItem {
	if focused.Musician == "" {
		return nil
	}
	var out []MediaItem
	for _, it := range catalog {
		if !it.IsAudio() || it.Musician != focused.Musician {
			continue
		}
		if AreTitlesSimilar(it.Title, focused.Title) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
