// Package remote carries controller input to the viewer. A phone or second
// screen connects to the relay and drives the gallery's cursor, camera and
// arrangement; the viewer sends hover and playlist feedback back so the
// controller can mirror what the operator sees.
package remote

import (
	"encoding/json"
	"fmt"

	"echoes/internal/gallery"
)

// Message types, controller to viewer.
const (
	TypePointerMove = "pointermove"
	TypePointerDown = "pointerdown"
	TypePointerUp   = "pointerup"
	TypePointerHide = "pointerhide"
	TypeClick       = "click"
	TypeCamera      = "cameraCommand"
	TypeApp         = "appCommand"
)

// Camera commands.
const (
	CmdOrbit    = "orbit"
	CmdPan      = "pan"
	CmdDollyIn  = "dollyIn"
	CmdDollyOut = "dollyOut"
)

// App commands.
const (
	CmdSetLayout       = "setLayout"
	CmdSetSeed         = "setSeed"
	CmdSetNoise        = "setNoise"
	CmdSetZoom         = "setZoom"
	CmdSetTheme        = "setTheme"
	CmdSetViewMode     = "setViewMode"
	CmdSetCategories   = "setCategories"
	CmdSetPreset       = "setCameraPreset"
	CmdSelectItem      = "selectItem"
	CmdClearFocus      = "clearFocus"
	CmdPlaylistPlaying = "playlistPlaying"
)

// Message is one control event on the wire.
type Message struct {
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Command string  `json:"command,omitempty"`
	DX      float64 `json:"dx,omitempty"`
	DY      float64 `json:"dy,omitempty"`
	Value   float64 `json:"value,omitempty"`

	// Name carries layout, preset, theme, view-mode and item identifiers.
	Name  string   `json:"name,omitempty"`
	Names []string `json:"names,omitempty"`
}

// Feedback types, viewer to controller.
const (
	TypeHoverFeedback = "hoverFeedback"
	TypePlaylist      = "playlist"
)

// Feedback flows viewer to controller.
type Feedback struct {
	Type   string   `json:"type"`
	ItemID string   `json:"itemId,omitempty"`
	Titles []string `json:"titles,omitempty"`
}

// Decode parses one wire frame.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode control message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("decode control message: missing type")
	}
	return m, nil
}

// Thunk translates a message into a scene mutation to be applied on the frame
// thread. Unknown messages and commands translate to a no-op rather than an
// error; the controller may be newer than the viewer.
func Thunk(m Message) func(*gallery.Scene) {
	switch m.Type {
	case TypePointerMove, TypePointerDown:
		return func(s *gallery.Scene) { s.PointerMove(m.X, m.Y) }
	case TypePointerUp, TypePointerHide:
		return func(s *gallery.Scene) { s.PointerHide() }
	case TypeClick:
		return func(s *gallery.Scene) { s.PointerClick() }
	case TypeCamera:
		return cameraThunk(m)
	case TypeApp:
		return appThunk(m)
	}
	return func(*gallery.Scene) {}
}

func cameraThunk(m Message) func(*gallery.Scene) {
	switch m.Command {
	case CmdOrbit:
		return func(s *gallery.Scene) { s.Orbit(m.DX, m.DY) }
	case CmdPan:
		return func(s *gallery.Scene) { s.Pan(m.DX, m.DY) }
	case CmdDollyIn:
		return func(s *gallery.Scene) { s.Dolly(m.Value) }
	case CmdDollyOut:
		return func(s *gallery.Scene) { s.Dolly(-m.Value) }
	}
	return func(*gallery.Scene) {}
}

func appThunk(m Message) func(*gallery.Scene) {
	switch m.Command {
	case CmdSetLayout:
		kind, err := gallery.ParseLayoutKind(m.Name)
		if err != nil {
			return func(*gallery.Scene) {}
		}
		return func(s *gallery.Scene) { s.SetLayout(kind) }
	case CmdSetSeed:
		return func(s *gallery.Scene) { s.SetSeed(m.Value) }
	case CmdSetNoise:
		return func(s *gallery.Scene) { s.SetNoise(m.Value) }
	case CmdSetZoom:
		return func(s *gallery.Scene) { s.SetZoom(m.Value) }
	case CmdSetTheme:
		return func(s *gallery.Scene) { s.SetTheme(m.Name) }
	case CmdSetViewMode:
		mode := gallery.ViewNormal
		if m.Name == "connections" {
			mode = gallery.ViewConnections
		}
		return func(s *gallery.Scene) { s.SetViewMode(mode) }
	case CmdSetCategories:
		return func(s *gallery.Scene) { s.SetCategories(m.Names) }
	case CmdSetPreset:
		preset, err := gallery.ParseCameraPreset(m.Name)
		if err != nil {
			return func(*gallery.Scene) {}
		}
		return func(s *gallery.Scene) { s.SetCameraPreset(preset) }
	case CmdSelectItem:
		return func(s *gallery.Scene) { s.SelectItem(m.Name) }
	case CmdClearFocus:
		return func(s *gallery.Scene) { s.ClearFocus() }
	case CmdPlaylistPlaying:
		return func(s *gallery.Scene) { s.SetPlaylistPlaying(m.Value != 0) }
	}
	return func(*gallery.Scene) {}
}
