package gallery

import "sort"

// ViewMode selects the overlay drawn between items.
type ViewMode int

const (
	ViewNormal ViewMode = iota
	ViewConnections
)

// VideoQuality is the decode budget granted to a video item this frame.
type VideoQuality int

const (
	VideoOff VideoQuality = iota
	VideoReduced
	VideoFull
)

// RenderItem is one item resolved for drawing: world position, size and
// emphasis for this frame.
type RenderItem struct {
	Item    MediaItem
	Pos     Vec3
	Scale   float64 // multiplier on the base quad size
	Opacity float64 // percent
	W, H    float64 // world-space quad extents
	Focused bool
	Hovered bool
}

// Scene is the session context: it owns every subsystem, applies control
// events by recomputing explicit state, and advances everything from a
// single-threaded frame loop. All methods must be called from that loop.
type Scene struct {
	catalog  []MediaItem
	working  []MediaItem
	byID     map[string]MediaItem
	active   map[string]bool // category filter, empty means all
	layout   LayoutKind
	seed     float64
	noise    float64
	viewMode ViewMode
	theme    string

	focus    FocusState
	ringMem  *RingMemory
	animator *PositionAnimator
	gate     *VisibilityGate
	ambient  *AmbientOrchestrator
	rig      *CameraRig
	pointer  RemotePointer

	prevPreset      CameraPreset
	playlist        []MediaItem
	playlistOrigin  *MediaItem
	playlistPlaying bool

	// OnFocusPoint reports where glow and depth effects should converge.
	OnFocusPoint func(Vec3)
	// OnHover fires when the remote cursor's hovered item changes; the empty
	// id means no hover.
	OnHover func(id string)
	// OnPlaylist fires when focusing derives a new related playlist.
	OnPlaylist func(items []MediaItem)
}

// NewScene builds an empty session with the default arrangement.
func NewScene(seed, zoom float64, sink VoiceSink) *Scene {
	s := &Scene{
		byID:     map[string]MediaItem{},
		active:   map[string]bool{},
		layout:   LayoutRandom3D,
		seed:     seed,
		noise:    1.0,
		theme:    "dark",
		ringMem:  NewRingMemory(),
		animator: NewPositionAnimator(),
		gate:     NewVisibilityGate(),
		ambient:  NewAmbientOrchestrator(sink),
		rig:      NewCameraRig(zoom),
	}
	s.rig.OnPresetComplete = func(p CameraPreset) {
		// Once the focus framing lands the operator takes over directly.
		if p == PresetItemFocused || p == PresetCloseUp {
			s.rig.EngageManual()
		}
	}
	return s
}

func (s *Scene) Camera() *CameraRig                { return s.rig }
func (s *Scene) Pointer() *RemotePointer           { return &s.pointer }
func (s *Scene) Ambient() *AmbientOrchestrator     { return s.ambient }
func (s *Scene) Visibility() *VisibilityGate       { return s.gate }
func (s *Scene) FocusedID() string                 { return s.focus.FocusedID() }
func (s *Scene) Layout() LayoutKind                { return s.layout }
func (s *Scene) Seed() float64                     { return s.seed }
func (s *Scene) Noise() float64                    { return s.noise }
func (s *Scene) Theme() string                     { return s.theme }
func (s *Scene) View() ViewMode                    { return s.viewMode }
func (s *Scene) WorkingSet() []MediaItem           { return s.working }
func (s *Scene) Playlist() []MediaItem             { return s.playlist }

// SetItems replaces the catalog. Focus survives if the focused item is still
// in the working set.
func (s *Scene) SetItems(items []MediaItem) {
	s.catalog = items
	s.byID = make(map[string]MediaItem, len(items))
	for _, it := range items {
		s.byID[it.ID] = it
	}
	s.rebuildWorkingSet()
	if s.focus.Focused() {
		if _, ok := s.workingItem(s.focus.FocusedID()); !ok {
			s.focus.Clear()
			s.playlist = nil
			s.playlistOrigin = nil
		}
	}
	s.recomputeTargets()
}

// SetCategories replaces the active category filter and resets the viewing
// arrangement.
func (s *Scene) SetCategories(categories []string) {
	s.active = make(map[string]bool, len(categories))
	for _, c := range categories {
		s.active[c] = true
	}
	s.rebuildWorkingSet()
	s.resetArrangement()
}

// SetLayout switches the unfocused arrangement and resets the view.
func (s *Scene) SetLayout(kind LayoutKind) {
	s.layout = kind
	s.resetArrangement()
}

// SetSeed re-seeds the deterministic scatter and resets the view.
func (s *Scene) SetSeed(seed float64) {
	s.seed = seed
	s.resetArrangement()
}

// SetNoise adjusts the scatter amount in [0,1] and resets the view.
func (s *Scene) SetNoise(noise float64) {
	s.noise = clampF(noise, 0, 1)
	s.resetArrangement()
}

// SetViewMode switches between the plain and connection-line overlays.
func (s *Scene) SetViewMode(m ViewMode) { s.viewMode = m }

// SetTheme switches the background theme ("dark" or "light").
func (s *Scene) SetTheme(theme string) { s.theme = theme }

// SetZoom retargets the camera field of view.
func (s *Scene) SetZoom(zoom float64) { s.rig.SetZoom(zoom) }

// SetCameraPreset jumps the camera framing, releasing any focus.
func (s *Scene) SetCameraPreset(p CameraPreset) {
	if s.focus.Focused() {
		s.focus.Clear()
		s.playlist = nil
		s.playlistOrigin = nil
	}
	s.prevPreset = p
	s.rig.SetPreset(p)
	s.recomputeTargets()
}

// SetPlaylistPlaying records whether the related-playlist player is audible;
// while it is, ambient voices stay suppressed.
func (s *Scene) SetPlaylistPlaying(playing bool) { s.playlistPlaying = playing }

// SelectItem toggles focus on an item. Focusing frames it with the
// item-focused preset and derives the related playlist; unfocusing restores
// the preset that was active before.
func (s *Scene) SelectItem(id string) {
	if _, ok := s.workingItem(id); !ok && s.focus.FocusedID() != id {
		return
	}
	if s.focus.Select(id) {
		focused := s.byID[id]
		if s.rig.Preset() != PresetItemFocused {
			s.prevPreset = s.rig.Preset()
		}
		s.rig.SetPreset(PresetItemFocused)
		s.playlist = RelatedPlaylist(focused, s.catalog)
		if len(s.playlist) > 0 {
			origin := focused
			s.playlistOrigin = &origin
		} else {
			s.playlistOrigin = nil
		}
		if s.OnPlaylist != nil {
			s.OnPlaylist(s.playlist)
		}
	} else {
		s.rig.SetPreset(s.prevPreset)
		s.playlist = nil
		s.playlistOrigin = nil
		if s.OnPlaylist != nil {
			s.OnPlaylist(nil)
		}
	}
	s.recomputeTargets()
}

// ClearFocus releases the focused item, if any.
func (s *Scene) ClearFocus() {
	if !s.focus.Focused() {
		return
	}
	s.SelectItem(s.focus.FocusedID())
}

// Orbit, Pan and Dolly forward manual camera commands.
func (s *Scene) Orbit(dx, dy float64) { s.rig.Orbit(dx, dy) }
func (s *Scene) Pan(dx, dy float64)   { s.rig.Pan(dx, dy) }
func (s *Scene) Dolly(v float64)      { s.rig.Dolly(v) }

// PointerMove places the remote cursor from controller coordinates in [0,1].
func (s *Scene) PointerMove(nx, ny float64) { s.pointer.SetScreenPosition(nx, ny) }

// PointerHide retires the remote cursor.
func (s *Scene) PointerHide() {
	s.pointer.Hide()
	if s.OnHover != nil {
		s.OnHover("")
	}
}

// PointerClick registers one remote click; Step consumes it.
func (s *Scene) PointerClick() { s.pointer.RecordClick() }

// Step advances one frame: camera easing, position animation, remote
// picking, the visibility gate and the ambient orchestrator, in that order.
// aspect is the viewport width over height.
func (s *Scene) Step(dt, aspect float64) {
	s.rig.Step(dt)
	s.animator.Step(dt)
	s.stepPointer(aspect)
	s.gate.Step(dt, s.rig, aspect, s.animator)
	suppressed := s.focus.Focused() || s.playlistPlaying
	s.ambient.Step(dt, suppressed, func() []AmbientCandidate {
		return AmbientCandidates(s.working, s.catalog, s.animator.RenderPosition, s.rig.Eye)
	})
}

func (s *Scene) stepPointer(aspect float64) {
	if !s.pointer.Visible {
		if s.pointer.ConsumeClick() {
			s.ClearFocus()
		}
		return
	}
	var focusedPos *Vec3
	if s.focus.Focused() {
		if p, ok := s.animator.RenderPosition(s.focus.FocusedID()); ok {
			focusedPos = &p
		}
	}
	depth := InteractionPlaneDepth(focusedPos, s.rig.Near)
	if _, ok := s.rig.CursorOnPlane(s.pointer.X, s.pointer.Y, aspect, depth); !ok {
		s.setHovered("")
	} else {
		hit, _ := s.rig.NearestHit(s.pointer.X, s.pointer.Y, aspect, s.hitQuads())
		s.setHovered(hit)
	}
	if s.pointer.ConsumeClick() {
		if id := s.pointer.LastValidHoveredID; id != "" {
			s.SelectItem(id)
		} else {
			s.ClearFocus()
		}
	}
}

func (s *Scene) setHovered(id string) {
	if s.pointer.HoveredID == id {
		return
	}
	s.pointer.SetHovered(id)
	if s.OnHover != nil {
		s.OnHover(id)
	}
}

func (s *Scene) hitQuads() []HitQuad {
	sets := s.currentSets()
	quads := make([]HitQuad, 0, len(s.working))
	for _, it := range s.working {
		pos, ok := s.animator.RenderPosition(it.ID)
		if !ok || pos.Z <= OnSceneZ {
			continue
		}
		scale := s.scaleFor(it.ID, sets)
		w := ItemBaseScale * scale
		quads = append(quads, HitQuad{ID: it.ID, Center: pos, W: w, H: w / it.DisplayAspect()})
	}
	return quads
}

// CursorWorld returns the remote cursor's world position this frame, for
// drawing the cursor marker.
func (s *Scene) CursorWorld(aspect float64) (Vec3, bool) {
	if !s.pointer.Visible {
		return Vec3{}, false
	}
	var focusedPos *Vec3
	if s.focus.Focused() {
		if p, ok := s.animator.RenderPosition(s.focus.FocusedID()); ok {
			focusedPos = &p
		}
	}
	depth := InteractionPlaneDepth(focusedPos, s.rig.Near)
	return s.rig.CursorOnPlane(s.pointer.X, s.pointer.Y, aspect, depth)
}

// RenderItems resolves the working set for drawing, skipping items parked off
// scene.
func (s *Scene) RenderItems() []RenderItem {
	sets := s.currentSets()
	focusedID := s.focus.FocusedID()
	out := make([]RenderItem, 0, len(s.working))
	for _, it := range s.working {
		pos, ok := s.animator.RenderPosition(it.ID)
		if !ok || pos.Z < SentinelZ/1.1 {
			continue
		}
		scale := s.scaleFor(it.ID, sets)
		opacity := 100.0
		if sets.Secondary[it.ID] {
			opacity *= SecondaryOpacity
		} else if sets.Far[it.ID] {
			opacity = FarBackgroundOpacity
		}
		w := ItemBaseScale * scale
		out = append(out, RenderItem{
			Item:    it,
			Pos:     pos,
			Scale:   scale,
			Opacity: opacity,
			W:       w,
			H:       w / it.DisplayAspect(),
			Focused: it.ID == focusedID,
			Hovered: it.ID == s.pointer.HoveredID,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos.Z < out[j].Pos.Z })
	return out
}

// ConnectionLines returns the overlay segments for the connections view.
func (s *Scene) ConnectionLines() []LineSegment {
	if s.viewMode != ViewConnections {
		return nil
	}
	ids := make([]string, 0, len(s.working))
	pos := make(map[string]Vec3, len(s.working))
	for _, it := range s.working {
		if p, ok := s.animator.RenderPosition(it.ID); ok {
			ids = append(ids, it.ID)
			pos[it.ID] = p
		}
	}
	return ConnectionSegments(ids, pos, LineThresholdDefault, LineMaxPerItemDefault)
}

// VideoQualityFor grants a video item its decode budget: nothing while the
// gate holds it invisible, full quality when it is the focused item under a
// focus framing, reduced otherwise.
func (s *Scene) VideoQualityFor(id string) VideoQuality {
	if !s.gate.IsActive(id) {
		return VideoOff
	}
	if id == s.focus.FocusedID() &&
		(s.rig.Preset() == PresetItemFocused || s.rig.Preset() == PresetCloseUp) {
		return VideoFull
	}
	return VideoReduced
}

func (s *Scene) workingItem(id string) (MediaItem, bool) {
	for _, it := range s.working {
		if it.ID == id {
			return it, true
		}
	}
	return MediaItem{}, false
}

func (s *Scene) rebuildWorkingSet() {
	s.working = VisualWorkingSet(s.catalog, s.active)
	ids := make([]string, len(s.working))
	for i, it := range s.working {
		ids[i] = it.ID
	}
	s.animator.SyncItems(ids)
}

// resetArrangement is the shared response to layout, seed, noise and
// category changes: focus is released, the camera returns to the default
// framing and targets are recomputed.
func (s *Scene) resetArrangement() {
	s.focus.Clear()
	s.playlist = nil
	s.playlistOrigin = nil
	s.prevPreset = PresetDefault
	s.rig.SetPreset(PresetDefault)
	s.recomputeTargets()
}

func (s *Scene) currentSets() FocusSets {
	if !s.focus.Focused() {
		return FocusSets{}
	}
	focused, ok := s.workingItem(s.focus.FocusedID())
	if !ok {
		return FocusSets{}
	}
	return DeriveFocusSets(focused, s.working)
}

func (s *Scene) scaleFor(id string, sets FocusSets) float64 {
	switch {
	case id == s.focus.FocusedID():
		return FocusedScale
	case sets.Primary[id]:
		return PrimaryScale
	case sets.Secondary[id]:
		return SecondaryScale
	default:
		return 1.0
	}
}

// recomputeTargets publishes a fresh target map for the current arrangement.
// The jitter stream is re-seeded from the seed and item count so the same
// inputs always land on the same picture.
func (s *Scene) recomputeTargets() {
	stream := NewJitterStream(s.seed*12345 + float64(len(s.working)))
	ids := make([]string, len(s.working))
	for i, it := range s.working {
		ids[i] = it.ID
	}

	var targets map[string]Vec3
	var sets FocusSets
	focused, haveFocus := MediaItem{}, false
	if s.focus.Focused() {
		focused, haveFocus = s.workingItem(s.focus.FocusedID())
	}

	if haveFocus {
		sets = DeriveFocusSets(focused, s.working)
		targets = FocusRingLayout(focused, ids, sets, s.ringMem, stream)
		s.ringMem.CommitFocused(targets, focused, sets.Primary)
		if s.OnFocusPoint != nil {
			s.OnFocusPoint(Vec3{0, 0, ZForegroundFocus})
		}
	} else {
		targets = ComputeLayout(ids, s.layout, s.noise, stream)
		s.ringMem.CommitUnfocused(targets)
		if s.OnFocusPoint != nil {
			s.OnFocusPoint(Vec3{})
		}
	}

	focusedID := s.focus.FocusedID()
	s.animator.SetTargets(targets, func(id string) RateClass {
		if !haveFocus {
			return RateDefault
		}
		return sets.Class(id, focusedID)
	})
}
