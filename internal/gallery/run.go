package gallery

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// RunOptions configures the desktop viewer.
type RunOptions struct {
	Title         string
	Width, Height int

	Items []MediaItem
	Seed  float64
	Zoom  float64

	// Audio may be nil; the scene then runs silent.
	Audio *AudioEngine
	Log   *slog.Logger

	// Events carries remote control thunks. Each is applied on the frame
	// thread between polling input and stepping the scene.
	Events <-chan func(*Scene)

	// OnScene runs once on the frame thread after the scene is built and
	// loaded, before the first frame. Callers attach feedback callbacks
	// (OnHover, OnPlaylist) here.
	OnScene func(*Scene)
}

func initWindow(title string, width, height int) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}

// input tracks edge-triggered keys and buttons plus the previous cursor
// position for drag deltas.
type input struct {
	prevMouse   map[glfw.MouseButton]bool
	prevKeys    map[glfw.Key]bool
	prevCursorX float64
	prevCursorY float64
	scroll      float64
}

func newInput() *input {
	return &input{
		prevMouse: make(map[glfw.MouseButton]bool),
		prevKeys:  make(map[glfw.Key]bool),
	}
}

func (in *input) justPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// hoverSprings eases each item's hover emphasis with a spring so the
// highlight swells and settles instead of popping.
type hoverSprings struct {
	spring harmonica.Spring
	pos    map[string]float64
	vel    map[string]float64
	seen   map[string]bool
}

func newHoverSprings() *hoverSprings {
	return &hoverSprings{
		spring: harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.9),
		pos:    make(map[string]float64),
		vel:    make(map[string]float64),
		seen:   make(map[string]bool),
	}
}

func (h *hoverSprings) scaleFor(id string, hovered bool) float64 {
	target := 1.0
	if hovered {
		target = HoverScale
	}
	pos, ok := h.pos[id]
	if !ok {
		pos = 1.0
	}
	pos, vel := h.spring.Update(pos, h.vel[id], target)
	h.pos[id] = pos
	h.vel[id] = vel
	h.seen[id] = true
	return pos
}

// sweep drops spring state for items that were not drawn since the previous
// sweep, so catalog or filter changes do not accumulate entries.
func (h *hoverSprings) sweep() {
	for id := range h.pos {
		if !h.seen[id] {
			delete(h.pos, id)
			delete(h.vel, id)
		}
	}
	h.seen = make(map[string]bool, len(h.pos))
}

var layoutKeys = map[glfw.Key]LayoutKind{
	glfw.Key1: LayoutGrid,
	glfw.Key2: LayoutColumn,
	glfw.Key3: LayoutRow,
	glfw.Key4: LayoutSpiral,
	glfw.Key5: LayoutRandom3D,
	glfw.Key6: LayoutSphereSurface,
	glfw.Key7: LayoutTube,
}

var presetKeys = map[glfw.Key]CameraPreset{
	glfw.KeyF1: PresetDefault,
	glfw.KeyF2: PresetTopDown,
	glfw.KeyF3: PresetSideView,
	glfw.KeyF4: PresetDiagonal,
	glfw.KeyF5: PresetCloseUp,
	glfw.KeyF6: PresetExtremeAngle,
}

// RunDesktop opens a window and drives the scene until it is closed. Every
// scene mutation, local or remote, happens on this thread.
func RunDesktop(opts RunOptions) error {
	runtime.LockOSThread()

	if opts.Title == "" {
		opts.Title = "echoes"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 800
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	window, err := initWindow(opts.Title, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	textures := NewTextureCache(log)
	defer textures.Destroy()

	var sink VoiceSink
	if opts.Audio != nil {
		sink = opts.Audio
	}
	scene := NewScene(opts.Seed, opts.Zoom, sink)

	var focusGlow Vec3
	scene.OnFocusPoint = func(p Vec3) { focusGlow = p }
	scene.SetItems(opts.Items)
	if opts.OnScene != nil {
		opts.OnScene(scene)
	}

	in := newInput()
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		in.scroll += yoff
	})

	hover := newHoverSprings()

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		aspect := float64(fbW) / float64(fbH)
		_, winH := window.GetSize()
		if winH > 0 {
			scene.Camera().ViewportH = float64(winH)
		}

		handleKeys(window, in, scene)
		handleMouse(window, in, scene)
		drainEvents(opts.Events, scene)

		scene.Step(dt, aspect)
		if opts.Audio != nil {
			opts.Audio.UpdateListener(scene.Camera().Eye, scene.Camera().Look)
		}
		textures.ProcessPending()

		rend.BeginFrame(scene.Camera().ViewProjection(aspect), fbW, fbH, scene.Theme())

		_, right, up := scene.Camera().basis()
		for _, it := range scene.RenderItems() {
			url := it.Item.ThumbnailURL
			if url == "" {
				url = it.Item.URL
			}
			tex := textures.Get(url)
			rend.DrawItem(it, tex, right, up, hover.scaleFor(it.Item.ID, it.Hovered))
		}
		hover.sweep()

		rend.DrawSegments(scene.ConnectionLines(), scene.Theme())

		if scene.FocusedID() != "" {
			rend.DrawGlow(focusGlow, 6.0, 0.35, right, up, 0.9, 0.85, 1.0)
		}
		if cursor, ok := scene.CursorWorld(aspect); ok {
			rend.DrawGlow(cursor, 0.4, 0.8, right, up, 1.0, 1.0, 1.0)
		}

		window.SwapBuffers()
	}
	return nil
}

// handleKeys applies edge-triggered keyboard control: layouts on the number
// row, camera presets on the function keys, and a few toggles.
func handleKeys(window *glfw.Window, in *input, scene *Scene) {
	for key, kind := range layoutKeys {
		if in.justPressed(window, key) {
			scene.SetLayout(kind)
		}
	}
	for key, preset := range presetKeys {
		if in.justPressed(window, key) {
			scene.SetCameraPreset(preset)
		}
	}
	if in.justPressed(window, glfw.KeyV) {
		if scene.View() == ViewConnections {
			scene.SetViewMode(ViewNormal)
		} else {
			scene.SetViewMode(ViewConnections)
		}
	}
	if in.justPressed(window, glfw.KeyT) {
		if scene.Theme() == "dark" {
			scene.SetTheme("light")
		} else {
			scene.SetTheme("dark")
		}
	}
	if in.justPressed(window, glfw.KeyN) {
		scene.SetNoise(scene.Noise() - 0.1)
	}
	if in.justPressed(window, glfw.KeyM) {
		scene.SetNoise(scene.Noise() + 0.1)
	}
	if in.justPressed(window, glfw.KeyEscape) {
		if scene.FocusedID() != "" {
			scene.ClearFocus()
		} else {
			window.SetShouldClose(true)
		}
	}
}

// handleMouse maps the local mouse onto the same pointer pathway the remote
// controller uses: moving hovers, left click selects, left drag orbits,
// right drag pans, scroll dollies.
func handleMouse(window *glfw.Window, in *input, scene *Scene) {
	cx, cy := window.GetCursorPos()
	dx := cx - in.prevCursorX
	dy := cy - in.prevCursorY
	in.prevCursorX, in.prevCursorY = cx, cy

	winW, winH := window.GetSize()
	if winW <= 0 || winH <= 0 {
		return
	}

	leftDown := window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	rightDown := window.GetMouseButton(glfw.MouseButtonRight) == glfw.Press
	dragging := (leftDown || rightDown) && (dx != 0 || dy != 0)

	switch {
	case leftDown && dragging:
		scene.Orbit(dx, dy)
	case rightDown && dragging:
		scene.Pan(dx, dy)
	default:
		scene.PointerMove(cx/float64(winW), cy/float64(winH))
	}

	// Left release with no drag in flight counts as a click.
	wasDown := in.prevMouse[glfw.MouseButtonLeft]
	in.prevMouse[glfw.MouseButtonLeft] = leftDown
	if wasDown && !leftDown {
		scene.PointerClick()
	}

	if in.scroll != 0 {
		scene.Dolly(in.scroll * 0.1)
		in.scroll = 0
	}
}

// drainEvents applies queued remote thunks without blocking the frame.
func drainEvents(events <-chan func(*Scene), scene *Scene) {
	if events == nil {
		return
	}
	for {
		select {
		case apply := <-events:
			apply(scene)
		default:
			return
		}
	}
}
