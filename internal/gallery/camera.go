package gallery

import (
	"fmt"
	"math"
)

// CameraPreset names a stored viewpoint.
type CameraPreset int

const (
	PresetDefault CameraPreset = iota
	PresetTopDown
	PresetSideView
	PresetDiagonal
	PresetCloseUp
	PresetExtremeAngle
	PresetItemFocused
)

var presetNames = map[CameraPreset]string{
	PresetDefault:      "default",
	PresetTopDown:      "top-down",
	PresetSideView:     "side-view",
	PresetDiagonal:     "diagonal",
	PresetCloseUp:      "close-up",
	PresetExtremeAngle: "extreme-angle",
	PresetItemFocused:  "item-focused",
}

func (p CameraPreset) String() string {
	if n, ok := presetNames[p]; ok {
		return n
	}
	return fmt.Sprintf("preset(%d)", int(p))
}

// ParseCameraPreset maps a wire/config name onto a CameraPreset.
func ParseCameraPreset(s string) (CameraPreset, error) {
	for p, n := range presetNames {
		if n == s {
			return p, nil
		}
	}
	return PresetDefault, fmt.Errorf("unknown camera preset %q", s)
}

// presetPose returns the eye and look-at point for a preset. The close-up and
// item-focused poses frame the focused slot on the near plane.
func presetPose(p CameraPreset) (eye, target Vec3) {
	switch p {
	case PresetTopDown:
		return Vec3{0, 30, 0.1}, Vec3{}
	case PresetSideView:
		return Vec3{30, 0, 0}, Vec3{}
	case PresetDiagonal:
		return Vec3{20, 20, 20}, Vec3{}
	case PresetCloseUp, PresetItemFocused:
		return Vec3{FocusedViewEyeX, FocusedViewEyeY, ZForegroundFocus + FocusedViewZOffset},
			Vec3{0, FocusedViewLookY, ZForegroundFocus}
	case PresetExtremeAngle:
		return Vec3{5, -15, 10}, Vec3{0, 5, 0}
	default:
		return Vec3{0, 0, 22}, Vec3{}
	}
}

// fovForZoom maps the zoom level in [0,1] onto the vertical field of view:
// zero zoom is the widest view.
func fovForZoom(zoom float64) float64 {
	return MaxCameraFOV - clampF(zoom, 0, 1)*(MaxCameraFOV-MinCameraFOV)
}

type presetAnim struct {
	to       CameraPreset
	fromEye  Vec3
	fromLook Vec3
	fromFOV  float64
	toEye    Vec3
	toLook   Vec3
	toFOV    float64
	elapsed  float64
}

// CameraRig owns the camera pose. Preset changes ease eye, look-at point and
// field of view over a fixed duration; any manual command cancels the easing
// and puts the rig under direct control until the next preset change.
type CameraRig struct {
	Eye  Vec3
	Look Vec3
	FOV  float64
	Near float64
	Far  float64

	// ViewportH is the reference pixel height used to scale pan deltas.
	ViewportH float64

	preset CameraPreset
	zoom   float64
	manual bool
	anim   *presetAnim

	// OnPresetComplete fires once when a preset animation reaches its pose.
	OnPresetComplete func(CameraPreset)
}

func NewCameraRig(zoom float64) *CameraRig {
	eye, look := presetPose(PresetDefault)
	return &CameraRig{
		Eye:       eye,
		Look:      look,
		FOV:       fovForZoom(zoom),
		Near:      CameraNear,
		Far:       CameraFar,
		ViewportH: 800,
		zoom:      clampF(zoom, 0, 1),
	}
}

func (c *CameraRig) Preset() CameraPreset { return c.preset }
func (c *CameraRig) Manual() bool         { return c.manual }
func (c *CameraRig) Animating() bool      { return c.anim != nil }
func (c *CameraRig) Zoom() float64        { return c.zoom }

// SetPreset starts easing toward the preset pose from wherever the camera is
// now. It clears manual control and abandons any animation in flight.
func (c *CameraRig) SetPreset(p CameraPreset) {
	c.preset = p
	c.manual = false
	eye, look := presetPose(p)
	c.anim = &presetAnim{
		to:       p,
		fromEye:  c.Eye,
		fromLook: c.Look,
		fromFOV:  c.FOV,
		toEye:    eye,
		toLook:   look,
		toFOV:    fovForZoom(c.zoom),
	}
}

// SetZoom retargets the field of view. Outside manual control the new value
// applies immediately; under manual control Step eases toward it.
func (c *CameraRig) SetZoom(zoom float64) {
	c.zoom = clampF(zoom, 0, 1)
	if c.anim != nil {
		c.anim.toFOV = fovForZoom(c.zoom)
		return
	}
	if !c.manual {
		c.FOV = fovForZoom(c.zoom)
	}
}

// EngageManual cancels any preset animation and marks direct control.
func (c *CameraRig) EngageManual() {
	c.manual = true
	c.anim = nil
}

// Step advances the preset animation or, under manual control, eases the
// field of view toward the zoom target.
func (c *CameraRig) Step(dt float64) {
	if a := c.anim; a != nil {
		a.elapsed += dt
		prog := math.Min(a.elapsed/PresetAnimSeconds, 1)
		ease := 0.5 * (1 - math.Cos(prog*math.Pi))
		c.Eye = a.fromEye.Lerp(a.toEye, ease)
		c.Look = a.fromLook.Lerp(a.toLook, ease)
		c.FOV = lerpF(a.fromFOV, a.toFOV, ease)
		if prog >= 1 {
			c.Eye = a.toEye
			c.Look = a.toLook
			c.FOV = a.toFOV
			done := a.to
			c.anim = nil
			if c.OnPresetComplete != nil {
				c.OnPresetComplete(done)
			}
		}
		return
	}
	if c.manual {
		target := fovForZoom(c.zoom)
		if math.Abs(c.FOV-target) > 0.01 {
			c.FOV = lerpF(c.FOV, target, clampF(BaseLerpFactor*0.5*dt*ReferenceFrameRate, 0, 1))
		}
	}
}

// Orbit rotates the eye around the look-at point on a sphere; deltas are in
// pixels of controller drag.
func (c *CameraRig) Orbit(dx, dy float64) {
	c.EngageManual()
	const factor = 0.002
	offset := c.Eye.Sub(c.Look)
	radius := offset.Length()
	if radius == 0 {
		return
	}
	phi := math.Acos(clampF(offset.Y/radius, -1, 1))
	theta := math.Atan2(offset.X, offset.Z)
	theta += -dx * factor
	phi += -dy * factor
	phi = clampF(phi, 0.001, math.Pi-0.001)
	offset = Vec3{
		radius * math.Sin(phi) * math.Sin(theta),
		radius * math.Cos(phi),
		radius * math.Sin(phi) * math.Cos(theta),
	}
	c.Eye = c.Look.Add(offset)
}

// Pan slides eye and look-at point together across the view plane; deltas are
// in pixels, scaled so a full-height drag sweeps the visible height at the
// look-at distance.
func (c *CameraRig) Pan(dx, dy float64) {
	c.EngageManual()
	offset := c.Eye.Sub(c.Look)
	dist := offset.Length()
	if dist == 0 {
		return
	}
	perPixel := 2 * dist * math.Tan(c.FOV*math.Pi/360) / c.ViewportH
	forward := offset.Scale(-1 / dist)
	right := forward.Cross(Vec3{0, 1, 0}).Normalized()
	up := right.Cross(forward)
	move := right.Scale(-dx * 0.7 * perPixel).Add(up.Scale(dy * 0.7 * perPixel))
	c.Eye = c.Eye.Add(move)
	c.Look = c.Look.Add(move)
}

// Dolly moves the eye along the view axis: positive values approach the
// look-at point, negative values back away.
func (c *CameraRig) Dolly(v float64) {
	if v == 0 {
		return
	}
	c.EngageManual()
	offset := c.Eye.Sub(c.Look)
	radius := offset.Length()
	if radius == 0 {
		return
	}
	scale := 1 + math.Abs(v)
	if v > 0 {
		radius /= scale
	} else {
		radius *= scale
	}
	radius = math.Max(c.Near*2, radius)
	c.Eye = c.Look.Add(offset.Scale(radius / offset.Length()))
}

// ViewProjection builds the combined matrix for culling and picking.
func (c *CameraRig) ViewProjection(aspect float64) Mat4 {
	proj := Mat4Perspective(c.FOV, aspect, c.Near, c.Far)
	view := Mat4LookAt(c.Eye, c.Look, Vec3{0, 1, 0})
	return proj.Mul(view)
}
