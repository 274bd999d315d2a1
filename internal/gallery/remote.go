package gallery

import "math"

// RemotePointer is the controller cursor state: a normalized device
// coordinate, a visibility flag, and a monotonic click counter consumed
// against a processed mark so a click is acted on exactly once no matter how
// many frames pass between receipt and processing.
type RemotePointer struct {
	X, Y    float64 // NDC, x right, y up
	Visible bool

	// HoveredID is the item currently under the cursor; LastValidHoveredID
	// survives brief hover dropouts so a click still lands on the item the
	// operator saw highlighted.
	HoveredID          string
	LastValidHoveredID string

	clicks    int
	processed int
}

// SetScreenPosition takes controller coordinates in [0,1] (origin top-left)
// and stores them as NDC.
func (p *RemotePointer) SetScreenPosition(nx, ny float64) {
	p.X = nx*2 - 1
	p.Y = -(ny*2 - 1)
	p.Visible = true
}

// Hide retires the cursor and its hover memory.
func (p *RemotePointer) Hide() {
	p.Visible = false
	p.HoveredID = ""
	p.LastValidHoveredID = ""
}

// RecordClick registers one controller click.
func (p *RemotePointer) RecordClick() { p.clicks++ }

// ConsumeClick reports whether an unprocessed click is pending and marks it
// processed.
func (p *RemotePointer) ConsumeClick() bool {
	if p.clicks > p.processed {
		p.processed = p.clicks
		return true
	}
	return false
}

// SetHovered updates the hover pair.
func (p *RemotePointer) SetHovered(id string) {
	p.HoveredID = id
	if id != "" {
		p.LastValidHoveredID = id
	}
}

// InteractionPlaneDepth places the pointer plane along the view direction:
// just in front of the focused item when there is one, otherwise just before
// the focus depth, never behind the near plane.
func InteractionPlaneDepth(focusedPos *Vec3, near float64) float64 {
	depth := math.Min(ZForegroundFocus-0.5, near+5)
	if focusedPos != nil {
		depth = focusedPos.Z - 0.1
	}
	return math.Max(near+0.1, depth)
}

// basis returns the camera's forward, right and up axes.
func (c *CameraRig) basis() (forward, right, up Vec3) {
	forward = c.Look.Sub(c.Eye).Normalized()
	right = forward.Cross(Vec3{0, 1, 0}).Normalized()
	up = right.Cross(forward)
	return
}

// Ray builds the world-space ray through an NDC point.
func (c *CameraRig) Ray(ndcX, ndcY, aspect float64) (origin, dir Vec3) {
	forward, right, up := c.basis()
	tanHalf := math.Tan(c.FOV * math.Pi / 360)
	dir = forward.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf)).
		Normalized()
	return c.Eye, dir
}

// CursorOnPlane intersects the pointer ray with the interaction plane and
// returns the cursor's world position.
func (c *CameraRig) CursorOnPlane(ndcX, ndcY, aspect, planeDepth float64) (Vec3, bool) {
	origin, dir := c.Ray(ndcX, ndcY, aspect)
	forward, _, _ := c.basis()
	planePoint := c.Eye.Add(forward.Scale(planeDepth))
	denom := dir.Dot(forward)
	if math.Abs(denom) < 1e-9 {
		return Vec3{}, false
	}
	t := planePoint.Sub(origin).Dot(forward) / denom
	if t <= 0 {
		return Vec3{}, false
	}
	return origin.Add(dir.Scale(t)), true
}

// HitQuad is one pickable item: a camera-facing rectangle at its rendered
// position.
type HitQuad struct {
	ID     string
	Center Vec3
	W, H   float64
}

// NearestHit casts the ray against every quad and returns the closest hit.
// Quads are tested in the camera plane, matching how items are drawn.
func (c *CameraRig) NearestHit(ndcX, ndcY, aspect float64, quads []HitQuad) (string, bool) {
	origin, dir := c.Ray(ndcX, ndcY, aspect)
	forward, right, up := c.basis()

	bestID := ""
	bestT := math.Inf(1)
	for _, q := range quads {
		denom := dir.Dot(forward)
		if math.Abs(denom) < 1e-9 {
			continue
		}
		t := q.Center.Sub(origin).Dot(forward) / denom
		if t <= 0 || t >= bestT {
			continue
		}
		hit := origin.Add(dir.Scale(t))
		local := hit.Sub(q.Center)
		if math.Abs(local.Dot(right)) <= q.W/2 && math.Abs(local.Dot(up)) <= q.H/2 {
			bestT = t
			bestID = q.ID
		}
	}
	return bestID, bestID != ""
}
