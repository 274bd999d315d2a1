package gallery

// frustumPlane is stored unnormalized; the sign test does not need unit
// normals.
type frustumPlane struct {
	n Vec3
	d float64
}

// Frustum is the six clip planes of a view-projection matrix, inward facing.
type Frustum [6]frustumPlane

// FrustumFromMatrix extracts the planes from a column-major view-projection
// matrix by row combination.
func FrustumFromMatrix(vp Mat4) Frustum {
	row := func(i int) [4]float64 {
		return [4]float64{vp[0*4+i], vp[1*4+i], vp[2*4+i], vp[3*4+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)
	mk := func(a, b [4]float64, sign float64) frustumPlane {
		return frustumPlane{
			n: Vec3{b[0] + sign*a[0], b[1] + sign*a[1], b[2] + sign*a[2]},
			d: b[3] + sign*a[3],
		}
	}
	return Frustum{
		mk(r0, r3, 1),  // left
		mk(r0, r3, -1), // right
		mk(r1, r3, 1),  // bottom
		mk(r1, r3, -1), // top
		mk(r2, r3, 1),  // near
		mk(r2, r3, -1), // far
	}
}

// ContainsPoint reports whether p is inside or on every plane.
func (f Frustum) ContainsPoint(p Vec3) bool {
	for _, pl := range f {
		if pl.n.Dot(p)+pl.d < 0 {
			return false
		}
	}
	return true
}

// VisibilityGate recomputes the visually active set on a fixed interval: an
// item is active when it is on scene, within the distance threshold of the
// camera and inside the view frustum. Between checks the last set holds, so
// downstream resource decisions stay stable frame to frame.
type VisibilityGate struct {
	active map[string]bool
	since  float64
}

func NewVisibilityGate() *VisibilityGate {
	return &VisibilityGate{
		active: map[string]bool{},
		since:  VisibilityInterval, // first Step evaluates immediately
	}
}

// Active returns the current visually active set. Callers must not mutate it.
func (g *VisibilityGate) Active() map[string]bool { return g.active }

func (g *VisibilityGate) IsActive(id string) bool { return g.active[id] }

// Step advances the timer and, when a check is due, rebuilds the active set
// from the rendered positions. It reports whether the set changed.
func (g *VisibilityGate) Step(dt float64, rig *CameraRig, aspect float64, anim *PositionAnimator) bool {
	g.since += dt
	if g.since < VisibilityInterval {
		return false
	}
	g.since = 0

	fr := FrustumFromMatrix(rig.ViewProjection(aspect))
	next := map[string]bool{}
	anim.EachRendered(func(id string, pos Vec3) {
		if pos.Z <= OnSceneZ {
			return
		}
		if pos.DistSqTo(rig.Eye) >= VisibilityDistSq {
			return
		}
		if fr.ContainsPoint(pos) {
			next[id] = true
		}
	})

	if len(next) == len(g.active) {
		same := true
		for id := range next {
			if !g.active[id] {
				same = false
				break
			}
		}
		if same {
			return false
		}
	}
	g.active = next
	return true
}
