package gallery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJitterStreamDeterministic(t *testing.T) {
	a := NewJitterStream(42)
	b := NewJitterStream(42)
	for i := 0; i < 100; i++ {
		va, vb := a.Next(), b.Next()
		require.Equal(t, va, vb, "diverged at step %d", i)
		require.GreaterOrEqual(t, va, 0.0)
		require.Less(t, va, 1.0)
	}
}

func TestJitterStreamSeedsDiffer(t *testing.T) {
	a := NewJitterStream(1)
	b := NewJitterStream(2)
	same := 0
	for i := 0; i < 20; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestShuffleDeterministicPermutation(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	first := append([]string(nil), ids...)
	NewJitterStream(7).Shuffle(first)
	second := append([]string(nil), ids...)
	NewJitterStream(7).Shuffle(second)
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, ids, first)
}

func TestVec3Basics(t *testing.T) {
	v := Vec3{3, 4, 0}
	assert.Equal(t, 5.0, v.Length())
	n := v.Normalized()
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Y, 1e-12)
	assert.InDelta(t, 0, n.Z, 1e-12)
	assert.Equal(t, Vec3{}, Vec3{}.Normalized())

	assert.Equal(t, Vec3{0, 0, 1}, Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0}))
	assert.Equal(t, Vec3{5, 5, 5}, Vec3{0, 0, 0}.Lerp(Vec3{10, 10, 10}, 0.5))
}

// transform applies a column-major matrix to a point with w=1 and performs the
// perspective divide.
func transform(m Mat4, p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 22}
	view := Mat4LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	at := transform(view, eye)
	assert.InDelta(t, 0, at.X, 1e-12)
	assert.InDelta(t, 0, at.Y, 1e-12)
	assert.InDelta(t, 0, at.Z, 1e-12)

	// A point in front of the eye lands on the negative view Z axis.
	front := transform(view, Vec3{0, 0, 10})
	assert.Less(t, front.Z, 0.0)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Mat4Perspective(80, 16.0/9.0, 0.1, 1000)

	near := transform(proj, Vec3{0, 0, -0.1})
	far := transform(proj, Vec3{0, 0, -1000})
	assert.InDelta(t, -1, near.Z, 1e-9)
	assert.InDelta(t, 1, far.Z, 1e-6)
}

func TestViewProjectionCentersLookTarget(t *testing.T) {
	rig := NewCameraRig(0)
	vp := rig.ViewProjection(16.0 / 9.0)
	ndc := transform(vp, rig.Look)
	assert.InDelta(t, 0, ndc.X, 1e-9)
	assert.InDelta(t, 0, ndc.Y, 1e-9)
}

func TestIDPhaseStableAndBounded(t *testing.T) {
	assert.Equal(t, idPhase("item-1", 0), idPhase("item-1", 0))
	for _, id := range []string{"", "a", "item-1", "some-long-identifier"} {
		p := idPhase(id, 133)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.Less(t, p, 2*math.Pi)
	}
}
