package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrustumContainsPoint(t *testing.T) {
	rig := NewCameraRig(0) // eye at (0,0,22) looking at origin
	fr := FrustumFromMatrix(rig.ViewProjection(16.0 / 9.0))

	assert.True(t, fr.ContainsPoint(Vec3{}))
	assert.True(t, fr.ContainsPoint(Vec3{0, 0, 10}))
	// Behind the camera.
	assert.False(t, fr.ContainsPoint(Vec3{0, 0, 30}))
	// Far off to the side.
	assert.False(t, fr.ContainsPoint(Vec3{500, 0, 0}))
	// Past the far plane.
	assert.False(t, fr.ContainsPoint(Vec3{0, 0, -1500}))
}

func settleAnimator(ids []string, targets map[string]Vec3) *PositionAnimator {
	a := NewPositionAnimator()
	a.SyncItems(ids)
	a.SetTargets(targets, defaultClass)
	for i := 0; i < 5000; i++ {
		a.Step(frameDt)
	}
	return a
}

func TestVisibilityGateActiveSet(t *testing.T) {
	rig := NewCameraRig(0)
	anim := settleAnimator(
		[]string{"near", "distant", "behind", "parked"},
		map[string]Vec3{
			"near":    {0, 0, 0},
			"distant": {0, 0, -200}, // past the distance threshold
			"behind":  {0, 0, 40},   // behind the eye
			// "parked" stays at the sentinel
		},
	)

	g := NewVisibilityGate()
	changed := g.Step(frameDt, rig, 16.0/9.0, anim)
	require.True(t, changed)

	assert.True(t, g.IsActive("near"))
	assert.False(t, g.IsActive("distant"))
	assert.False(t, g.IsActive("behind"))
	assert.False(t, g.IsActive("parked"))
}

func TestVisibilityGateHoldsBetweenChecks(t *testing.T) {
	rig := NewCameraRig(0)
	anim := settleAnimator([]string{"a"}, map[string]Vec3{"a": {0, 0, 0}})

	g := NewVisibilityGate()
	require.True(t, g.Step(frameDt, rig, 16.0/9.0, anim))

	// Move the item out; the set does not change until the interval elapses.
	anim.SetTargets(map[string]Vec3{"a": {5000, 0, 0}}, defaultClass)
	for i := 0; i < 5000; i++ {
		anim.Step(frameDt)
	}
	assert.False(t, g.Step(0.1, rig, 16.0/9.0, anim))
	assert.True(t, g.IsActive("a"))

	assert.True(t, g.Step(VisibilityInterval, rig, 16.0/9.0, anim))
	assert.False(t, g.IsActive("a"))
}

func TestVisibilityGateReportsNoChange(t *testing.T) {
	rig := NewCameraRig(0)
	anim := settleAnimator([]string{"a"}, map[string]Vec3{"a": {0, 0, 0}})

	g := NewVisibilityGate()
	require.True(t, g.Step(frameDt, rig, 16.0/9.0, anim))
	assert.False(t, g.Step(VisibilityInterval, rig, 16.0/9.0, anim))
}
