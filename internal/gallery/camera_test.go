package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCameraPresetRoundTrip(t *testing.T) {
	presets := []CameraPreset{
		PresetDefault, PresetTopDown, PresetSideView, PresetDiagonal,
		PresetCloseUp, PresetExtremeAngle, PresetItemFocused,
	}
	for _, p := range presets {
		parsed, err := ParseCameraPreset(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParseCameraPreset("worm-cam")
	assert.Error(t, err)
}

func TestFOVForZoom(t *testing.T) {
	assert.Equal(t, MaxCameraFOV, fovForZoom(0))
	assert.Equal(t, MinCameraFOV, fovForZoom(1))
	assert.Equal(t, 50.0, fovForZoom(0.5))

	// Out-of-range zoom clamps.
	assert.Equal(t, MaxCameraFOV, fovForZoom(-2))
	assert.Equal(t, MinCameraFOV, fovForZoom(3))
}

func TestPresetAnimationCompletesAndFires(t *testing.T) {
	rig := NewCameraRig(0)
	var done []CameraPreset
	rig.OnPresetComplete = func(p CameraPreset) { done = append(done, p) }

	rig.SetPreset(PresetTopDown)
	assert.True(t, rig.Animating())

	steps := int(PresetAnimSeconds/frameDt) + 2
	for i := 0; i < steps; i++ {
		rig.Step(frameDt)
	}
	assert.False(t, rig.Animating())
	wantEye, wantLook := presetPose(PresetTopDown)
	assert.Equal(t, wantEye, rig.Eye)
	assert.Equal(t, wantLook, rig.Look)
	assert.Equal(t, []CameraPreset{PresetTopDown}, done)

	// Completion fires once.
	rig.Step(frameDt)
	assert.Len(t, done, 1)
}

func TestNewPresetAbandonsAnimationInFlight(t *testing.T) {
	rig := NewCameraRig(0)
	var done []CameraPreset
	rig.OnPresetComplete = func(p CameraPreset) { done = append(done, p) }

	rig.SetPreset(PresetTopDown)
	rig.Step(PresetAnimSeconds / 3)
	rig.SetPreset(PresetSideView)

	steps := int(PresetAnimSeconds/frameDt) + 2
	for i := 0; i < steps; i++ {
		rig.Step(frameDt)
	}
	wantEye, _ := presetPose(PresetSideView)
	assert.Equal(t, wantEye, rig.Eye)
	assert.Equal(t, []CameraPreset{PresetSideView}, done)
}

func TestManualCancelsAnimation(t *testing.T) {
	rig := NewCameraRig(0)
	rig.SetPreset(PresetDiagonal)
	rig.Step(PresetAnimSeconds / 4)

	rig.Orbit(50, 0)
	assert.True(t, rig.Manual())
	assert.False(t, rig.Animating())

	eye := rig.Eye
	rig.Step(frameDt)
	assert.Equal(t, eye, rig.Eye, "no easing continues after manual takeover")
}

func TestOrbitPreservesRadius(t *testing.T) {
	rig := NewCameraRig(0)
	before := rig.Eye.Sub(rig.Look).Length()
	rig.Orbit(120, 35)
	after := rig.Eye.Sub(rig.Look).Length()
	assert.InDelta(t, before, after, 1e-9)
}

func TestPanMovesEyeAndLookTogether(t *testing.T) {
	rig := NewCameraRig(0)
	offsetBefore := rig.Eye.Sub(rig.Look)
	rig.Pan(40, -25)
	offsetAfter := rig.Eye.Sub(rig.Look)
	assert.InDelta(t, offsetBefore.X, offsetAfter.X, 1e-9)
	assert.InDelta(t, offsetBefore.Y, offsetAfter.Y, 1e-9)
	assert.InDelta(t, offsetBefore.Z, offsetAfter.Z, 1e-9)
	assert.NotEqual(t, Vec3{0, 0, 22}, rig.Eye)
}

func TestDollyApproachesAndRetreats(t *testing.T) {
	rig := NewCameraRig(0)
	start := rig.Eye.Sub(rig.Look).Length()

	rig.Dolly(0.5)
	closer := rig.Eye.Sub(rig.Look).Length()
	assert.InDelta(t, start/1.5, closer, 1e-9)

	rig.Dolly(-0.5)
	back := rig.Eye.Sub(rig.Look).Length()
	assert.InDelta(t, start, back, 1e-9)

	// Dolly never crosses the near plane.
	for i := 0; i < 50; i++ {
		rig.Dolly(5)
	}
	assert.GreaterOrEqual(t, rig.Eye.Sub(rig.Look).Length(), rig.Near*2-1e-12)
}

func TestSetZoomImmediateOutsideManual(t *testing.T) {
	rig := NewCameraRig(0)
	rig.SetZoom(1)
	assert.Equal(t, MinCameraFOV, rig.FOV)

	// Under manual control the FOV eases instead of jumping.
	rig.EngageManual()
	rig.SetZoom(0)
	assert.Equal(t, MinCameraFOV, rig.FOV)
	for i := 0; i < 3000; i++ {
		rig.Step(frameDt)
	}
	assert.InDelta(t, MaxCameraFOV, rig.FOV, 0.1)
}

func TestZoomRetargetsAnimationInFlight(t *testing.T) {
	rig := NewCameraRig(0)
	rig.SetPreset(PresetTopDown)
	rig.SetZoom(1)

	steps := int(PresetAnimSeconds/frameDt) + 2
	for i := 0; i < steps; i++ {
		rig.Step(frameDt)
	}
	assert.Equal(t, MinCameraFOV, rig.FOV)
}
