package gallery

// Scene placement (scene units).
const (
	// LayoutBaseRadius scales the grid/column/row/spiral/tube layouts.
	LayoutBaseRadius = 10.0
	// ScatterBaseRadius scales the random-3D and sphere-surface layouts
	// before the noise amount is applied.
	ScatterBaseRadius = 35.0
	// ScatterDepthEmphasis stretches random-3D placement along Z.
	ScatterDepthEmphasis = 1.5
)

// Focus-ring placement.
const (
	ZForegroundFocus = 9.0

	ZPrimaryRing           = 7.0
	PrimaryRingMinRadius   = 2.0
	PrimaryRingMaxRadius   = 4.5
	PrimaryRingYOffset     = 0.0
	PrimaryRingYSpread     = 1.0
	PrimaryRingZJitter     = 0.6
	PrimaryRingAngleJitter = 0.4

	ZSecondaryRing           = -3.5
	SecondaryRingMinRadius   = 7.0
	SecondaryRingMaxRadius   = 14.0
	SecondaryRingYOffset     = 0.0
	SecondaryRingYSpread     = 1.0
	SecondaryRingZJitter     = 8.5
	SecondaryRingAngleJitter = 3.25

	ZFarBackground         = -55.0
	FarBackgroundMinRadX   = 70.0
	FarBackgroundMaxRadX   = 95.0
	FarBackgroundMinRadY   = 25.0
	FarBackgroundMaxRadY   = 55.0
	FarBackgroundDepthSpan = 35.0
)

// SentinelZ is the parking depth for items that are not currently placed;
// items animate in from here and are sent back here when their target is
// unknown.
const SentinelZ = -10000.0

// OnSceneZ is the depth above which a position counts as placed in the scene.
const OnSceneZ = SentinelZ + 1

// SentinelPosition is the full off-scene parking coordinate.
var SentinelPosition = Vec3{0, 0, SentinelZ}

// Animation.
const (
	BaseLerpFactor    = 0.1
	LerpRateFocused   = 2.0
	LerpRatePrimary   = 1.6
	LerpRateSecondary = 0.9
	LerpRateFar       = 0.4
	// ReferenceFrameRate makes the per-frame lerp factor time-based: the
	// original factors were tuned against a 60 Hz frame callback.
	ReferenceFrameRate = 60.0

	// Snap thresholds, squared. Targets at the off-scene sentinel get the
	// looser threshold so items do not crawl across the whole parking
	// distance in ever-smaller steps.
	SnapDistSq         = 0.000001
	SnapDistSqSentinel = 0.01

	BreathAmplitudeX = 0.15
	BreathAmplitudeY = 0.03
	BreathAmplitudeZ = 0.25
	BreathFrequency  = 0.1
	BreathZFreqScale = 0.7
)

// Visibility gate.
const (
	VisibilityInterval   = 0.25 // seconds
	VisibilityDistSq     = 90.0 * 90.0
	AmbientCheckInterval = 0.75 // seconds
	AmbientMaxVoices     = 4
)

// Ambient voices.
const (
	AmbientVolume      = 0.4
	AmbientFadeSpeed   = 0.75 // gain units per second
	AmbientRefDistance = 3.0
	AmbientRolloff     = 1.2

	// Voices are band-limited to a low murmur so overlapping ambience stays
	// textural rather than musical.
	AmbientHighpassHz = 50.0
	AmbientLowpassHz  = 150.0
	AmbientFilterQ    = 1.0
)

// Camera.
const (
	MinCameraFOV      = 20.0
	MaxCameraFOV      = 80.0
	CameraNear        = 0.1
	CameraFar         = 1000.0
	PresetAnimSeconds = 1.2

	FocusedViewEyeX    = 0.0
	FocusedViewEyeY    = -1.0
	FocusedViewZOffset = 11.0
	FocusedViewLookY   = -0.5
)

// Item sizing and emphasis.
const (
	ItemBaseScale        = 1.8
	FocusedScale         = 2.3
	PrimaryScale         = 0.92
	SecondaryScale       = 0.70
	SecondaryOpacity     = 0.75 // multiplier on the global opacity
	FarBackgroundOpacity = 60.0 // absolute percentage
	HoverScale           = 1.15
)

// Connection lines.
const (
	LineThresholdDefault   = 15.0
	LineMaxPerItemDefault  = 3
	LineOpacity            = 0.15
	ConnectionMinEndpoints = 2
)

// Title similarity.
const similarMinPrefixLen = 4
