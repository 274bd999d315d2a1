package gallery

import "math"

// RateClass selects how quickly an item chases its target. Focused items move
// fastest, far-background items slowest, so a focus change reads as the
// foreground snapping into place while the backdrop drifts after it.
type RateClass int

const (
	RateDefault RateClass = iota
	RateFocused
	RatePrimary
	RateSecondary
	RateFar
)

func (c RateClass) multiplier() float64 {
	switch c {
	case RateFocused:
		return LerpRateFocused
	case RatePrimary:
		return LerpRatePrimary
	case RateSecondary:
		return LerpRateSecondary
	case RateFar:
		return LerpRateFar
	default:
		return 1.0
	}
}

type animRecord struct {
	current Vec3
	target  Vec3
	class   RateClass
}

// PositionAnimator owns the per-item motion state: each item's current
// position eases toward its target with a class-scaled, frame-rate-compensated
// lerp, snapping once close enough. Unfocused on-scene items additionally get
// a slow breathing oscillation on the rendered output; the stored base
// position never accumulates it.
type PositionAnimator struct {
	records map[string]*animRecord
	clock   float64
}

func NewPositionAnimator() *PositionAnimator {
	return &PositionAnimator{records: map[string]*animRecord{}}
}

// SyncItems reconciles the record set with the working set: new ids spawn
// parked at the off-scene sentinel, ids no longer present are dropped.
func (a *PositionAnimator) SyncItems(ids []string) {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
		if _, ok := a.records[id]; !ok {
			a.records[id] = &animRecord{current: SentinelPosition, target: SentinelPosition}
		}
	}
	for id := range a.records {
		if !keep[id] {
			delete(a.records, id)
		}
	}
}

// SetTargets publishes a new target map. Records with no entry in targets are
// sent back to the sentinel. class assigns each record its rate class for
// this arrangement.
func (a *PositionAnimator) SetTargets(targets map[string]Vec3, class func(id string) RateClass) {
	for id, rec := range a.records {
		if t, ok := targets[id]; ok {
			rec.target = t
		} else {
			rec.target = SentinelPosition
		}
		rec.class = class(id)
	}
}

// Step advances every item by dt seconds. The lerp factor is tuned against a
// 60 Hz frame and clamped so long frames cannot overshoot.
func (a *PositionAnimator) Step(dt float64) {
	a.clock += dt
	for _, rec := range a.records {
		if rec.current == rec.target {
			continue
		}
		factor := clampF(BaseLerpFactor*rec.class.multiplier()*dt*ReferenceFrameRate, 0, 1)
		rec.current = rec.current.Lerp(rec.target, factor)
		snapSq := SnapDistSq
		if rec.target.Z < SentinelZ+2000 {
			snapSq = SnapDistSqSentinel
		}
		if rec.current.DistSqTo(rec.target) < snapSq {
			rec.current = rec.target
		}
	}
}

// BasePosition returns the eased position without breathing.
func (a *PositionAnimator) BasePosition(id string) (Vec3, bool) {
	rec, ok := a.records[id]
	if !ok {
		return Vec3{}, false
	}
	return rec.current, true
}

// OnScene reports whether the item has animated clear of the sentinel.
func (a *PositionAnimator) OnScene(id string) bool {
	rec, ok := a.records[id]
	return ok && rec.current.Z > OnSceneZ
}

// Settled reports whether the item has reached its target exactly.
func (a *PositionAnimator) Settled(id string) bool {
	rec, ok := a.records[id]
	return ok && rec.current == rec.target
}

// RenderPosition returns the position to draw the item at this frame: the
// eased base plus the breathing offset. Focused and off-scene items do not
// breathe.
func (a *PositionAnimator) RenderPosition(id string) (Vec3, bool) {
	rec, ok := a.records[id]
	if !ok {
		return Vec3{}, false
	}
	return a.breathe(id, rec), true
}

// EachRendered visits every record with its rendered position.
func (a *PositionAnimator) EachRendered(fn func(id string, pos Vec3)) {
	for id, rec := range a.records {
		fn(id, a.breathe(id, rec))
	}
}

func (a *PositionAnimator) breathe(id string, rec *animRecord) Vec3 {
	p := rec.current
	if rec.class == RateFocused || p.Z <= OnSceneZ {
		return p
	}
	p.X += math.Sin(a.clock*BreathFrequency+idPhase(id, 0)) * BreathAmplitudeX
	p.Y += math.Sin(a.clock*BreathFrequency+idPhase(id, 133)) * BreathAmplitudeY
	p.Z += math.Sin(a.clock*BreathFrequency*BreathZFreqScale+idPhase(id, 277)) * BreathAmplitudeZ
	return p
}
