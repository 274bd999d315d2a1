package gallery

import (
	"fmt"
	"math"
)

// LayoutKind selects the unfocused arrangement of the working set.
type LayoutKind int

const (
	LayoutGrid LayoutKind = iota
	LayoutColumn
	LayoutRow
	LayoutSpiral
	LayoutRandom3D
	LayoutSphereSurface
	LayoutTube
)

var layoutNames = map[LayoutKind]string{
	LayoutGrid:          "grid",
	LayoutColumn:        "column",
	LayoutRow:           "row",
	LayoutSpiral:        "spiral",
	LayoutRandom3D:      "random-3d",
	LayoutSphereSurface: "sphere-surface",
	LayoutTube:          "tube",
}

func (k LayoutKind) String() string {
	if n, ok := layoutNames[k]; ok {
		return n
	}
	return fmt.Sprintf("layout(%d)", int(k))
}

// ParseLayoutKind maps a wire/config name onto a LayoutKind.
func ParseLayoutKind(s string) (LayoutKind, error) {
	for k, n := range layoutNames {
		if n == s {
			return k, nil
		}
	}
	return LayoutGrid, fmt.Errorf("unknown layout kind %q", s)
}

// scatters reports whether the kind spreads items by noise rather than by a
// fixed lattice. Scatter kinds shuffle item order and skip post-jitter.
func (k LayoutKind) scatters() bool {
	return k == LayoutRandom3D || k == LayoutSphereSurface
}

// ComputeLayout places every id for an unfocused scene. The stream drives the
// shuffle for scatter kinds, scatter placement itself, and the post-placement
// jitter for lattice kinds; callers re-seed it per recompute so results are
// reproducible for a given (seed, item count, kind, noise).
func ComputeLayout(ids []string, kind LayoutKind, noise float64, stream *JitterStream) map[string]Vec3 {
	n := len(ids)
	targets := make(map[string]Vec3, n)
	if n == 0 {
		return targets
	}

	order := make([]string, n)
	copy(order, ids)
	if kind.scatters() && n > 1 {
		stream.Shuffle(order)
	}

	// Zero noise collapses the scatter kinds onto the origin so the pile
	// reads as intentional instead of a degenerate scatter.
	collapse := kind.scatters() && noise == 0 && n > 1
	scatterRadius := ScatterBaseRadius
	if collapse {
		scatterRadius = 0
	}

	base := make([]Vec3, 0, n)
	switch kind {
	case LayoutColumn:
		spacing := LayoutBaseRadius * 0.25
		for i := 0; i < n; i++ {
			base = append(base, Vec3{0, (float64(i) - float64(n-1)/2) * spacing * -1, 0})
		}
	case LayoutRow:
		spacing := LayoutBaseRadius * 0.3
		for i := 0; i < n; i++ {
			base = append(base, Vec3{(float64(i) - float64(n-1)/2) * spacing, 0, 0})
		}
	case LayoutSpiral:
		turnScale := LayoutBaseRadius * 0.1
		angleStep := 0.3 + 3.0/math.Max(1, float64(n)*0.1)
		zStep := -0.05 * (LayoutBaseRadius / 10)
		for i := 0; i < n; i++ {
			a := float64(i) * angleStep
			r := turnScale * a * 0.5
			base = append(base, Vec3{r * math.Cos(a), r * math.Sin(a), float64(i) * zStep})
		}
	case LayoutRandom3D:
		for i := 0; i < n; i++ {
			if collapse {
				base = append(base, Vec3{})
				continue
			}
			theta := stream.Next() * 2 * math.Pi
			phi := math.Acos(2*stream.Next() - 1)
			r := scatterRadius * noise * math.Cbrt(stream.Next())
			base = append(base, Vec3{
				r * math.Sin(phi) * math.Cos(theta),
				r * math.Sin(phi) * math.Sin(theta),
				r * math.Cos(phi) * ScatterDepthEmphasis,
			})
		}
	case LayoutSphereSurface:
		golden := math.Pi * (math.Sqrt(5) - 1)
		for i := 0; i < n; i++ {
			if collapse {
				base = append(base, Vec3{})
				continue
			}
			y := 1 - (float64(i)/math.Max(1, float64(n-1)))*2
			r := math.Sqrt(1 - y*y)
			theta := golden * float64(i)
			s := scatterRadius * noise
			base = append(base, Vec3{math.Cos(theta) * r * s, y * s, math.Sin(theta) * r * s})
		}
	case LayoutTube:
		tubeRadius := LayoutBaseRadius * 0.7
		tubeHeight := LayoutBaseRadius * 1.5
		perRow := n / int(math.Max(1, math.Round(tubeHeight/(LayoutBaseRadius*0.3))))
		if perRow == 0 {
			perRow = 8
		}
		rows := (n + perRow - 1) / perRow
		if rows < 1 {
			rows = 1
		}
		rowHeight := 0.0
		if rows > 1 {
			rowHeight = tubeHeight / math.Max(1, float64(rows-1))
		}
		for i := 0; i < n; i++ {
			row := i / perRow
			inRow := i % perRow
			inThisRow := perRow
			if row == rows-1 && n%perRow != 0 {
				inThisRow = n % perRow
			}
			a := (float64(inRow)/math.Max(1, float64(inThisRow)))*2*math.Pi +
				float64(row%2)*(math.Pi/math.Max(1, float64(inThisRow)))
			y := 0.0
			if rows > 1 {
				y = float64(row)*rowHeight - tubeHeight/2
			}
			base = append(base, Vec3{tubeRadius * math.Cos(a), y, tubeRadius * math.Sin(a)})
		}
	default: // LayoutGrid
		perRow := int(math.Max(1, math.Ceil(math.Sqrt(float64(n)))))
		spacing := LayoutBaseRadius * 0.3
		rows := int(math.Max(1, math.Ceil(float64(n)/float64(perRow))))
		for i := 0; i < n; i++ {
			r := i / perRow
			c := i % perRow
			base = append(base, Vec3{
				(float64(c) - float64(perRow-1)/2) * spacing,
				(float64(r) - float64(rows-1)/2) * spacing * -1,
				0,
			})
		}
	}

	jitterMag := noise * LayoutBaseRadius * 0.05
	for i, id := range order {
		p := base[i]
		if noise > 0.001 && !kind.scatters() {
			p.X += (stream.Next() - 0.5) * jitterMag
			p.Y += (stream.Next() - 0.5) * jitterMag
			p.Z += (stream.Next() - 0.5) * jitterMag * 0.5
		}
		targets[id] = p
	}
	return targets
}

// RingMemory carries focus-ring placement state across target recomputes: the
// stable far-background scatter, the previously published targets, and the
// identity of the last focus arrangement. It is what makes the hysteresis
// rule observable.
type RingMemory struct {
	farCache    map[string]Vec3
	lastTargets map[string]Vec3

	prevFocusedID  string
	prevMusician   string
	prevHadFocus   bool
	prevPrimarySet map[string]bool
}

func NewRingMemory() *RingMemory {
	return &RingMemory{
		farCache:       map[string]Vec3{},
		lastTargets:    map[string]Vec3{},
		prevPrimarySet: map[string]bool{},
	}
}

// freezes reports whether secondary and far-background targets should be held
// at their previous values: the focus moved within the same musician's
// primary cluster, so the outer rings must not re-scatter.
func (m *RingMemory) freezes(focused MediaItem) bool {
	return m.prevFocusedID != "" &&
		m.prevHadFocus &&
		focused.Musician == m.prevMusician &&
		(m.prevPrimarySet[focused.ID] || focused.ID == m.prevFocusedID)
}

// CommitFocused records the arrangement that was just published so the next
// recompute can evaluate the hysteresis rule against it.
func (m *RingMemory) CommitFocused(targets map[string]Vec3, focused MediaItem, primary map[string]bool) {
	m.lastTargets = cloneTargets(targets)
	cluster := make(map[string]bool, len(primary)+1)
	for id := range primary {
		cluster[id] = true
	}
	cluster[focused.ID] = true
	m.prevPrimarySet = cluster
	m.prevFocusedID = focused.ID
	m.prevMusician = focused.Musician
	m.prevHadFocus = true
}

// CommitUnfocused resets the focus history; the far-background scatter is
// dropped so the next focus gets a fresh one.
func (m *RingMemory) CommitUnfocused(targets map[string]Vec3) {
	m.lastTargets = cloneTargets(targets)
	m.prevPrimarySet = map[string]bool{}
	m.prevFocusedID = ""
	m.prevMusician = ""
	m.prevHadFocus = false
	m.farCache = map[string]Vec3{}
}

func cloneTargets(targets map[string]Vec3) map[string]Vec3 {
	out := make(map[string]Vec3, len(targets))
	for id, p := range targets {
		out[id] = p
	}
	return out
}

// FocusRingLayout places the focused arrangement: the focused item on the
// near plane, its primary cluster in a tight ring in front, secondary items
// in a wider mid ring, and the rest scattered far behind. order fixes ring
// slot assignment; sets classifies each id.
func FocusRingLayout(focused MediaItem, order []string, sets FocusSets, mem *RingMemory, stream *JitterStream) map[string]Vec3 {
	targets := make(map[string]Vec3, len(order)+1)
	targets[focused.ID] = Vec3{0, 0, ZForegroundFocus}

	freeze := mem.freezes(focused)
	// A fresh focus or a musician change re-scatters the far background; a
	// previous focus without a musician never pins the scatter.
	force := !mem.prevHadFocus || mem.prevMusician == "" || focused.Musician != mem.prevMusician
	if force {
		mem.farCache = map[string]Vec3{}
	}

	var primary, secondary, far []string
	for _, id := range order {
		switch {
		case sets.Primary[id]:
			primary = append(primary, id)
		case sets.Secondary[id]:
			secondary = append(secondary, id)
		case sets.Far[id]:
			far = append(far, id)
		}
	}

	pn := math.Max(1, float64(len(primary)))
	for i, id := range primary {
		angleOffset := 0.0
		if len(primary) > 1 {
			angleOffset = math.Pi * 0.3 / float64(len(primary))
		}
		angle := (float64(i)/pn)*2*math.Pi + angleOffset +
			(stream.Next()-0.5)*(PrimaryRingAngleJitter/pn)
		radius := PrimaryRingMinRadius + stream.Next()*(PrimaryRingMaxRadius-PrimaryRingMinRadius)
		targets[id] = Vec3{
			radius * math.Cos(angle),
			radius*math.Sin(angle)*PrimaryRingYSpread + PrimaryRingYOffset,
			ZPrimaryRing + (stream.Next()-0.5)*PrimaryRingZJitter,
		}
	}

	sn := math.Max(1, float64(len(secondary)))
	for i, id := range secondary {
		if freeze {
			if prev, ok := mem.lastTargets[id]; ok {
				targets[id] = prev
				continue
			}
		}
		angleOffset := 0.0
		if len(secondary) > 1 {
			angleOffset = math.Pi * 0.2 / float64(len(secondary))
		}
		angle := (float64(i)/sn)*2*math.Pi + angleOffset +
			(stream.Next()-0.5)*(SecondaryRingAngleJitter/sn)
		radius := SecondaryRingMinRadius + stream.Next()*(SecondaryRingMaxRadius-SecondaryRingMinRadius)
		targets[id] = Vec3{
			radius * math.Cos(angle),
			radius*math.Sin(angle)*SecondaryRingYSpread + SecondaryRingYOffset,
			ZSecondaryRing + (stream.Next()-0.5)*SecondaryRingZJitter,
		}
	}

	for _, id := range far {
		pos, ok := mem.farCache[id]
		if !ok && freeze {
			pos, ok = mem.lastTargets[id]
		}
		if !ok {
			angle := stream.Next() * 2 * math.Pi
			f := 0.6 + stream.Next()*0.4
			rx := FarBackgroundMinRadX + (FarBackgroundMaxRadX-FarBackgroundMinRadX)*f
			ry := FarBackgroundMinRadY + (FarBackgroundMaxRadY-FarBackgroundMinRadY)*f
			pos = Vec3{
				rx * math.Cos(angle),
				ry * math.Sin(angle),
				ZFarBackground + (stream.Next()-0.5)*FarBackgroundDepthSpan,
			}
			if !freeze {
				mem.farCache[id] = pos
			}
		}
		targets[id] = pos
	}
	return targets
}
