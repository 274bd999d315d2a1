package gallery

import "math"

// LineSegment joins two rendered item positions.
type LineSegment struct {
	A, B Vec3
}

// lineValidZ excludes items still animating in from the parking depth.
const lineValidZ = SentinelZ / 1.1

type lineCell struct{ x, y, z int }

// ConnectionSegments links nearby items for the connections view mode: each
// pair closer than threshold yields one segment, with at most maxPerItem
// links per item. Neighbor lookup goes through a spatial hash so the scan
// stays proportional to local density. ids fixes the visit order.
func ConnectionSegments(ids []string, pos map[string]Vec3, threshold float64, maxPerItem int) []LineSegment {
	if threshold <= 0 {
		threshold = LineThresholdDefault
	}
	if maxPerItem <= 0 {
		maxPerItem = LineMaxPerItemDefault
	}

	valid := make([]Vec3, 0, len(ids))
	for _, id := range ids {
		p, ok := pos[id]
		if ok && p.Z > lineValidZ {
			valid = append(valid, p)
		}
	}
	if len(valid) < ConnectionMinEndpoints {
		return nil
	}

	cellSize := math.Max(1, threshold)
	cellOf := func(p Vec3) lineCell {
		return lineCell{
			int(math.Floor(p.X / cellSize)),
			int(math.Floor(p.Y / cellSize)),
			int(math.Floor(p.Z / cellSize)),
		}
	}
	grid := map[lineCell][]int{}
	for i, p := range valid {
		c := cellOf(p)
		grid[c] = append(grid[c], i)
	}

	thresholdSq := threshold * threshold
	counts := make([]int, len(valid))
	seen := map[[2]int]bool{}
	var out []LineSegment
	for i, p := range valid {
		if counts[i] >= maxPerItem {
			continue
		}
		c := cellOf(p)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					for _, j := range grid[lineCell{c.x + dx, c.y + dy, c.z + dz}] {
						if j == i || counts[i] >= maxPerItem || counts[j] >= maxPerItem {
							continue
						}
						key := [2]int{i, j}
						if j < i {
							key = [2]int{j, i}
						}
						if seen[key] {
							continue
						}
						if p.DistSqTo(valid[j]) > thresholdSq {
							continue
						}
						seen[key] = true
						counts[i]++
						counts[j]++
						out = append(out, LineSegment{A: p, B: valid[j]})
					}
				}
			}
		}
	}
	return out
}
