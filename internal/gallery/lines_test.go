package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionSegmentsThreshold(t *testing.T) {
	ids := []string{"a", "b", "c"}
	pos := map[string]Vec3{
		"a": {0, 0, 0},
		"b": {3, 0, 0},
		"c": {100, 0, 0},
	}
	segs := ConnectionSegments(ids, pos, 15, 3)
	require.Len(t, segs, 1)
	assert.Equal(t, Vec3{0, 0, 0}, segs[0].A)
	assert.Equal(t, Vec3{3, 0, 0}, segs[0].B)
}

func TestConnectionSegmentsMaxPerItem(t *testing.T) {
	// A hub with five close neighbors can only link to two of them.
	ids := []string{"hub", "n1", "n2", "n3", "n4", "n5"}
	pos := map[string]Vec3{
		"hub": {0, 0, 0},
		"n1":  {1, 0, 0},
		"n2":  {0, 1, 0},
		"n3":  {0, 0, 1},
		"n4":  {-1, 0, 0},
		"n5":  {0, -1, 0},
	}
	segs := ConnectionSegments(ids, pos, 1.5, 2)

	counts := map[Vec3]int{}
	for _, s := range segs {
		counts[s.A]++
		counts[s.B]++
	}
	for p, n := range counts {
		assert.LessOrEqual(t, n, 2, "position %v over-linked", p)
	}
}

func TestConnectionSegmentsNeedTwoEndpoints(t *testing.T) {
	assert.Nil(t, ConnectionSegments(nil, nil, 15, 3))
	assert.Nil(t, ConnectionSegments([]string{"a"}, map[string]Vec3{"a": {}}, 15, 3))

	// Items still parked off scene do not count as endpoints.
	ids := []string{"a", "b"}
	pos := map[string]Vec3{
		"a": {0, 0, 0},
		"b": SentinelPosition,
	}
	assert.Nil(t, ConnectionSegments(ids, pos, 15, 3))
}

func TestConnectionSegmentsNoDuplicatePairs(t *testing.T) {
	ids := []string{"a", "b"}
	pos := map[string]Vec3{
		"a": {0, 0, 0},
		"b": {1, 0, 0},
	}
	segs := ConnectionSegments(ids, pos, 15, 3)
	assert.Len(t, segs, 1)
}
