package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoverSpringsSwellAndSettle(t *testing.T) {
	h := newHoverSprings()
	var s float64
	for i := 0; i < 600; i++ {
		s = h.scaleFor("a", true)
	}
	assert.InDelta(t, HoverScale, s, 0.01)

	for i := 0; i < 600; i++ {
		s = h.scaleFor("a", false)
	}
	assert.InDelta(t, 1.0, s, 0.01)
}

func TestHoverSpringsDropRemovedItems(t *testing.T) {
	h := newHoverSprings()
	h.scaleFor("a", true)
	h.scaleFor("b", false)
	h.sweep()
	require.Contains(t, h.pos, "a")
	require.Contains(t, h.pos, "b")

	// "a" leaves the working set: the next sweep forgets its spring state.
	h.scaleFor("b", false)
	h.sweep()
	assert.NotContains(t, h.pos, "a")
	assert.NotContains(t, h.vel, "a")
	assert.Contains(t, h.pos, "b")
}
