package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Intersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}

	assert.True(t, a.Intersects(Rect{X: 5, Y: 5, W: 10, H: 10}))
	assert.True(t, a.Intersects(Rect{X: -5, Y: -5, W: 10, H: 10}))
	assert.False(t, a.Intersects(Rect{X: 10, Y: 0, W: 10, H: 10}), "touching edges do not overlap")
	assert.False(t, a.Intersects(Rect{X: 20, Y: 20, W: 5, H: 5}))
}

func TestSpatialIndex_Collides(t *testing.T) {
	idx := NewSpatialIndex(32)

	idx.Insert(Rect{X: 10, Y: 10, W: 20, H: 10})

	assert.True(t, idx.Collides(Rect{X: 15, Y: 15, W: 5, H: 5}))
	assert.False(t, idx.Collides(Rect{X: 100, Y: 100, W: 5, H: 5}))

	// A rect spanning multiple cells must be found from any of them.
	idx.Insert(Rect{X: 0, Y: 60, W: 200, H: 10})
	assert.True(t, idx.Collides(Rect{X: 150, Y: 62, W: 5, H: 5}))
}

func TestSpatialIndex_ResetDropsOldGenerations(t *testing.T) {
	idx := NewSpatialIndex(32)

	for i := 0; i < 100; i++ {
		idx.Insert(Rect{X: float64(i * 10), Y: 0, W: 8, H: 8})
	}
	assert.Greater(t, idx.Len(), 0)

	idx.Reset()
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Collides(Rect{X: 0, Y: 0, W: 500, H: 8}))
}

func TestSpatialIndex_CleanupBoundsMemory(t *testing.T) {
	idx := NewSpatialIndex(32)
	idx.cleanupEvery = 10

	idx.Reset() // generation 1; inserts below stay live through cleanup
	for i := 0; i < 50; i++ {
		idx.Insert(Rect{X: float64(i * 40), Y: 0, W: 8, H: 8})
	}
	// Live entries survive periodic cleanup.
	assert.True(t, idx.Collides(Rect{X: 0, Y: 0, W: 9, H: 9}))
	assert.True(t, idx.Collides(Rect{X: 49 * 40, Y: 0, W: 9, H: 9}))
}
