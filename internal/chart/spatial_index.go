// Package chart lays out data-point labels so they do not overlap each
// other or the points they annotate. The layout runs server-side so thin
// clients can render the returned geometry directly.
package chart

import "math"

// Rect is an axis-aligned rectangle in chart pixel coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// SpatialIndex buckets rectangles into a uniform grid so collision
// candidates for a query rect come from a handful of cells instead of a
// scan over every placed label.
type SpatialIndex struct {
	cellSize float64
	cells    map[cellKey][]entry

	generation int
	inserts    int
	// cleanupEvery bounds memory: after this many inserts, entries from
	// generations older than the current one are dropped.
	cleanupEvery int
}

type cellKey struct {
	cx, cy int
}

type entry struct {
	rect       Rect
	generation int
}

// NewSpatialIndex creates an index with the given cell size. Cell size
// should be on the order of a typical label box; too small wastes cells,
// too large degenerates to a linear scan.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 32
	}
	return &SpatialIndex{
		cellSize:     cellSize,
		cells:        make(map[cellKey][]entry),
		cleanupEvery: 256,
	}
}

func (s *SpatialIndex) cellRange(r Rect) (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(r.X / s.cellSize))
	minY = int(math.Floor(r.Y / s.cellSize))
	maxX = int(math.Floor((r.X + r.W) / s.cellSize))
	maxY = int(math.Floor((r.Y + r.H) / s.cellSize))
	return
}

// Insert registers a rectangle in every grid cell it touches.
func (s *SpatialIndex) Insert(r Rect) {
	minX, minY, maxX, maxY := s.cellRange(r)
	e := entry{rect: r, generation: s.generation}
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			k := cellKey{cx, cy}
			s.cells[k] = append(s.cells[k], e)
		}
	}

	s.inserts++
	if s.inserts >= s.cleanupEvery {
		s.cleanup()
	}
}

// Collides reports whether r overlaps any inserted rectangle. Only the
// cells r touches are examined.
func (s *SpatialIndex) Collides(r Rect) bool {
	minX, minY, maxX, maxY := s.cellRange(r)
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for _, e := range s.cells[cellKey{cx, cy}] {
				if r.Intersects(e.rect) {
					return true
				}
			}
		}
	}
	return false
}

// Reset starts a new generation. Entries from prior generations survive
// until the next cleanup but no longer need to be collision-checked
// against; callers that reuse an index across chart renders call Reset
// between renders.
func (s *SpatialIndex) Reset() {
	s.generation++
	s.cleanup()
}

func (s *SpatialIndex) cleanup() {
	for k, es := range s.cells {
		kept := es[:0]
		for _, e := range es {
			if e.generation == s.generation {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(s.cells, k)
		} else {
			s.cells[k] = kept
		}
	}
	s.inserts = 0
}

// Len returns the number of live entries, counting each rect once per
// cell it spans. Exposed for tests.
func (s *SpatialIndex) Len() int {
	n := 0
	for _, es := range s.cells {
		n += len(es)
	}
	return n
}
