package chart

// Label is a text box to be placed near its anchor point.
type Label struct {
	Text    string  `json:"text"`
	AnchorX float64 `json:"anchor_x"`
	AnchorY float64 `json:"anchor_y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
}

// Placement is the resolved position for a label.
type Placement struct {
	Label     Label `json:"label"`
	Box       Rect  `json:"box"`
	Displaced bool  `json:"displaced"`
}

// candidateOffsets are tried in order for each label: right of the anchor
// first, then left, above, below, then diagonals, then the same ring at
// double distance. Multipliers are in units of the label's own size.
var candidateOffsets = [][2]float64{
	{0.5, -0.5},
	{-1.5, -0.5},
	{-0.5, -1.5},
	{-0.5, 0.5},
	{0.5, -1.5},
	{-1.5, -1.5},
	{0.5, 0.5},
	{-1.5, 0.5},
	{1.0, -0.5},
	{-2.0, -0.5},
	{-0.5, -2.0},
	{-0.5, 1.0},
}

// Resolver places labels one at a time, keeping placed boxes and anchor
// points in a spatial index. Placement order is input order, so results
// are deterministic.
type Resolver struct {
	index   *SpatialIndex
	padding float64
}

func NewResolver(cellSize, padding float64) *Resolver {
	return &Resolver{
		index:   NewSpatialIndex(cellSize),
		padding: padding,
	}
}

// Place lays out all labels. Each label tries the candidate offsets in
// order; if every candidate collides, the label is displaced straight
// down below the lowest colliding box.
func (r *Resolver) Place(labels []Label) []Placement {
	r.index.Reset()

	// Anchor points participate in collision so labels do not cover the
	// data markers themselves.
	for _, l := range labels {
		r.index.Insert(Rect{X: l.AnchorX - 2, Y: l.AnchorY - 2, W: 4, H: 4})
	}

	out := make([]Placement, 0, len(labels))
	for _, l := range labels {
		p := r.placeOne(l)
		r.index.Insert(p.Box)
		out = append(out, p)
	}
	return out
}

func (r *Resolver) placeOne(l Label) Placement {
	for _, off := range candidateOffsets {
		box := r.pad(Rect{
			X: l.AnchorX + off[0]*l.W,
			Y: l.AnchorY + off[1]*l.H,
			W: l.W,
			H: l.H,
		})
		if !r.index.Collides(box) {
			return Placement{Label: l, Box: r.unpad(box)}
		}
	}

	// Fallback: walk straight down from the anchor until a free slot.
	box := r.pad(Rect{X: l.AnchorX - l.W/2, Y: l.AnchorY + l.H, W: l.W, H: l.H})
	for r.index.Collides(box) {
		box.Y += l.H + r.padding
	}
	return Placement{Label: l, Box: r.unpad(box), Displaced: true}
}

func (r *Resolver) pad(b Rect) Rect {
	return Rect{X: b.X - r.padding, Y: b.Y - r.padding, W: b.W + 2*r.padding, H: b.H + 2*r.padding}
}

func (r *Resolver) unpad(b Rect) Rect {
	return Rect{X: b.X + r.padding, Y: b.Y + r.padding, W: b.W - 2*r.padding, H: b.H - 2*r.padding}
}
