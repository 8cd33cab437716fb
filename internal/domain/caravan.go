package domain

import "fmt"

// Direction is the ordering a caravan's anchors must continue.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionAscending
	DirectionDescending
)

// Reverse flips ascending and descending; DirectionNone stays unset.
func (d Direction) Reverse() Direction {
	switch d {
	case DirectionAscending:
		return DirectionDescending
	case DirectionDescending:
		return DirectionAscending
	default:
		return DirectionNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionAscending:
		return "ascending"
	case DirectionDescending:
		return "descending"
	default:
		return "none"
	}
}

// Layer is one anchor card and the face cards attached to it.
type Layer struct {
	Anchor   Card
	Attached []Card
}

// Value is the anchor value doubled once per attached King.
func (l Layer) Value() int {
	v := l.Anchor.Value()
	for _, c := range l.Attached {
		if c.Rank == RankKing {
			v *= 2
		}
	}
	return v
}

// Cards returns the anchor followed by its attachments.
func (l Layer) Cards() []Card {
	out := make([]Card, 0, len(l.Attached)+1)
	out = append(out, l.Anchor)
	return append(out, l.Attached...)
}

func (l Layer) holds(id CardID) bool {
	if l.Anchor.ID == id {
		return true
	}
	for _, c := range l.Attached {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Lane names a caravan slot; the same lane of both players is compared for the win.
type Lane string

const (
	LaneA Lane = "A"
	LaneB Lane = "B"
	LaneC Lane = "C"
)

// Lanes lists the three lanes in table order.
var Lanes = []Lane{LaneA, LaneB, LaneC}

// CaravanID identifies one of the six caravans, e.g. "p1-A".
type CaravanID string

// CaravanIDFor builds the id of the owner's caravan in the given lane.
func CaravanIDFor(owner PlayerID, lane Lane) CaravanID {
	return CaravanID(fmt.Sprintf("p%d-%s", int(owner), lane))
}

// Caravan is an ordered stack of layers, bottom first. Value, direction and suit
// are derived from the layers on every call.
type Caravan struct {
	ID     CaravanID
	Owner  PlayerID
	Lane   Lane
	Layers []Layer
}

// NewCaravan returns an empty caravan for the owner's lane.
func NewCaravan(owner PlayerID, lane Lane) *Caravan {
	return &Caravan{ID: CaravanIDFor(owner, lane), Owner: owner, Lane: lane}
}

func (c *Caravan) Len() int    { return len(c.Layers) }
func (c *Caravan) Empty() bool { return len(c.Layers) == 0 }
func (c *Caravan) Full() bool  { return len(c.Layers) >= MaxLayers }

// Top returns the most recently added layer.
func (c *Caravan) Top() (Layer, bool) {
	if c.Empty() {
		return Layer{}, false
	}
	return c.Layers[len(c.Layers)-1], true
}

// Value sums the layer values.
func (c *Caravan) Value() int {
	total := 0
	for _, l := range c.Layers {
		total += l.Value()
	}
	return total
}

// Direction compares the top two anchors. Equal ranks reset it to DirectionNone,
// and each Queen on the top layer reverses it.
func (c *Caravan) Direction() Direction {
	n := len(c.Layers)
	if n < 2 {
		return DirectionNone
	}
	top, prev := c.Layers[n-1].Anchor, c.Layers[n-2].Anchor

	var d Direction
	switch {
	case top.Rank == prev.Rank:
		d = DirectionNone
	case top.Value() > prev.Value():
		d = DirectionAscending
	default:
		d = DirectionDescending
	}
	for _, a := range c.Layers[n-1].Attached {
		if a.Rank == RankQueen {
			d = d.Reverse()
		}
	}
	return d
}

// Suit is the suit of the top anchor, overridden by the last Queen attached to it.
func (c *Caravan) Suit() Suit {
	top, ok := c.Top()
	if !ok {
		return SuitNone
	}
	s := top.Anchor.Suit
	for _, a := range top.Attached {
		if a.Rank == RankQueen {
			s = a.Suit
		}
	}
	return s
}

// LayerOf returns the index of the layer holding the card as anchor or attachment, or -1.
func (c *Caravan) LayerOf(id CardID) int {
	for i, l := range c.Layers {
		if l.holds(id) {
			return i
		}
	}
	return -1
}

// AddLayer places an anchor on top of the caravan.
func (c *Caravan) AddLayer(anchor Card) {
	c.Layers = append(c.Layers, Layer{Anchor: anchor})
}

// Attach adds a face card to layer i.
func (c *Caravan) Attach(i int, face Card) {
	l := &c.Layers[i]
	l.Attached = append(l.Attached, face)
}

// RemoveLayer removes layer i and returns its cards.
func (c *Caravan) RemoveLayer(i int) []Card {
	removed := c.Layers[i].Cards()
	c.Layers = append(c.Layers[:i:i], c.Layers[i+1:]...)
	return removed
}

// TrimToBase removes every layer but the bottom one and returns the removed cards.
func (c *Caravan) TrimToBase() []Card {
	var removed []Card
	for len(c.Layers) > 1 {
		removed = append(removed, c.RemoveLayer(len(c.Layers)-1)...)
	}
	return removed
}

// Clone returns a deep copy.
func (c *Caravan) Clone() *Caravan {
	out := &Caravan{ID: c.ID, Owner: c.Owner, Lane: c.Lane}
	if len(c.Layers) > 0 {
		out.Layers = make([]Layer, len(c.Layers))
		for i, l := range c.Layers {
			out.Layers[i] = Layer{Anchor: l.Anchor, Attached: append([]Card(nil), l.Attached...)}
		}
	}
	return out
}
