package domain

// LayerView is the read-only rendering of a layer.
type LayerView struct {
	Anchor   Card   `json:"anchor"`
	Attached []Card `json:"attached,omitempty"`
	Value    int    `json:"value"`
}

// CaravanView is the read-only rendering of a caravan.
type CaravanView struct {
	ID        CaravanID   `json:"id"`
	Owner     PlayerID    `json:"owner"`
	Lane      Lane        `json:"lane"`
	Layers    []LayerView `json:"layers"`
	Value     int         `json:"value"`
	Direction string      `json:"direction"`
	Suit      Suit        `json:"suit,omitempty"`
	Sold      bool        `json:"sold"`
}

// PlayerView is the read-only rendering of a seat. Hand is nil when masked.
type PlayerView struct {
	ID          PlayerID `json:"id"`
	Hand        []Card   `json:"hand,omitempty"`
	HandSize    int      `json:"hand_size"`
	PileSize    int      `json:"pile_size"`
	OpeningLeft int      `json:"opening_left"`
}

// Snapshot is the full state handed to presentation layers after every transition.
// It shares no memory with the game.
type Snapshot struct {
	Phase       Phase         `json:"phase"`
	Turn        int           `json:"turn"`
	Active      PlayerID      `json:"active"`
	Winner      PlayerID      `json:"winner"`
	Stalemate   bool          `json:"stalemate"`
	Caravans    []CaravanView `json:"caravans"`
	Players     []PlayerView  `json:"players"`
	DiscardSize int           `json:"discard_size"`
	Lanes       []LaneResult  `json:"lanes"`
}

// Snapshot renders the current state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:       g.Phase,
		Turn:        g.Turn,
		Active:      g.Active,
		Winner:      g.Winner,
		Stalemate:   g.Stalemate,
		DiscardSize: len(g.Discard),
	}
	for _, c := range g.Caravans {
		cv := CaravanView{
			ID:        c.ID,
			Owner:     c.Owner,
			Lane:      c.Lane,
			Layers:    make([]LayerView, 0, c.Len()),
			Value:     c.Value(),
			Direction: c.Direction().String(),
			Suit:      c.Suit(),
		}
		cv.Sold = Sold(cv.Value)
		for _, l := range c.Layers {
			cv.Layers = append(cv.Layers, LayerView{
				Anchor:   l.Anchor,
				Attached: append([]Card(nil), l.Attached...),
				Value:    l.Value(),
			})
		}
		s.Caravans = append(s.Caravans, cv)
	}
	for _, p := range g.Players {
		s.Players = append(s.Players, PlayerView{
			ID:          p.ID,
			Hand:        append([]Card{}, p.Hand...),
			HandSize:    len(p.Hand),
			PileSize:    len(p.Pile),
			OpeningLeft: p.OpeningLeft,
		})
	}
	lanes := EvaluateLanes(g)
	s.Lanes = lanes[:]
	return s
}

// MaskedFor hides every hand except the viewer's, keeping hand sizes.
func (s Snapshot) MaskedFor(viewer PlayerID) Snapshot {
	out := s
	out.Players = make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		if p.ID != viewer {
			p.Hand = nil
		}
		out.Players[i] = p
	}
	return out
}
