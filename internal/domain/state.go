package domain

import "fmt"

// Phase represents the lifecycle stage of a round.
type Phase string

const (
	// PhasePlaying covers both the opening placements and normal play; the opening
	// phase is tracked per player by Player.OpeningLeft.
	PhasePlaying Phase = "playing"
	// PhaseEnded is terminal: a winner is decided or neither player can act.
	PhaseEnded Phase = "ended"
)

// PlayerID names one of the two seats.
type PlayerID int

const (
	PlayerNone PlayerID = 0
	PlayerOne  PlayerID = 1
	PlayerTwo  PlayerID = 2
)

// Opponent returns the other seat.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	default:
		return PlayerNone
	}
}

func (p PlayerID) String() string {
	if p == PlayerNone {
		return "none"
	}
	return fmt.Sprintf("p%d", int(p))
}

// Player holds the domain state of one seat.
type Player struct {
	ID   PlayerID
	Hand Hand
	Pile DrawPile
	// OpeningLeft counts the mandatory opening placements still owed.
	OpeningLeft int
}

// Game captures the full rules state of a round. It is owned by the turn engine.
type Game struct {
	Phase     Phase
	Players   [2]*Player
	Caravans  [6]*Caravan
	Discard   []Card
	Active    PlayerID
	Winner    PlayerID
	Stalemate bool
	Turn      int

	cardCount int
}

// NewGame seats two players with the given hands and piles, six empty caravans and
// player one to act.
func NewGame(hands [2]Hand, piles [2]DrawPile) *Game {
	g := &Game{Phase: PhasePlaying, Active: PlayerOne}
	for i, id := range []PlayerID{PlayerOne, PlayerTwo} {
		g.Players[i] = &Player{
			ID:          id,
			Hand:        append(Hand{}, hands[i]...),
			Pile:        append(DrawPile{}, piles[i]...),
			OpeningLeft: OpeningPlacements,
		}
		for j, lane := range Lanes {
			g.Caravans[i*len(Lanes)+j] = NewCaravan(id, lane)
		}
		g.cardCount += len(hands[i]) + len(piles[i])
	}
	return g
}

// Player returns the seat's state, or nil for an unknown id.
func (g *Game) Player(id PlayerID) *Player {
	switch id {
	case PlayerOne:
		return g.Players[0]
	case PlayerTwo:
		return g.Players[1]
	default:
		return nil
	}
}

// CaravansOf returns the owner's three caravans in lane order.
func (g *Game) CaravansOf(owner PlayerID) []*Caravan {
	switch owner {
	case PlayerOne:
		return g.Caravans[:3]
	case PlayerTwo:
		return g.Caravans[3:]
	default:
		return nil
	}
}

// Caravan looks a caravan up by id.
func (g *Game) Caravan(id CaravanID) *Caravan {
	for _, c := range g.Caravans {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CaravanAt returns the owner's caravan in a lane.
func (g *Game) CaravanAt(owner PlayerID, lane Lane) *Caravan {
	return g.Caravan(CaravanIDFor(owner, lane))
}

// Over reports whether the round has reached its terminal phase.
func (g *Game) Over() bool {
	return g.Phase == PhaseEnded
}

// locate resolves an action target: a caravan id yields layer -1, a card id on the
// table yields the index of the layer holding it.
func (g *Game) locate(target string) (*Caravan, int, bool) {
	if c := g.Caravan(CaravanID(target)); c != nil {
		return c, -1, true
	}
	for _, c := range g.Caravans {
		if i := c.LayerOf(CardID(target)); i >= 0 {
			return c, i, true
		}
	}
	return nil, -1, false
}

// Clone returns a deep copy, used by policies that look ahead.
func (g *Game) Clone() *Game {
	out := &Game{
		Phase:     g.Phase,
		Discard:   append([]Card(nil), g.Discard...),
		Active:    g.Active,
		Winner:    g.Winner,
		Stalemate: g.Stalemate,
		Turn:      g.Turn,
		cardCount: g.cardCount,
	}
	for i, p := range g.Players {
		out.Players[i] = &Player{
			ID:          p.ID,
			Hand:        append(Hand(nil), p.Hand...),
			Pile:        append(DrawPile(nil), p.Pile...),
			OpeningLeft: p.OpeningLeft,
		}
	}
	for i, c := range g.Caravans {
		out.Caravans[i] = c.Clone()
	}
	return out
}

// CheckInvariants verifies that every card lives in exactly one container, no card
// was lost, layers are well formed and opening counters are in range.
func (g *Game) CheckInvariants() error {
	seen := make(map[CardID]string, g.cardCount)
	note := func(c Card, where string) error {
		if prev, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: card %s in both %s and %s", ErrInvariantViolation, c, prev, where)
		}
		seen[c.ID] = where
		return nil
	}

	for _, p := range g.Players {
		if p.OpeningLeft < 0 || p.OpeningLeft > OpeningPlacements {
			return fmt.Errorf("%w: %s opening counter %d", ErrInvariantViolation, p.ID, p.OpeningLeft)
		}
		for _, c := range p.Hand {
			if err := note(c, p.ID.String()+" hand"); err != nil {
				return err
			}
		}
		for _, c := range p.Pile {
			if err := note(c, p.ID.String()+" pile"); err != nil {
				return err
			}
		}
	}
	for _, cv := range g.Caravans {
		for _, l := range cv.Layers {
			if !l.Anchor.Rank.IsAnchor() {
				return fmt.Errorf("%w: layer in %s anchored by %s", ErrInvariantViolation, cv.ID, l.Anchor)
			}
			for _, a := range l.Attached {
				if !a.Rank.IsFace() || a.Rank == RankJack {
					return fmt.Errorf("%w: %s attached in %s", ErrInvariantViolation, a, cv.ID)
				}
			}
			for _, c := range l.Cards() {
				if err := note(c, string(cv.ID)); err != nil {
					return err
				}
			}
		}
	}
	for _, c := range g.Discard {
		if err := note(c, "discard"); err != nil {
			return err
		}
	}

	if len(seen) != g.cardCount {
		return fmt.Errorf("%w: %d cards in play, want %d", ErrInvariantViolation, len(seen), g.cardCount)
	}
	return nil
}
