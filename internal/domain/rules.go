package domain

import "fmt"

// ActionKind enumerates what a player can do on their turn.
type ActionKind string

const (
	// ActionDiscard throws a hand card away.
	ActionDiscard ActionKind = "discard"
	// ActionDiscardCaravan clears one of the player's caravans down to its bottom layer.
	ActionDiscardCaravan ActionKind = "discard_caravan"
	// ActionPlay places a hand card on a caravan.
	ActionPlay ActionKind = "play"
)

// Action is a discrete player input. Target is a caravan id or the id of a card
// already on the table (an anchor, or a face card standing for its layer).
type Action struct {
	Kind   ActionKind `json:"kind"`
	Card   CardID     `json:"card_id,omitempty"`
	Target string     `json:"target_id,omitempty"`
}

func (a Action) String() string {
	switch a.Kind {
	case ActionDiscard:
		return fmt.Sprintf("discard %s", a.Card)
	case ActionDiscardCaravan:
		return fmt.Sprintf("discard caravan %s", a.Target)
	default:
		return fmt.Sprintf("%s %s on %s", a.Kind, a.Card, a.Target)
	}
}

// IsLegal reports whether player may take the action in the current state.
func IsLegal(g *Game, player PlayerID, a Action) bool {
	return CheckAction(g, player, a) == nil
}

// CheckAction validates an action without mutating the game. The returned error
// wraps ErrIllegalMove and names the violated rule.
func CheckAction(g *Game, player PlayerID, a Action) error {
	p := g.Player(player)
	if p == nil {
		return fmt.Errorf("%w: unknown player %d", ErrMalformedAction, int(player))
	}

	switch a.Kind {
	case ActionDiscard:
		if !p.Hand.Contains(a.Card) {
			return ErrCardNotInHand
		}
		if p.OpeningLeft > 0 {
			return ErrOpeningPhase
		}
		return nil

	case ActionDiscardCaravan:
		if p.OpeningLeft > 0 {
			return ErrOpeningPhase
		}
		c, _, ok := g.locate(a.Target)
		if !ok {
			return fmt.Errorf("%w: unknown target %q", ErrMalformedAction, a.Target)
		}
		if c.Owner != player {
			return ErrNotOwnCaravan
		}
		if c.Empty() {
			return ErrEmptyCaravan
		}
		return nil

	case ActionPlay:
		card, ok := p.Hand.Find(a.Card)
		if !ok {
			return ErrCardNotInHand
		}
		if !card.Rank.Valid() {
			return fmt.Errorf("%w: card %s has an unknown rank", ErrMalformedAction, card.ID)
		}
		c, layer, ok := g.locate(a.Target)
		if !ok {
			return fmt.Errorf("%w: unknown target %q", ErrMalformedAction, a.Target)
		}
		if card.Rank.IsAnchor() {
			return checkAnchor(p, c, card)
		}
		return checkFace(p, c, layer)

	default:
		return fmt.Errorf("%w: unknown action kind %q", ErrMalformedAction, a.Kind)
	}
}

func checkAnchor(p *Player, c *Caravan, card Card) error {
	if c.Owner != p.ID {
		return ErrNotOwnCaravan
	}
	if p.OpeningLeft > 0 && !c.Empty() {
		return ErrOpeningPhase
	}
	if c.Full() {
		return ErrCaravanFull
	}
	if c.Len() < 2 {
		return nil
	}

	top, _ := c.Top()
	if card.Rank == top.Anchor.Rank {
		return nil
	}
	switch c.Direction() {
	case DirectionAscending:
		if card.Value() <= top.Anchor.Value() {
			return ErrWrongDirection
		}
	case DirectionDescending:
		if card.Value() >= top.Anchor.Value() {
			return ErrWrongDirection
		}
	}
	return nil
}

func checkFace(p *Player, c *Caravan, layer int) error {
	if c.Empty() {
		return ErrNoAnchor
	}
	if p.OpeningLeft > 0 {
		return ErrOpeningPhase
	}
	if layer >= c.Len() {
		return ErrNoAnchor
	}
	return nil
}

// LegalActions enumerates every action the player may take, in a stable order:
// discards, caravan discards, then plays by hand position.
func LegalActions(g *Game, player PlayerID) []Action {
	p := g.Player(player)
	if p == nil {
		return nil
	}

	var out []Action
	if p.OpeningLeft == 0 {
		for _, c := range p.Hand {
			out = append(out, Action{Kind: ActionDiscard, Card: c.ID})
		}
		for _, cv := range g.CaravansOf(player) {
			if !cv.Empty() {
				out = append(out, Action{Kind: ActionDiscardCaravan, Target: string(cv.ID)})
			}
		}
	}

	for _, card := range p.Hand {
		if card.Rank.IsAnchor() {
			for _, cv := range g.CaravansOf(player) {
				a := Action{Kind: ActionPlay, Card: card.ID, Target: string(cv.ID)}
				if CheckAction(g, player, a) == nil {
					out = append(out, a)
				}
			}
			continue
		}
		for _, cv := range g.Caravans {
			for _, l := range cv.Layers {
				a := Action{Kind: ActionPlay, Card: card.ID, Target: string(l.Anchor.ID)}
				if CheckAction(g, player, a) == nil {
					out = append(out, a)
				}
			}
		}
	}
	return out
}
