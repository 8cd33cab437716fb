package internal

import "caravan/internal/domain"

// ValidMove represents a possible legal action together with the hand card it uses.
type ValidMove struct {
	Action  domain.Action
	Card    domain.Card      // zero for caravan discards
	Caravan domain.CaravanID // caravan the target resolves to, empty for hand discards
}

// IsPlay reports whether the move puts a card on the table.
func (m ValidMove) IsPlay() bool {
	return m.Action.Kind == domain.ActionPlay
}

// GetValidMoves returns all legal moves for the player in validator order.
func GetValidMoves(game *domain.Game, player domain.PlayerID) []ValidMove {
	p := game.Player(player)
	if p == nil {
		return nil
	}
	actions := domain.LegalActions(game, player)
	moves := make([]ValidMove, 0, len(actions))
	for _, a := range actions {
		card, _ := p.Hand.Find(a.Card)
		moves = append(moves, ValidMove{Action: a, Card: card, Caravan: targetCaravan(game, a.Target)})
	}
	return moves
}

func targetCaravan(game *domain.Game, target string) domain.CaravanID {
	if target == "" {
		return ""
	}
	if c := game.Caravan(domain.CaravanID(target)); c != nil {
		return c.ID
	}
	for _, c := range game.Caravans {
		if c.LayerOf(domain.CardID(target)) >= 0 {
			return c.ID
		}
	}
	return ""
}

// Simulate applies a move to a copy of the game, including the opening counter
// advance. Hands are not replenished: the draw order is hidden information.
func Simulate(game *domain.Game, player domain.PlayerID, move ValidMove) (*domain.Game, domain.Resolution, error) {
	next := game.Clone()
	res, err := domain.Resolve(next, player, move.Action)
	if err != nil {
		return nil, domain.Resolution{}, err
	}
	if res.Opening {
		next.Player(player).OpeningLeft--
	}
	return next, res, nil
}
