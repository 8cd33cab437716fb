package app

import (
	"context"
	"errors"
	"fmt"

	"caravan/internal/domain"
)

// Policy chooses the next action for a seat. Implementations must only return
// actions the validator accepts.
type Policy interface {
	CalculateMove(game *domain.Game, player domain.PlayerID) (domain.Action, error)
}

// ErrTurnLimit is returned by PlayRound when the round did not finish in time.
var ErrTurnLimit = errors.New("turn limit reached")

// PlayRound drives a round between two policies until it ends, the context is
// cancelled or maxTurns actions were applied. onEvents, if set, receives the events
// of each transition in order.
func (s *Service) PlayRound(ctx context.Context, game *domain.Game, policies [2]Policy, maxTurns int, onEvents func([]Event)) error {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	for !game.Over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if game.Turn >= maxTurns {
			s.Abort(game)
			return ErrTurnLimit
		}

		player := game.Active
		policy := policies[int(player)-1]
		action, err := policy.CalculateMove(game, player)
		if err != nil {
			return fmt.Errorf("%s policy: %w", player, err)
		}
		events, err := s.Apply(game, player, action)
		if err != nil {
			return fmt.Errorf("%s played %s: %w", player, action, err)
		}
		if onEvents != nil {
			onEvents(events)
		}
	}
	return nil
}
