package bot

import (
	"caravan/internal/bot/internal"
	"caravan/internal/domain"
)

// GoodBot plays the move whose resulting table scores best for it.
type GoodBot struct{}

func (b *GoodBot) CalculateMove(game *domain.Game, player domain.PlayerID) (domain.Action, error) {
	validMoves := internal.GetValidMoves(game, player)
	if len(validMoves) == 0 {
		return domain.Action{}, ErrNoLegalMove
	}

	weights := DefaultTuning.ForPhase(internal.DetectPhase(game))
	scored := internal.BuildScoredMoves(game, player, validMoves, weights)
	if len(scored) == 0 {
		return domain.Action{}, ErrNoLegalMove
	}
	return scored[selectBest(scored, DefaultRules)].Move.Action, nil
}

func (b *GoodBot) OnEvent(any) {}
