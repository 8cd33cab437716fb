package bot

import (
	"sort"

	"caravan/internal/bot/internal"
	"caravan/internal/domain"
)

// SmartBot looks one reply ahead: each candidate is rated by the best answer the
// opponent has to it. It reads the opponent's hand from the game it is given.
type SmartBot struct{}

func (b *SmartBot) CalculateMove(game *domain.Game, player domain.PlayerID) (domain.Action, error) {
	validMoves := internal.GetValidMoves(game, player)
	if len(validMoves) == 0 {
		return domain.Action{}, ErrNoLegalMove
	}

	weights := smartBotTuning.ForPhase(internal.DetectPhase(game))
	scored := internal.BuildScoredMoves(game, player, validMoves, weights)
	if len(scored) == 0 {
		return domain.Action{}, ErrNoLegalMove
	}

	opponent := player.Opponent()
	for i := range scored {
		after := scored[i].After
		if domain.Winner(after) == player {
			continue
		}
		replies := internal.GetValidMoves(after, opponent)
		if len(replies) == 0 {
			continue
		}
		answers := internal.BuildScoredMoves(after, opponent, replies, smartBotTuning.ForPhase(internal.DetectPhase(after)))
		sort.Slice(answers, func(x, y int) bool { return answers[x].Score > answers[y].Score })
		if limit := smartBotTuning.ReplyLimit; limit > 0 && len(answers) > limit {
			answers = answers[:limit]
		}

		worst := scored[i].Score
		for _, a := range answers {
			if s := internal.EvaluatePosition(a.After, player, weights); s < worst {
				worst = s
			}
		}
		scored[i].Score = worst
	}

	return scored[selectBest(scored, DefaultRules)].Move.Action, nil
}

func (b *SmartBot) OnEvent(any) {}
