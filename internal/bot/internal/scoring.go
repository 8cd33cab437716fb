package internal

import "caravan/internal/domain"

// PhaseWeights tune move scoring for a specific phase.
type PhaseWeights struct {
	OwnLaneWeight         float64
	OpponentLaneWeight    float64
	LaneLeadWeight        float64
	HandCardWeight        float64
	PowerCardWeight       float64
	DiscardPenalty        float64
	CaravanDiscardPenalty float64
	WinBonus              float64
}

// BotTuning defines phase weights for a bot difficulty.
type BotTuning struct {
	Opening PhaseWeights
	Mid     PhaseWeights
	End     PhaseWeights
	// ReplyLimit bounds how many opponent replies a lookahead bot examines.
	ReplyLimit int
}

// ForPhase returns the weights that match the supplied phase.
func (t BotTuning) ForPhase(phase GamePhase) PhaseWeights {
	switch phase {
	case PhaseOpening:
		return t.Opening
	case PhaseEnd:
		return t.End
	default:
		return t.Mid
	}
}

// ScoredMove holds a move with its computed score and the position it leads to.
type ScoredMove struct {
	Move    ValidMove
	Score   float64
	Removed int
	After   *domain.Game
}

// ScoreMove simulates the move and scores the resulting position.
func ScoreMove(game *domain.Game, player domain.PlayerID, move ValidMove, weights PhaseWeights) (ScoredMove, error) {
	after, res, err := Simulate(game, player, move)
	if err != nil {
		return ScoredMove{}, err
	}

	score := EvaluatePosition(after, player, weights)
	switch move.Action.Kind {
	case domain.ActionDiscard:
		score -= weights.DiscardPenalty
	case domain.ActionDiscardCaravan:
		score -= weights.CaravanDiscardPenalty * float64(res.RemovedCount())
	}
	return ScoredMove{Move: move, Score: score, Removed: res.RemovedCount(), After: after}, nil
}

// BuildScoredMoves scores each move, skipping any the validator rejects.
func BuildScoredMoves(game *domain.Game, player domain.PlayerID, moves []ValidMove, weights PhaseWeights) []ScoredMove {
	scored := make([]ScoredMove, 0, len(moves))
	for _, move := range moves {
		sm, err := ScoreMove(game, player, move, weights)
		if err != nil {
			continue
		}
		scored = append(scored, sm)
	}
	return scored
}
