package internal

import "caravan/internal/domain"

const (
	ScoreWin           = 1000.0
	ScoreSold          = 12.0
	ScoreSoldCeiling   = 0.5 // per point above the minimum sale value
	ScoreMissingPoint  = -0.6
	ScoreOverflowPoint = -1.5
	ScoreLaneLead      = 8.0
)

// LaneScore rates a caravan value from its owner's point of view. Sold values
// score highest, closer to the ceiling better. Overflow costs more per point than
// a shortfall.
func LaneScore(value int) float64 {
	switch {
	case domain.Sold(value):
		return ScoreSold + ScoreSoldCeiling*float64(value-domain.MinSaleValue)
	case value < domain.MinSaleValue:
		return ScoreMissingPoint * float64(domain.MinSaleValue-value)
	default:
		return ScoreOverflowPoint * float64(value-domain.MaxSaleValue)
	}
}

// EvaluatePosition returns a heuristic score of the table for player.
// Higher is better.
func EvaluatePosition(game *domain.Game, player domain.PlayerID, weights PhaseWeights) float64 {
	switch domain.Winner(game) {
	case player:
		return ScoreWin + weights.WinBonus
	case player.Opponent():
		return -ScoreWin - weights.WinBonus
	}

	score := 0.0
	for _, r := range domain.EvaluateLanes(game) {
		own, opp := r.Values[0], r.Values[1]
		if player == domain.PlayerTwo {
			own, opp = opp, own
		}
		score += weights.OwnLaneWeight * LaneScore(own)
		score -= weights.OpponentLaneWeight * LaneScore(opp)

		switch r.Winner {
		case player:
			score += weights.LaneLeadWeight * ScoreLaneLead
		case player.Opponent():
			score -= weights.LaneLeadWeight * ScoreLaneLead
		}
	}

	if p := game.Player(player); p != nil {
		profile := ProfileHand(p.Hand)
		score += weights.HandCardWeight * float64(profile.TotalCards)
		score += weights.PowerCardWeight * float64(profile.PowerCards())
	}
	return score
}
