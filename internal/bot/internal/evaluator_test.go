package internal

import (
	"testing"

	"caravan/internal/domain"
)

var testWeights = PhaseWeights{
	OwnLaneWeight:      1,
	OpponentLaneWeight: 1,
	LaneLeadWeight:     1,
	HandCardWeight:     0.1,
	PowerCardWeight:    0.5,
	WinBonus:           100,
}

func TestLaneScore(t *testing.T) {
	if LaneScore(26) <= LaneScore(21) {
		t.Errorf("26 (%.2f) should beat 21 (%.2f)", LaneScore(26), LaneScore(21))
	}
	if LaneScore(21) <= LaneScore(20) {
		t.Errorf("sold 21 (%.2f) should beat unsold 20 (%.2f)", LaneScore(21), LaneScore(20))
	}
	if LaneScore(18) <= LaneScore(10) {
		t.Errorf("18 (%.2f) should beat 10 (%.2f)", LaneScore(18), LaneScore(10))
	}
	if LaneScore(27) >= LaneScore(25) {
		t.Errorf("overflow 27 (%.2f) should lose to 25 (%.2f)", LaneScore(27), LaneScore(25))
	}
}

func TestEvaluatePosition(t *testing.T) {
	g := table(nil, nil, 20)
	base := EvaluatePosition(g, domain.PlayerOne, testWeights)
	baseOpp := EvaluatePosition(g, domain.PlayerTwo, testWeights)

	g.Caravan("p1-A").AddLayer(card("a", domain.RankTen, domain.SuitSpades))
	better := EvaluatePosition(g, domain.PlayerOne, testWeights)
	if better <= base {
		t.Fatalf("adding value to an own lane did not help: %.2f <= %.2f", better, base)
	}
	if opp := EvaluatePosition(g, domain.PlayerTwo, testWeights); opp >= baseOpp {
		t.Fatalf("opponent view improved: %.2f >= %.2f", opp, baseOpp)
	}

	won := table(nil, nil, 20)
	for i, lane := range []domain.Lane{domain.LaneA, domain.LaneB} {
		c := won.CaravanAt(domain.PlayerTwo, lane)
		c.AddLayer(card(string(rune('a'+i))+"1", domain.RankTen, domain.SuitSpades))
		c.AddLayer(card(string(rune('a'+i))+"2", domain.RankTen, domain.SuitHearts))
		c.AddLayer(card(string(rune('a'+i))+"3", domain.RankTwo, domain.SuitHearts))
	}
	if got := EvaluatePosition(won, domain.PlayerTwo, testWeights); got != ScoreWin+testWeights.WinBonus {
		t.Fatalf("winning position = %.2f", got)
	}
	if got := EvaluatePosition(won, domain.PlayerOne, testWeights); got != -ScoreWin-testWeights.WinBonus {
		t.Fatalf("losing position = %.2f", got)
	}
}
