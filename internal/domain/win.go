package domain

// LaneResult is the comparison of the two caravans sharing a lane.
type LaneResult struct {
	Lane   Lane     `json:"lane"`
	Values [2]int   `json:"values"`
	Winner PlayerID `json:"winner"`
	Draw   bool     `json:"draw"`
}

// Settled reports whether the lane is won or drawn.
func (r LaneResult) Settled() bool {
	return r.Winner != PlayerNone || r.Draw
}

// Sold reports whether a caravan value is within the selling range.
func Sold(value int) bool {
	return value >= MinSaleValue && value <= MaxSaleValue
}

// EvaluateLane compares player one's value v1 against player two's v2.
func EvaluateLane(lane Lane, v1, v2 int) LaneResult {
	r := LaneResult{Lane: lane, Values: [2]int{v1, v2}}
	sold1, sold2 := Sold(v1), Sold(v2)
	switch {
	case sold1 && !sold2:
		r.Winner = PlayerOne
	case sold2 && !sold1:
		r.Winner = PlayerTwo
	case sold1 && sold2:
		switch {
		case v1 > v2:
			r.Winner = PlayerOne
		case v2 > v1:
			r.Winner = PlayerTwo
		default:
			r.Draw = true
		}
	}
	return r
}

// EvaluateLanes compares every lane of the table.
func EvaluateLanes(g *Game) [3]LaneResult {
	var out [3]LaneResult
	for i, lane := range Lanes {
		out[i] = EvaluateLane(lane, g.CaravanAt(PlayerOne, lane).Value(), g.CaravanAt(PlayerTwo, lane).Value())
	}
	return out
}

// Winner returns the player who has won LanesToWin lanes, or PlayerNone. Drawn
// lanes never end the round, even when every lane is settled.
func Winner(g *Game) PlayerID {
	wins := map[PlayerID]int{}
	for _, r := range EvaluateLanes(g) {
		if r.Winner != PlayerNone {
			wins[r.Winner]++
		}
	}
	switch {
	case wins[PlayerOne] >= LanesToWin:
		return PlayerOne
	case wins[PlayerTwo] >= LanesToWin:
		return PlayerTwo
	default:
		return PlayerNone
	}
}

// TableFrozen reports whether no future action can change the table: both hands
// and draw piles are empty and every caravan has at most one layer, so the only
// legal move left is trimming a caravan that has nothing to trim.
func TableFrozen(g *Game) bool {
	for _, p := range g.Players {
		if len(p.Hand) > 0 || len(p.Pile) > 0 {
			return false
		}
	}
	for _, c := range g.Caravans {
		if c.Len() > 1 {
			return false
		}
	}
	return true
}
