package internal

import "caravan/internal/domain"

// GamePhase describes the current strategic stage of a round.
type GamePhase int

const (
	// PhaseOpening indicates a player still owes opening placements.
	PhaseOpening GamePhase = iota
	// PhaseMid indicates normal play with cards left to draw and no lane sold.
	PhaseMid
	// PhaseEnd indicates a draw pile is nearly empty or a caravan is already sold.
	PhaseEnd
)

// EndgamePileThreshold is the draw pile size at which a player is considered short of cards.
const EndgamePileThreshold = 5

func (p GamePhase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseEnd:
		return "end"
	default:
		return "mid"
	}
}

// DetectPhase infers the phase from opening counters, pile sizes and caravan values.
func DetectPhase(game *domain.Game) GamePhase {
	if game == nil {
		return PhaseMid
	}

	for _, p := range game.Players {
		if p.OpeningLeft > 0 {
			return PhaseOpening
		}
	}
	for _, p := range game.Players {
		if len(p.Pile) <= EndgamePileThreshold {
			return PhaseEnd
		}
	}
	for _, c := range game.Caravans {
		if domain.Sold(c.Value()) {
			return PhaseEnd
		}
	}
	return PhaseMid
}
