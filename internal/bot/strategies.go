package bot

import (
	"math/rand"
	"time"

	"caravan/internal/domain"
)

// RandomBot picks uniformly among the legal actions.
type RandomBot struct {
	rng *rand.Rand
}

// NewRandomBot returns a RandomBot using rng, or a time-seeded source when nil.
func NewRandomBot(rng *rand.Rand) *RandomBot {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomBot{rng: rng}
}

func (b *RandomBot) CalculateMove(game *domain.Game, player domain.PlayerID) (domain.Action, error) {
	legal := domain.LegalActions(game, player)
	if len(legal) == 0 {
		return domain.Action{}, ErrNoLegalMove
	}
	return legal[b.rng.Intn(len(legal))], nil
}

func (b *RandomBot) OnEvent(any) {}
