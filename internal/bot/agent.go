package bot

import (
	"errors"
	"log/slog"
	"math/rand"

	"caravan/internal/domain"
)

// Agent represents an autonomous bot player. It double-checks every move its
// strategy proposes and replaces an illegal one with a random legal move.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain

	fallback *RandomBot
	logger   *slog.Logger
}

// NewAgent wraps a strategy with an identity. logger may be nil.
func NewAgent(identity BotIdentity, strategy Brain, rng *rand.Rand, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Agent{
		ID:       identity.ID,
		Name:     identity.DisplayName,
		Strategy: strategy,
		fallback: NewRandomBot(rng),
		logger:   logger,
	}
}

// CalculateMove asks the strategy for a move and validates it.
func (a *Agent) CalculateMove(game *domain.Game, player domain.PlayerID) (domain.Action, error) {
	move, err := a.Strategy.CalculateMove(game, player)
	if errors.Is(err, ErrNoLegalMove) {
		return domain.Action{}, err
	}
	if err == nil {
		if err = domain.CheckAction(game, player, move); err == nil {
			return move, nil
		}
	}
	a.logger.Warn("bot move replaced", "bot", a.Name, "player", player, "move", move.String(), "err", err)
	return a.fallback.CalculateMove(game, player)
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event any) {
	a.Strategy.OnEvent(event)
}
