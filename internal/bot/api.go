package bot

import (
	"errors"
	"fmt"
	"strings"

	"caravan/internal/domain"
)

// Brain is the interface that all bot strategies must implement. CalculateMove
// must only return actions the validator accepts.
type Brain interface {
	CalculateMove(game *domain.Game, player domain.PlayerID) (domain.Action, error)
	OnEvent(event any)
}

// ErrNoLegalMove is returned when the player has nothing to do.
var ErrNoLegalMove = errors.New("no legal move")

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelRandom BotLevel = iota
	BotLevelGood
	BotLevelSmart
	BotLevelScripted
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelRandom:
		return "random"
	case BotLevelGood:
		return "good"
	case BotLevelSmart:
		return "smart"
	case BotLevelScripted:
		return "scripted"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a configuration name to a BotLevel.
func ParseLevel(name string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random", "easy":
		return BotLevelRandom, nil
	case "good", "medium", "":
		return BotLevelGood, nil
	case "smart", "hard":
		return BotLevelSmart, nil
	case "scripted", "lua":
		return BotLevelScripted, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", name)
	}
}
