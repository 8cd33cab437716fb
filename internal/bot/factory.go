package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// BrainOptions carries the dependencies some strategies need.
type BrainOptions struct {
	Rng           *rand.Rand
	ScriptPath    string
	ScriptTimeout time.Duration
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, opts BrainOptions) (Brain, error) {
	switch level {
	case BotLevelRandom:
		return NewRandomBot(opts.Rng), nil
	case BotLevelGood:
		return &GoodBot{}, nil
	case BotLevelSmart:
		return &SmartBot{}, nil
	case BotLevelScripted:
		if opts.ScriptPath == "" {
			return nil, fmt.Errorf("%w: scripted bot needs a script path", ErrInvalidScript)
		}
		return LoadLuaBot(opts.ScriptPath, opts.ScriptTimeout, opts.Rng)
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
