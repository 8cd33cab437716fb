package bot

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type BotIdentity struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Difficulty  string `yaml:"difficulty" json:"difficulty"` // "random", "good", "smart", "scripted"
	AvatarIndex int    `yaml:"avatar_index" json:"avatar_index"`
}

var defaultIdentities = []BotIdentity{
	{ID: "bot-trader", DisplayName: "Caravan Trader", Difficulty: "good", AvatarIndex: 0},
	{ID: "bot-drifter", DisplayName: "Drifter", Difficulty: "random", AvatarIndex: 1},
	{ID: "bot-gambler", DisplayName: "Gambler", Difficulty: "smart", AvatarIndex: 2},
}

var (
	botIdentities []BotIdentity
	botConfigMap  map[string]BotIdentity
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from a YAML list at path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		ids, err := parseIdentities(data)
		if err != nil {
			loadErr = err
			return
		}
		setIdentities(ids)
	})
	return loadErr
}

func parseIdentities(data []byte) ([]BotIdentity, error) {
	var ids []BotIdentity
	if err := yaml.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	for i, id := range ids {
		if id.ID == "" {
			return nil, fmt.Errorf("bot identity %d has no id", i)
		}
		if _, err := ParseLevel(id.Difficulty); err != nil {
			return nil, fmt.Errorf("bot identity %s: %w", id.ID, err)
		}
	}
	return ids, nil
}

func setIdentities(ids []BotIdentity) {
	botIdentities = ids
	botConfigMap = make(map[string]BotIdentity, len(ids))
	for _, identity := range ids {
		botConfigMap[identity.ID] = identity
	}
}

// GetBotConfig returns the full identity configuration for a given bot ID.
func GetBotConfig(id string) (BotIdentity, bool) {
	if botConfigMap == nil {
		for _, identity := range defaultIdentities {
			if identity.ID == id {
				return identity, true
			}
		}
		return BotIdentity{}, false
	}
	config, ok := botConfigMap[id]
	return config, ok
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	pool := botIdentities
	if len(pool) == 0 {
		pool = defaultIdentities
	}
	if index < 0 {
		index = -index
	}
	return pool[index%len(pool)]
}

// IdentityForLevel returns the first identity matching the level, or a generic one.
func IdentityForLevel(level BotLevel) BotIdentity {
	pool := botIdentities
	if len(pool) == 0 {
		pool = defaultIdentities
	}
	for _, identity := range pool {
		if l, err := ParseLevel(identity.Difficulty); err == nil && l == level {
			return identity
		}
	}
	return BotIdentity{
		ID:          fmt.Sprintf("bot-%s", level),
		DisplayName: fmt.Sprintf("AI Player (%s)", level),
		Difficulty:  level.String(),
	}
}
