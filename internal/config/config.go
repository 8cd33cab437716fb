package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the operational settings of the engine and its front ends. Game
// rules are constants in the domain package and are not configurable.
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type BotConfig struct {
	// Level is one of random, good, smart or scripted.
	Level string `yaml:"level"`
	// MinDelayTicks and MaxDelayTicks bound the pause before a bot acts in a match.
	MinDelayTicks int `yaml:"min_delay_ticks"`
	MaxDelayTicks int `yaml:"max_delay_ticks"`
	// ScriptPath is the Lua strategy used by the scripted level.
	ScriptPath     string        `yaml:"script_path"`
	ScriptTimeout  time.Duration `yaml:"script_timeout"`
	IdentitiesPath string        `yaml:"identities_path"`
}

type EngineConfig struct {
	// Strict verifies game invariants after every action.
	Strict   bool `yaml:"strict"`
	MaxTurns int  `yaml:"max_turns"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Namespace     string `yaml:"namespace"`
	ListenAddress string `yaml:"listen_address"`
}

const (
	DefaultBotLevel      = "good"
	DefaultMinDelayTicks = 1
	DefaultMaxDelayTicks = 3
	DefaultScriptTimeout = 200 * time.Millisecond
	DefaultMaxTurns      = 1000
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultNamespace     = "caravan"
)

var botLevels = map[string]bool{"random": true, "easy": true, "good": true, "medium": true, "smart": true, "hard": true, "scripted": true, "lua": true}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	ApplyDefaults(c)
	return c
}

// ApplyDefaults fills zero-valued fields.
func ApplyDefaults(c *Config) {
	if c.Bot.Level == "" {
		c.Bot.Level = DefaultBotLevel
	}
	if c.Bot.MinDelayTicks == 0 && c.Bot.MaxDelayTicks == 0 {
		c.Bot.MinDelayTicks = DefaultMinDelayTicks
		c.Bot.MaxDelayTicks = DefaultMaxDelayTicks
	}
	if c.Bot.ScriptTimeout == 0 {
		c.Bot.ScriptTimeout = DefaultScriptTimeout
	}
	if c.Engine.MaxTurns == 0 {
		c.Engine.MaxTurns = DefaultMaxTurns
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Parse decodes YAML, applies defaults and environment overrides, and validates
// the result.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	ApplyDefaults(&c)
	applyEnvOverrides(&c)
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads the file at path. An empty path yields the defaults with
// environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// applyEnvOverrides reads CARAVAN_SECTION_FIELD variables. Malformed values are
// ignored.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("CARAVAN_BOT_LEVEL"); v != "" {
		c.Bot.Level = v
	}
	if v := os.Getenv("CARAVAN_BOT_SCRIPT_PATH"); v != "" {
		c.Bot.ScriptPath = v
	}
	if v := os.Getenv("CARAVAN_BOT_SCRIPT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Bot.ScriptTimeout = d
		}
	}
	if v := os.Getenv("CARAVAN_ENGINE_STRICT"); v != "" {
		c.Engine.Strict = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CARAVAN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CARAVAN_METRICS_NAMESPACE"); v != "" {
		c.Metrics.Namespace = v
	}
}

// Validate reports the first invalid field.
func Validate(c *Config) error {
	if !botLevels[strings.ToLower(c.Bot.Level)] {
		return fmt.Errorf("invalid config: bot.level %q", c.Bot.Level)
	}
	if c.Bot.MinDelayTicks < 0 || c.Bot.MaxDelayTicks < c.Bot.MinDelayTicks {
		return fmt.Errorf("invalid config: bot delay range [%d, %d]", c.Bot.MinDelayTicks, c.Bot.MaxDelayTicks)
	}
	if c.Bot.ScriptTimeout < 0 {
		return fmt.Errorf("invalid config: bot.script_timeout %s", c.Bot.ScriptTimeout)
	}
	if lvl := strings.ToLower(c.Bot.Level); (lvl == "scripted" || lvl == "lua") && c.Bot.ScriptPath == "" {
		return fmt.Errorf("invalid config: bot.script_path is required for level %q", c.Bot.Level)
	}
	if c.Engine.MaxTurns < 0 {
		return fmt.Errorf("invalid config: engine.max_turns %d", c.Engine.MaxTurns)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid config: logging.level: %w", err)
	}
	if f := c.Logging.Format; f != "text" && f != "json" {
		return fmt.Errorf("invalid config: logging.format %q", f)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// NewLogger builds the slog logger described by the logging section.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

var (
	cfg      *Config
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the process-wide configuration from the given path.
// Later calls return the first result.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		cfg, loadErr = Load(path)
	})
	return loadErr
}

// GetGameConfig returns the process-wide configuration, or the defaults when
// nothing was loaded.
func GetGameConfig() *Config {
	if cfg == nil {
		return Default()
	}
	return cfg
}
