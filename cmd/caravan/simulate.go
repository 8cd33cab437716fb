package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"caravan/internal/app"
	"caravan/internal/bot"
	"caravan/internal/config"
	"caravan/internal/domain"
	"caravan/internal/metrics"
)

var simulateFlags struct {
	seed        int64
	p1          string
	p2          string
	rounds      int
	maxTurns    int
	script      string
	metricsAddr string
	jsonOutput  bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play bot-versus-bot rounds",
	Long: `Play rounds between two bot strategies and summarise the results.

Levels are random, good, smart and scripted. The scripted level runs the Lua
strategy given by --script (or bot.script_path in the config).

Examples:
  # One round between the default bots
  caravan simulate

  # Reproducible tournament
  caravan simulate --seed 42 --p1 smart --p2 good --rounds 200

  # Serve Prometheus metrics while running
  caravan simulate --rounds 5000 --metrics-addr :9100`,
	RunE: simulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Int64Var(&simulateFlags.seed, "seed", 0, "random seed (0 picks one from the clock)")
	simulateCmd.Flags().StringVar(&simulateFlags.p1, "p1", "", "strategy for player one (defaults to bot.level)")
	simulateCmd.Flags().StringVar(&simulateFlags.p2, "p2", "", "strategy for player two (defaults to bot.level)")
	simulateCmd.Flags().IntVar(&simulateFlags.rounds, "rounds", 1, "number of rounds to play")
	simulateCmd.Flags().IntVar(&simulateFlags.maxTurns, "max-turns", 0, "abort a round after this many actions (defaults to engine.max_turns)")
	simulateCmd.Flags().StringVar(&simulateFlags.script, "script", "", "Lua strategy for scripted players")
	simulateCmd.Flags().StringVar(&simulateFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	simulateCmd.Flags().BoolVar(&simulateFlags.jsonOutput, "json", false, "print the summary as JSON")
}

// simulation describes one batch of rounds.
type simulation struct {
	Seed     int64
	Levels   [2]bot.BotLevel
	Rounds   int
	MaxTurns int
	Strict   bool
	Script   string
	Timeout  time.Duration
}

// simulationSummary is the outcome of a batch.
type simulationSummary struct {
	Seed       int64    `json:"seed"`
	Players    []string `json:"players"`
	Rounds     int      `json:"rounds"`
	Wins       [2]int   `json:"wins"`
	Stalemates int      `json:"stalemates"`
	Aborted    int      `json:"aborted"`
	Turns      int      `json:"turns"`
}

func (s simulationSummary) AverageTurns() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Turns) / float64(s.Rounds)
}

func simulate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	sim, err := newSimulation(cfg)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(cfg.Metrics.Namespace, nil)
	addr := simulateFlags.metricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.ListenAddress
	}
	if addr != "" {
		srv := &http.Server{Addr: addr, Handler: collector.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "addr", addr, "err", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", addr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := runSimulation(ctx, sim, logger, collector)
	if err != nil {
		return err
	}
	return printSummary(cmd.OutOrStdout(), summary, simulateFlags.jsonOutput)
}

func newSimulation(cfg *config.Config) (simulation, error) {
	sim := simulation{
		Seed:     simulateFlags.seed,
		Rounds:   simulateFlags.rounds,
		MaxTurns: cfg.Engine.MaxTurns,
		Strict:   cfg.Engine.Strict,
		Script:   cfg.Bot.ScriptPath,
		Timeout:  cfg.Bot.ScriptTimeout,
	}
	if simulateFlags.maxTurns > 0 {
		sim.MaxTurns = simulateFlags.maxTurns
	}
	if simulateFlags.script != "" {
		sim.Script = simulateFlags.script
	}
	if sim.Seed == 0 {
		sim.Seed = time.Now().UnixNano()
	}
	if sim.Rounds < 1 {
		return sim, fmt.Errorf("--rounds must be at least 1, got %d", sim.Rounds)
	}
	for i, name := range []string{simulateFlags.p1, simulateFlags.p2} {
		if name == "" {
			name = cfg.Bot.Level
		}
		level, err := bot.ParseLevel(name)
		if err != nil {
			return sim, err
		}
		sim.Levels[i] = level
	}
	return sim, nil
}

// runSimulation plays sim.Rounds rounds on one seeded source, so a seed always
// reproduces the same batch.
func runSimulation(ctx context.Context, sim simulation, logger *slog.Logger, m *metrics.Collector) (simulationSummary, error) {
	rng := rand.New(rand.NewSource(sim.Seed))
	opts := []app.Option{app.WithLogger(logger), app.WithStrict(sim.Strict)}
	if m != nil {
		opts = append(opts, app.WithMetrics(m))
	}
	svc := app.NewService(rng, opts...)

	summary := simulationSummary{Seed: sim.Seed}
	var policies [2]app.Policy
	for i, level := range sim.Levels {
		brain, err := bot.NewBrain(level, bot.BrainOptions{Rng: rng, ScriptPath: sim.Script, ScriptTimeout: sim.Timeout})
		if err != nil {
			return summary, fmt.Errorf("player %d: %w", i+1, err)
		}
		identity := bot.IdentityForLevel(level)
		policies[i] = bot.NewAgent(identity, brain, rng, logger)
		summary.Players = append(summary.Players, fmt.Sprintf("%s (%s)", identity.DisplayName, level))
	}

	for round := 1; round <= sim.Rounds; round++ {
		game, _, err := svc.StartGame([2][]domain.Card{})
		if err != nil {
			return summary, fmt.Errorf("round %d: %w", round, err)
		}

		err = svc.PlayRound(ctx, game, policies, sim.MaxTurns, func(events []app.Event) {
			for _, ev := range events {
				if agent, ok := policies[0].(*bot.Agent); ok && ev.VisibleTo(domain.PlayerOne) {
					agent.OnGameEvent(ev)
				}
				if agent, ok := policies[1].(*bot.Agent); ok && ev.VisibleTo(domain.PlayerTwo) {
					agent.OnGameEvent(ev)
				}
			}
		})
		summary.Rounds++
		summary.Turns += game.Turn
		switch {
		case errors.Is(err, app.ErrTurnLimit):
			summary.Aborted++
		case err != nil:
			return summary, fmt.Errorf("round %d: %w", round, err)
		case game.Stalemate:
			summary.Stalemates++
		case game.Winner != domain.PlayerNone:
			summary.Wins[int(game.Winner)-1]++
		}
		logger.Debug("round finished", "round", round, "winner", game.Winner, "stalemate", game.Stalemate, "turns", game.Turn)
	}
	return summary, nil
}

func printSummary(w io.Writer, s simulationSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	fmt.Fprintf(w, "seed:        %d\n", s.Seed)
	fmt.Fprintf(w, "rounds:      %d\n", s.Rounds)
	for i, name := range s.Players {
		fmt.Fprintf(w, "p%d wins:     %d  %s\n", i+1, s.Wins[i], name)
	}
	fmt.Fprintf(w, "stalemates:  %d\n", s.Stalemates)
	fmt.Fprintf(w, "aborted:     %d\n", s.Aborted)
	fmt.Fprintf(w, "avg turns:   %.1f\n", s.AverageTurns())
	return nil
}
