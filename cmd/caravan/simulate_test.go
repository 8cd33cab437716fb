package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"caravan/internal/bot"
	"caravan/internal/metrics"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRunSimulation_Reproducible(t *testing.T) {
	sim := simulation{
		Seed:     42,
		Levels:   [2]bot.BotLevel{bot.BotLevelRandom, bot.BotLevelRandom},
		Rounds:   3,
		MaxTurns: 300,
		Strict:   true,
	}
	first, err := runSimulation(context.Background(), sim, quietLogger(), nil)
	if err != nil {
		t.Fatalf("runSimulation failed: %v", err)
	}
	second, err := runSimulation(context.Background(), sim, quietLogger(), nil)
	if err != nil {
		t.Fatalf("runSimulation failed: %v", err)
	}
	if first.Rounds != 3 || first.Wins[0]+first.Wins[1]+first.Stalemates+first.Aborted != 3 {
		t.Fatalf("outcomes do not add up: %+v", first)
	}
	if first.Turns != second.Turns || first.Wins != second.Wins {
		t.Fatalf("same seed gave different batches: %+v vs %+v", first, second)
	}
}

func TestRunSimulation_RecordsMetrics(t *testing.T) {
	m := metrics.NewCollector("sim", nil)
	sim := simulation{
		Seed:     7,
		Levels:   [2]bot.BotLevel{bot.BotLevelGood, bot.BotLevelRandom},
		Rounds:   2,
		MaxTurns: 300,
	}
	if _, err := runSimulation(context.Background(), sim, quietLogger(), m); err != nil {
		t.Fatalf("runSimulation failed: %v", err)
	}
	n, err := testutil.GatherAndCount(m.Registry(), "sim_engine_rounds_total")
	if err != nil || n == 0 {
		t.Fatalf("rounds metric missing: %d series, %v", n, err)
	}
}

func TestRunSimulation_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim := simulation{Seed: 1, Levels: [2]bot.BotLevel{bot.BotLevelRandom, bot.BotLevelRandom}, Rounds: 1}
	if _, err := runSimulation(ctx, sim, quietLogger(), nil); err == nil {
		t.Fatalf("expected an error from a cancelled context")
	}
}

func TestRunSimulation_ScriptedNeedsScript(t *testing.T) {
	sim := simulation{Seed: 1, Levels: [2]bot.BotLevel{bot.BotLevelScripted, bot.BotLevelRandom}, Rounds: 1}
	if _, err := runSimulation(context.Background(), sim, quietLogger(), nil); err == nil {
		t.Fatalf("expected an error for a scripted player without a script")
	}
}

func TestPrintSummary(t *testing.T) {
	s := simulationSummary{Seed: 5, Players: []string{"A (good)", "B (random)"}, Rounds: 4, Wins: [2]int{3, 1}, Turns: 100}

	var text bytes.Buffer
	if err := printSummary(&text, s, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "avg turns:   25.0") || !strings.Contains(text.String(), "p1 wins:     3  A (good)") {
		t.Fatalf("unexpected text summary:\n%s", text.String())
	}

	var raw bytes.Buffer
	if err := printSummary(&raw, s, true); err != nil {
		t.Fatal(err)
	}
	var decoded simulationSummary
	if err := json.Unmarshal(raw.Bytes(), &decoded); err != nil {
		t.Fatalf("bad JSON summary: %v", err)
	}
	if decoded.Wins != s.Wins || decoded.Rounds != 4 {
		t.Fatalf("decoded %+v", decoded)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{{"simulate"}, {"config", "validate"}} {
		cmd, _, err := rootCmd.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Fatalf("command %v not registered: %v", path, err)
		}
	}
}
