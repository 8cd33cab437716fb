package metrics

import (
	"context"
	"errors"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"caravan/internal/app"
	"caravan/internal/domain"
	"caravan/internal/ports"
)

var _ ports.MetricsPort = (*Collector)(nil)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector("test", prometheus.NewRegistry())

	c.ObserveAction("play", "applied")
	c.ObserveAction("play", "applied")
	c.ObserveAction("discard", "rejected")
	c.ObserveRemoval("jack", 3)
	c.ObserveRemoval("joker", 0)
	c.ObserveRound("p1", 42)

	if got := testutil.ToFloat64(c.actions.WithLabelValues("play", "applied")); got != 2 {
		t.Fatalf("play/applied = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.actions.WithLabelValues("discard", "rejected")); got != 1 {
		t.Fatalf("discard/rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.removed.WithLabelValues("jack")); got != 3 {
		t.Fatalf("jack removals = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(c.removed); got != 1 {
		t.Fatalf("empty removals created a series: %d series", got)
	}
	if got := testutil.ToFloat64(c.rounds.WithLabelValues("p1")); got != 1 {
		t.Fatalf("rounds{p1} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.turns); got != 1 {
		t.Fatalf("turns histogram series = %d", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("", nil)
	c.ObserveAction("play", "applied")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "caravan_engine_actions_total") {
		t.Fatalf("metric missing from exposition:\n%s", rec.Body.String())
	}
}

type firstLegal struct{}

func (firstLegal) CalculateMove(g *domain.Game, p domain.PlayerID) (domain.Action, error) {
	legal := domain.LegalActions(g, p)
	if len(legal) == 0 {
		return domain.Action{}, errors.New("no legal action")
	}
	return legal[0], nil
}

func TestCollector_WiredIntoService(t *testing.T) {
	c := NewCollector("sim", nil)
	svc := app.NewService(rand.New(rand.NewSource(9)), app.WithMetrics(c))
	game, _, err := svc.StartGame([2][]domain.Card{})
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	err = svc.PlayRound(context.Background(), game, [2]app.Policy{firstLegal{}, firstLegal{}}, 300, nil)
	if err != nil && !errors.Is(err, app.ErrTurnLimit) {
		t.Fatalf("PlayRound failed: %v", err)
	}

	applied := testutil.ToFloat64(c.actions.WithLabelValues("play", "applied")) +
		testutil.ToFloat64(c.actions.WithLabelValues("discard", "applied")) +
		testutil.ToFloat64(c.actions.WithLabelValues("discard_caravan", "applied"))
	if int(applied) != game.Turn {
		t.Fatalf("applied actions = %v, game turns = %d", applied, game.Turn)
	}
	if got := testutil.CollectAndCount(c.rounds); got != 1 {
		t.Fatalf("rounds series = %d, want 1", got)
	}
}
