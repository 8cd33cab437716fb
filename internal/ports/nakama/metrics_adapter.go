package nakama

import (
	"github.com/heroiclabs/nakama-common/runtime"

	"caravan/internal/ports"
)

// NakamaMetricsAdapter implements ports.MetricsPort on top of Nakama's built-in
// metrics, so match activity shows up next to the server's own Prometheus series.
type NakamaMetricsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaMetricsAdapter creates a new metrics adapter.
func NewNakamaMetricsAdapter(nk runtime.NakamaModule) ports.MetricsPort {
	return &NakamaMetricsAdapter{nk: nk}
}

func (a *NakamaMetricsAdapter) ObserveAction(kind, result string) {
	a.nk.MetricsCounterAdd("caravan_actions", map[string]string{"kind": kind, "result": result}, 1)
}

func (a *NakamaMetricsAdapter) ObserveRemoval(effect string, cards int) {
	if cards <= 0 {
		return
	}
	a.nk.MetricsCounterAdd("caravan_cards_removed", map[string]string{"effect": effect}, int64(cards))
}

func (a *NakamaMetricsAdapter) ObserveRound(outcome string, turns int) {
	tags := map[string]string{"outcome": outcome}
	a.nk.MetricsCounterAdd("caravan_rounds", tags, 1)
	a.nk.MetricsGaugeSet("caravan_round_turns", tags, float64(turns))
}
