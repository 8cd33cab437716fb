package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records engine activity as Prometheus metrics. It implements
// ports.MetricsPort.
type Collector struct {
	registry *prometheus.Registry

	actions *prometheus.CounterVec
	removed *prometheus.CounterVec
	rounds  *prometheus.CounterVec
	turns   prometheus.Histogram
}

// NewCollector registers the caravan metrics under namespace on registry. A nil
// registry gets a fresh one.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "caravan"
	}

	c := &Collector{
		registry: registry,
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "actions_total",
			Help:      "Actions submitted to the engine by kind and result.",
		}, []string{"kind", "result"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "cards_removed_total",
			Help:      "Cards removed from caravans by the effect that removed them.",
		}, []string{"effect"}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "rounds_total",
			Help:      "Finished rounds by outcome.",
		}, []string{"outcome"}),
		turns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "round_turns",
			Help:      "Actions applied per finished round.",
			Buckets:   []float64{10, 20, 30, 40, 60, 80, 120, 200, 500, 1000},
		}),
	}
	registry.MustRegister(c.actions, c.removed, c.rounds, c.turns)
	return c
}

func (c *Collector) ObserveAction(kind, result string) {
	c.actions.WithLabelValues(kind, result).Inc()
}

func (c *Collector) ObserveRemoval(effect string, cards int) {
	if cards <= 0 {
		return
	}
	c.removed.WithLabelValues(effect).Add(float64(cards))
}

func (c *Collector) ObserveRound(outcome string, turns int) {
	c.rounds.WithLabelValues(outcome).Inc()
	c.turns.Observe(float64(turns))
}

// Registry exposes the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
