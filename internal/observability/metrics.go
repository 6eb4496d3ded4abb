package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects counters for turns and gateway calls.
type Metrics struct {
	registry *prometheus.Registry

	turns           *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helperkust",
				Name:      "turns_total",
				Help:      "Turns handled by the executor, by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		gatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "helperkust",
				Name:      "gateway_request_duration_seconds",
				Help:      "Duration of generation gateway calls.",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
			},
			[]string{"mode"},
		),
	}
	m.registry.MustRegister(m.turns, m.gatewayDuration)
	return m
}

// ObserveTurn records one finished turn. outcome is "ok", "discarded" or a
// gateway error kind.
func (m *Metrics) ObserveTurn(mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(mode, outcome).Inc()
	m.gatewayDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TurnCounter() *prometheus.CounterVec {
	return m.turns
}
