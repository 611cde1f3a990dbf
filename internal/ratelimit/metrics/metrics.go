package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected       *prometheus.CounterVec
	FallbackChecks prometheus.Counter
	CircuitOpen    prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "drainadopt_ratelimit_rejected_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"class"}),
		FallbackChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drainadopt_ratelimit_fallback_checks_total",
			Help: "Rate limit checks served by the in-memory fallback",
		}),
		CircuitOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "drainadopt_ratelimit_circuit_open",
			Help: "1 while the primary rate limit store is bypassed",
		}),
	}
}

func (m *Metrics) IncrementRejected(class string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementFallback() {
	if m == nil {
		return
	}
	m.FallbackChecks.Inc()
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitOpen.Set(1)
		return
	}
	m.CircuitOpen.Set(0)
}
