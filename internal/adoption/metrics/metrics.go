package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the adoption module.
type Metrics struct {
	DrainsAdopted prometheus.Counter

	// Rejected adoption attempts by reason
	AdoptRejections *prometheus.CounterVec

	// Engine operation latency by operation name
	OperationLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all adoption metrics registered.
func New() *Metrics {
	return &Metrics{
		DrainsAdopted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drainadopt_adoption_drains_adopted_total",
			Help: "Total number of successful drain adoptions",
		}),
		AdoptRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "drainadopt_adoption_rejections_total",
			Help: "Total adoption attempts rejected by reason",
		}, []string{"reason"}), // reason: "user_not_found", "user_has_drain", "drain_not_found", "drain_taken"
		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drainadopt_adoption_operation_duration_seconds",
			Help:    "Duration of adoption engine operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementAdopted() {
	if m != nil {
		m.DrainsAdopted.Inc()
	}
}

// IncrementRejection records a refused adoption attempt.
func (m *Metrics) IncrementRejection(reason string) {
	if m != nil {
		m.AdoptRejections.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
