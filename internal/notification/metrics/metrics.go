package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the notification module.
type Metrics struct {
	// Notifications recorded by type
	Emitted *prometheus.CounterVec

	// Unread count cache lookups by result: "hit", "miss", "bypass"
	CacheLookups *prometheus.CounterVec

	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter
}

// New creates a new Metrics instance with all notification metrics registered.
func New() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "drainadopt_notifications_emitted_total",
			Help: "Total notifications recorded by type",
		}, []string{"type"}),
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "drainadopt_notifications_unread_cache_lookups_total",
			Help: "Unread count cache lookups by result",
		}, []string{"result"}),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drainadopt_notifications_outbox_published_total",
			Help: "Outbox entries published to the event stream",
		}),
		OutboxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drainadopt_notifications_outbox_failures_total",
			Help: "Outbox relay batches that failed to publish",
		}),
	}
}

func (m *Metrics) IncrementEmitted(typ string) {
	if m != nil {
		m.Emitted.WithLabelValues(typ).Inc()
	}
}

func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) AddOutboxPublished(n int) {
	if m != nil {
		m.OutboxPublished.Add(float64(n))
	}
}

func (m *Metrics) IncrementOutboxFailures() {
	if m != nil {
		m.OutboxFailures.Inc()
	}
}
