package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chargeOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recurrent_charge_outcomes_total",
			Help: "Total recurrent charge attempts by normalized gateway outcome",
		},
		[]string{"outcome"},
	)

	chargeBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recurrent_charge_batch_duration_seconds",
			Help:    "Duration of recurrent charge batch runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	chargeBatchTokens = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recurrent_charge_batch_tokens",
			Help:    "Number of due tokens processed per batch run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	chargeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recurrent_charge_events_total",
			Help: "Total charge lifecycle events by type",
		},
		[]string{"event"},
	)
)

// RecordChargeOutcome counts one normalized charge attempt outcome
func RecordChargeOutcome(outcome string) {
	chargeOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordChargeEvent counts one charge lifecycle event by type
func RecordChargeEvent(event string) {
	chargeEventsTotal.WithLabelValues(event).Inc()
}

// ObserveBatch records the size and duration of one batch run
func ObserveBatch(tokens int, elapsed time.Duration) {
	chargeBatchTokens.Observe(float64(tokens))
	chargeBatchDuration.Observe(elapsed.Seconds())
}
