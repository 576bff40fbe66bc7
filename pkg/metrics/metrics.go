package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source labels distinguish live webhook deliveries from reconciler replays.
const (
	SourceWebhook   = "webhook"
	SourceReconcile = "reconcile"
)

var (
	// EventsProcessed counts pipeline results by source and outcome
	// (applied, duplicate, failed, rejected).
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paysentry",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Webhook events by source and outcome",
	}, []string{"source", "outcome"})

	// IngestDuration observes end-to-end ingest latency.
	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "paysentry",
		Subsystem: "webhook",
		Name:      "ingest_duration_seconds",
		Help:      "Ingest pipeline latency",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveEvent increments the outcome counter for a pipeline result.
func ObserveEvent(source, outcome string) {
	EventsProcessed.WithLabelValues(source, outcome).Inc()
}
