package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "resume"

var (
	ingestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Ingestion runs by outcome kind.",
		},
		[]string{"outcome"},
	)

	extractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Latency of single extraction service calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	assetTransformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_transforms_total",
			Help:      "Image transformations by outcome kind.",
		},
		[]string{"outcome"},
	)

	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Document updates by outcome kind.",
		},
		[]string{"outcome"},
	)

	eventsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_processed_total",
			Help:      "Lifecycle events handled by the worker.",
		},
		[]string{"type", "outcome"},
	)
)

// OutcomeOK labels a successful run. Failures are labelled with their kind.
const OutcomeOK = "ok"

func ObserveIngestion(outcome string) {
	ingestionsTotal.WithLabelValues(outcome).Inc()
}

func ObserveExtraction(d time.Duration) {
	extractionDuration.Observe(d.Seconds())
}

func ObserveAssetTransform(outcome string) {
	assetTransformsTotal.WithLabelValues(outcome).Inc()
}

func ObserveUpdate(outcome string) {
	updatesTotal.WithLabelValues(outcome).Inc()
}

func ObserveEvent(eventType, outcome string) {
	eventsProcessedTotal.WithLabelValues(eventType, outcome).Inc()
}
