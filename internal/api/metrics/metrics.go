// Package metrics defines the custom Prometheus metrics of the carrier
// tracking API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carrier_tracking"

// ── Lookup metrics ────────────────────────────────────────────────────────────

// LookupsTotal counts tracking lookups by outcome.
// Label:
//   - outcome: "ok", "invalid", "upstream_error" or "error"
var LookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Total number of tracking lookups, by outcome.",
	},
	[]string{"outcome"},
)

// LookupDuration measures a lookup from request to normalised result.
var LookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lookup_duration_seconds",
		Help:      "Duration of tracking lookups including the carrier fetch.",
		Buckets:   []float64{.1, .25, .5, 1, 2, 5, 10, 30},
	},
	[]string{"outcome"},
)

// ExtractionSourceTotal counts which extractor produced the events.
// Label:
//   - source: "markup", "embedded" or "none"
var ExtractionSourceTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extraction_source_total",
		Help:      "Total number of lookups by the extractor that produced their events.",
	},
	[]string{"source"},
)

// EventsExtracted observes how many events a lookup returned.
var EventsExtracted = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "events_extracted",
		Help:      "Number of tracking events extracted per lookup.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	},
)

// UpstreamErrorsTotal counts non-2xx answers from the carrier portal.
// Label:
//   - code: HTTP status code returned by the portal
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of non-success responses from the carrier portal.",
	},
	[]string{"code"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of tracking requests rejected by the rate limiter.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks pending audit records per worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of lookup audit records pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit records dropped because a worker was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of lookup audit records dropped on a full queue.",
	},
)

// AuditErrorsTotal counts audit records that failed to persist.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of lookup audit records that failed to persist.",
	},
)
