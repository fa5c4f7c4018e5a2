// Package metrics defines and registers the custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings. All metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationsTotal counts writes that were authorized and committed.
// Labels:
//   - resource: "product", "story" or "review"
//   - action: "create", "update" or "delete"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of committed mutations, by resource and action.",
	},
	[]string{"resource", "action"},
)

// AuthorizationDenialsTotal counts refused mutations.
// Labels:
//   - resource: the targeted resource kind
//   - reason: "unauthenticated", "forbidden" or "not_found"
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of mutations refused by the authorizer.",
	},
	[]string{"resource", "reason"},
)

// ValidationFailuresTotal counts payloads rejected by the input validator.
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of mutation payloads rejected by validation.",
	},
	[]string{"resource"},
)

// ReviewDedupTotal counts review deduplication decisions.
// Label:
//   - result: "hit" (rejected as a resubmission) or "miss"
var ReviewDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "review_dedup_total",
		Help:      "Total number of review deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit trail writes.
// Label:
//   - result: "recorded" or "failed"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of mutation events written to the audit trail.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of mutation events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDuration measures how long a single audit insert takes.
var AuditDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_record_duration_seconds",
		Help:      "Duration of a single audit trail insert.",
		Buckets:   prometheus.DefBuckets,
	},
)
