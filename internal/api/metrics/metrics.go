// Package metrics defines and registers the custom Prometheus metrics of the
// tanod API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tanod"

// ── Identity metrics ──────────────────────────────────────────────────────────

// LandingResolvedTotal counts landing resolutions.
// Labels:
//   - role: "tanod", "admin" or "pending"
//   - created: "true" when the profile was created by this request
var LandingResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "landing_resolved_total",
		Help:      "Total number of post-login landing resolutions.",
	},
	[]string{"role", "created"},
)

// ── Attendance metrics ────────────────────────────────────────────────────────

// AttendanceRecordedTotal counts appended attendance records.
// Label:
//   - kind: "in" or "out"
var AttendanceRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_recorded_total",
		Help:      "Total number of attendance records appended, by kind.",
	},
	[]string{"kind"},
)

// AttendanceRejectedTotal counts attendance requests that wrote nothing.
// Label:
//   - reason: "validation", "conflict" or "error"
var AttendanceRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_rejected_total",
		Help:      "Total number of rejected attendance requests.",
	},
	[]string{"reason"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsSubmittedTotal counts report submissions.
// Labels:
//   - severity: "normal" or "emergency"
//   - replayed: "true" when an Idempotency-Key matched an earlier submission
var ReportsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_submitted_total",
		Help:      "Total number of incident reports submitted.",
	},
	[]string{"severity", "replayed"},
)

// ── Alert metrics ─────────────────────────────────────────────────────────────

// AlertsDispatchedTotal counts emergency alert delivery attempts.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var AlertsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_dispatched_total",
		Help:      "Total number of emergency alerts handled by the dispatcher, by result.",
	},
	[]string{"result"},
)

// AlertsQueueDepth tracks alerts waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var AlertsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "alerts_queue_depth",
		Help:      "Current number of alerts pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AlertDeliveryDuration measures one notifier call.
var AlertDeliveryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "alert_delivery_duration_seconds",
		Help:      "Duration of a single emergency alert delivery.",
		Buckets:   prometheus.DefBuckets,
	},
)
