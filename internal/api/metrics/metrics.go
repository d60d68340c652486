// Package metrics defines the custom Prometheus metrics of the mushmind API.
// It is the single source of truth for metric names, labels and help strings.
//
// The metrics are created unregistered; call Register once at startup with the
// registry that backs /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mushmind"

var factory = promauto.With(nil)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthDecisionsTotal counts route guard outcomes.
// Labels:
//   - guard: "authenticate" or "admin"
//   - result: "allowed", "unauthorized" or "forbidden"
var AuthDecisionsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Route guard decisions, by guard and result.",
	},
	[]string{"guard", "result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts, by result.",
	},
	[]string{"result"},
)

// ── Image metrics ─────────────────────────────────────────────────────────────

var ImagesUploadedTotal = factory.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_uploaded_total",
		Help:      "Images stored successfully.",
	},
)

// ClassificationsTotal counts verdicts returned to users.
// Label:
//   - verdict: "safe" or "toxic"
var ClassificationsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifications_total",
		Help:      "Classifications performed, by verdict.",
	},
	[]string{"verdict"},
)

// ── Purge metrics ─────────────────────────────────────────────────────────────

// PurgesTotal counts object-storage deletions.
// Label:
//   - result: "deleted", "failed" or "dropped" (queue full)
var PurgesTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "object_purges_total",
		Help:      "Object purge outcomes.",
	},
	[]string{"result"},
)

// PurgeQueueDepth tracks pending purges per worker.
var PurgeQueueDepth = factory.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "purge_queue_depth",
		Help:      "Pending object purges in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// Register adds every metric above to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		AuthDecisionsTotal,
		LoginsTotal,
		ImagesUploadedTotal,
		ClassificationsTotal,
		PurgesTotal,
		PurgeQueueDepth,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
