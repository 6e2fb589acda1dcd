// Package metrics defines and registers the custom Prometheus metrics of the
// partner admin API. Request-level metrics come from echoprometheus; the
// counters here track business operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "partner_admin"

// ── Auth ─────────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Records ──────────────────────────────────────────────────────────────────

// RecordOperationsTotal counts partner, toplist and domain operations.
// Labels:
//   - kind:   "partner", "toplist" or "domain"
//   - op:     "create", "list", "update", "delete" or "validate_dns"
//   - result: "success" or "error"
var RecordOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_operations_total",
		Help:      "Total number of record operations, by kind, operation and result.",
	},
	[]string{"kind", "op", "result"},
)

// UpstreamErrorsTotal counts failed calls to the record store or edge provider.
// Label:
//   - provider: e.g. "cloudflare", "redis"
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of failed upstream calls, by provider.",
	},
	[]string{"provider"},
)

// ObserveRecordOp records the outcome of a single record operation.
func ObserveRecordOp(kind, op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	RecordOperationsTotal.WithLabelValues(kind, op, result).Inc()
}
