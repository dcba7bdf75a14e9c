// Package metrics defines and registers all custom Prometheus metrics for the
// EDI portal. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "edi_portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionRefreshTotal counts settled session refreshes.
// Label:
//   - result: "ok", "error", or "anonymous" (no token, no network call)
var SessionRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refresh_total",
		Help:      "Total number of session refreshes, labelled by result.",
	},
	[]string{"result"},
)

// SessionRefreshSharedTotal counts refreshes that joined a profile fetch
// already in flight for the same token instead of starting their own.
var SessionRefreshSharedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refresh_shared_total",
		Help:      "Total number of session refreshes served by an in-flight profile fetch.",
	},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - route: the guarded route key (e.g. "forecast", "vendors")
//   - decision: "wait", "redirect", or "render"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by route and decision.",
	},
	[]string{"route", "decision"},
)

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login operations against the EDI API.
// Labels:
//   - op: "start", "verify", or "resend"
//   - category: "vendor" or "employee"
//   - result: "token", "code_sent", "rejected", "no_token", or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login operations, by operation, category and result.",
	},
	[]string{"op", "category", "result"},
)

// LoginRateLimitedTotal counts login requests refused by the per-client limiter.
var LoginRateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_rate_limited_total",
		Help:      "Total number of login requests rejected by the rate limiter.",
	},
)

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestDuration measures calls made to the EDI API.
// Labels:
//   - endpoint: a short name of the called operation (e.g. "profile", "login_start")
//   - outcome: "ok", "api_error", "transport_error", or "circuit_open"
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of calls to the EDI API.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"endpoint", "outcome"},
)

// ProxyUnauthorizedTotal counts proxied calls the EDI API answered with 401,
// which clears the session cookie.
var ProxyUnauthorizedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_unauthorized_total",
		Help:      "Total number of proxied EDI API calls answered with 401.",
	},
)

// UpstreamBreakerState tracks the EDI API circuit breaker (0=closed, 1=half-open, 2=open).
var UpstreamBreakerState = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "upstream_breaker_state",
		Help:      "Current state of the EDI API circuit breaker (0=closed, 1=half-open, 2=open).",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts login events handed to the audit store.
// Label:
//   - result: "saved", "failed", or "dropped" (shard queue full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of login audit events, by result.",
	},
	[]string{"result"},
)
