// Package metrics defines all custom Prometheus metrics for the CRM backend.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register themselves with the default registry via promauto at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome ("success" / "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts account registrations by role.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// BootstrapThrottledTotal counts admin bootstrap attempts rejected by the
// rate limiter.
var BootstrapThrottledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bootstrap_throttled_total",
		Help:      "Total number of rate-limited admin bootstrap attempts.",
	},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts access decisions.
// Labels:
//   - outcome: "allow" or "deny"
//   - kind: the resource kind the decision was about
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of access-control decisions, by outcome and resource kind.",
	},
	[]string{"outcome", "kind"},
)

// ── Assistant metrics ─────────────────────────────────────────────────────────

// ChatMessagesTotal counts assistant exchanges.
// Label:
//   - source: "llm" when the reply came from the completion provider,
//     "fallback" when the canned response path was used
var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages answered, by reply source.",
	},
	[]string{"source"},
)

// RecommendationsGeneratedTotal counts recommendation batches.
// Label:
//   - source: "llm" or "fallback"
var RecommendationsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_generated_total",
		Help:      "Total number of recommendation batches generated, by source.",
	},
	[]string{"source"},
)
