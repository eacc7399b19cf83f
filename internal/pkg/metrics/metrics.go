// Package metrics defines and registers the custom Prometheus metrics of the
// account entry API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; /metrics serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Sign-up metrics ───────────────────────────────────────────────────────────

// SignupSubmissionsTotal counts submit attempts.
// Label:
//   - result: "invalid" (validation failed), "accepted" (commit scheduled), "in_flight" (rejected)
var SignupSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_submissions_total",
		Help:      "Total number of sign-up submit attempts, by result.",
	},
	[]string{"result"},
)

// SignupValidationFailuresTotal counts individual field failures.
// Labels:
//   - field: the form field (e.g. "email")
//   - rule: the rule it broke (e.g. "invalid_format")
var SignupValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_validation_failures_total",
		Help:      "Total number of sign-up field validation failures.",
	},
	[]string{"field", "rule"},
)

// AccountsCreatedTotal counts committed accounts.
// Label:
//   - role: "student" or "admin"
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// CommitErrorsTotal counts commits whose store write failed.
var CommitErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commit_errors_total",
		Help:      "Total number of account commits that could not be persisted.",
	},
)

// CommitDuration measures the time from submit to completed commit,
// including the simulated round trip.
// Label:
//   - result: "ok" or "error"
var CommitDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "commit_duration_seconds",
		Help:      "Duration from accepted submit to finished commit.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)

// OpenForms tracks sign-up form sessions currently held in memory.
var OpenForms = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "signup_forms_open",
		Help:      "Current number of open sign-up form sessions.",
	},
)

// CommitQueueDepth tracks commits waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CommitQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "commit_queue_depth",
		Help:      "Current number of commits pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Sign-in metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts sign-in attempts.
// Labels:
//   - role: the selected role
//   - result: "ok" or "ignored" (empty credentials)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of demo sign-in attempts.",
	},
	[]string{"role", "result"},
)
