// Package metrics exposes Prometheus counters for engine activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spendwise"

// ExpensesRecorded counts ledger entries by source (manual, batch, approval).
var ExpensesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "expenses_recorded_total",
	Help:      "Total expenses appended to the ledger.",
}, []string{"source"})

// ExpensesPruned counts expenses dropped by the retention window at load.
var ExpensesPruned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "expenses_pruned_total",
	Help:      "Total expenses dropped at load for falling outside the retention window.",
})

// PointsAwarded counts points credited, by reason.
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rewards",
	Name:      "points_awarded_total",
	Help:      "Total points credited to the user.",
}, []string{"reason"})

// Redemptions counts redemption attempts by outcome (success, insufficient).
var Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rewards",
	Name:      "redemptions_total",
	Help:      "Total reward redemption attempts.",
}, []string{"outcome"})

// VicesSkipped counts skip actions on the vice goal.
var VicesSkipped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "vice",
	Name:      "skips_total",
	Help:      "Total times the user skipped their vice.",
})

// GoalsAchieved counts vice goals crossing their target.
var GoalsAchieved = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "vice",
	Name:      "goals_achieved_total",
	Help:      "Total vice goals that reached their target.",
})

// PersistenceFailures counts failed store writes and reads, by key.
var PersistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "persistence_failures_total",
	Help:      "Total store operations that failed. In-memory state stays authoritative.",
}, []string{"key", "op"})

// RecognizerRequests counts recognizer calls by kind and outcome.
var RecognizerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "recognizer",
	Name:      "requests_total",
	Help:      "Total receipt and voice recognition requests.",
}, []string{"kind", "outcome"})
