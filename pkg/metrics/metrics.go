// Package metrics holds the editorial counters exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	workflowTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_workflow_transitions_total",
			Help: "Article status transitions",
		},
		[]string{"from", "to"},
	)

	revisionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsroom_revisions_created_total",
			Help: "Article revisions appended",
		},
	)

	aiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_ai_requests_total",
			Help: "AI assist calls by feature and outcome",
		},
		[]string{"feature", "outcome"},
	)
)

// AI call outcomes
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

func WorkflowTransition(from, to string) {
	workflowTransitions.WithLabelValues(from, to).Inc()
}

func RevisionCreated() {
	revisionsCreated.Inc()
}

func AIRequest(feature, outcome string) {
	aiRequests.WithLabelValues(feature, outcome).Inc()
}
