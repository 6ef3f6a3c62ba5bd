// Package metrics exposes the feed's operational counters. Auto-submission
// is fire-and-forget from the caller's point of view, so these counters are
// the only place its failures become visible to operators besides logs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatfeed_submissions_total",
			Help: "Auto-submissions processed, by outcome",
		},
		[]string{"result"}, // created, merged, skipped, failed
	)

	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatfeed_votes_total",
			Help: "Community votes recorded, by direction",
		},
		[]string{"direction"},
	)
)
