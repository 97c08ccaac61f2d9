// Package metrics holds the service-level Prometheus counters, exposed
// on /metrics by cmd/server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinecircle_groups_created_total",
		Help: "Number of groups created.",
	})

	MovieSelections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinecircle_movie_selections_total",
		Help: "Number of successful movie selections.",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinecircle_movie_status_transitions_total",
		Help: "Movie lifecycle transitions by target status.",
	}, []string{"status"})

	RatingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinecircle_ratings_submitted_total",
		Help: "Number of ratings created or updated.",
	})

	ProviderLookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinecircle_provider_lookup_failures_total",
		Help: "Watch-provider lookups that degraded to no data.",
	})
)
