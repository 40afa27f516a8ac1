// Package observability holds tracing and metrics plumbing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SessionVerifications counts session token verification outcomes.
	SessionVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_session_verifications_total",
		Help: "Session token verification attempts by outcome",
	}, []string{"outcome"})

	// RelationshipToggles counts favorite/follow toggle operations by edge
	// type and direction (added/removed).
	RelationshipToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_relationship_toggles_total",
		Help: "Favorite and follow toggles by edge type and direction",
	}, []string{"edge", "direction"})
)
