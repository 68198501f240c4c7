// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atrium_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreated counts successfully created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atrium_posts_created_total",
		Help: "Total number of posts created",
	})

	// LikeToggles counts like toggles by direction ("like"/"unlike").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_like_toggles_total",
		Help: "Total number of like/unlike operations",
	}, []string{"direction"})

	// CommentsCreated counts successfully created comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atrium_comments_created_total",
		Help: "Total number of comments created",
	})

	// ProfilesResolved counts profile resolutions by outcome ("found"/"created").
	ProfilesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_profiles_resolved_total",
		Help: "Total number of profile resolutions by outcome",
	}, []string{"outcome"})

	// CacheHits counts cache-aside hits and misses by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_cache_requests_total",
		Help: "Cache-aside lookups by key prefix and result",
	}, []string{"prefix", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
