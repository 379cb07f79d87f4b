// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ContentEvents counts content mutations by kind (post_created, post_updated, post_deleted, comment_created).
	ContentEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_content_events_total",
		Help: "Total number of content mutations by kind",
	}, []string{"kind"})

	// FlashNotices counts queued one-time notices by level.
	FlashNotices = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_flash_notices_total",
		Help: "Total number of flash notices queued by level",
	}, []string{"level"})
)

// Content event kinds.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordContentEvent increments the content mutation counter.
func RecordContentEvent(kind string) {
	ContentEvents.WithLabelValues(kind).Inc()
}
