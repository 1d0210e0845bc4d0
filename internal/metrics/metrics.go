package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestSize       *prometheus.HistogramVec
	HTTPResponseSize      *prometheus.HistogramVec
	HTTPActiveConnections *prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitExceededTotal *prometheus.CounterVec

	// Database metrics
	DatabaseQueryDuration *prometheus.HistogramVec
	DatabaseQueriesTotal  *prometheus.CounterVec

	// Engagement metrics
	LikesTotal     *prometheus.CounterVec
	FollowsTotal   *prometheus.CounterVec
	CommentsTotal  *prometheus.CounterVec
	PostsCreated   *prometheus.CounterVec
	CounterDrift   *prometheus.CounterVec
	ImageUploads   *prometheus.CounterVec
	PostViewsTotal prometheus.Counter

	// Feed metrics
	FeedGenerationTime *prometheus.HistogramVec

	// Error metrics
	ErrorsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_size_bytes",
					Help:    "HTTP request body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path"},
			),
			HTTPResponseSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			CacheHitsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),

			RateLimitExceededTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"path", "method"},
			),

			DatabaseQueryDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "database_query_duration_seconds",
					Help:    "Database query latency in seconds",
					Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"operation", "table"},
			),
			DatabaseQueriesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "database_queries_total",
					Help: "Total number of database queries",
				},
				[]string{"operation", "table", "status"},
			),

			LikesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inkwell_likes_total",
					Help: "Like toggles by resulting action",
				},
				[]string{"action"},
			),
			FollowsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inkwell_follows_total",
					Help: "Follow toggles by resulting action",
				},
				[]string{"action"},
			),
			CommentsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inkwell_comments_total",
					Help: "Comments added or deleted",
				},
				[]string{"action"},
			),
			PostsCreated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inkwell_posts_created_total",
					Help: "Posts created by initial status",
				},
				[]string{"status"},
			),
			CounterDrift: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inkwell_counter_drift_total",
					Help: "Denormalized post counters corrected by reconciliation",
				},
				[]string{"counter"},
			),
			ImageUploads: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inkwell_image_uploads_total",
					Help: "Image uploads by outcome",
				},
				[]string{"status"},
			),
			PostViewsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "inkwell_post_views_total",
					Help: "Post view increments",
				},
			),

			FeedGenerationTime: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_duration_seconds",
					Help:    "Time to generate feed in seconds",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"feed_type"},
			),

			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "path"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	return Initialize()
}

func RecordCacheHit(cacheName string) {
	Get().CacheHitsTotal.WithLabelValues(cacheName).Inc()
}

func RecordCacheMiss(cacheName string) {
	Get().CacheMissesTotal.WithLabelValues(cacheName).Inc()
}

func RecordRateLimitExceeded(path, method string) {
	Get().RateLimitExceededTotal.WithLabelValues(path, method).Inc()
}

// RecordDatabaseQuery records one statement executed through gorm
func RecordDatabaseQuery(operation, table string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m := Get()
	m.DatabaseQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	m.DatabaseQueriesTotal.WithLabelValues(operation, table, status).Inc()
}

func RecordLike(action string) {
	Get().LikesTotal.WithLabelValues(action).Inc()
}

func RecordFollow(action string) {
	Get().FollowsTotal.WithLabelValues(action).Inc()
}

func RecordComment(action string) {
	Get().CommentsTotal.WithLabelValues(action).Inc()
}

func RecordPostCreated(status string) {
	Get().PostsCreated.WithLabelValues(status).Inc()
}

func RecordPostView() {
	Get().PostViewsTotal.Inc()
}

// RecordCounterDrift adds the absolute difference between a stored and recomputed counter
func RecordCounterDrift(counter string, stored, actual int64) {
	diff := stored - actual
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		return
	}
	Get().CounterDrift.WithLabelValues(counter).Add(float64(diff))
}

func RecordImageUpload(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	Get().ImageUploads.WithLabelValues(status).Inc()
}

func RecordFeedGeneration(feedType string, duration time.Duration) {
	Get().FeedGenerationTime.WithLabelValues(feedType).Observe(duration.Seconds())
}

// RecordError counts a failed request by API error code or status
func RecordError(errorType, path string) {
	Get().ErrorsTotal.WithLabelValues(errorType, path).Inc()
}

// StatusLabel formats an HTTP status as a numeric label so queries like status=~"5.." match
func StatusLabel(status int) string {
	return strconv.Itoa(status)
}
