package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	CacheHitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hit_total",
			Help: "Total cache hits",
		},
		[]string{"cache"},
	)

	CacheMissTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_miss_total",
			Help: "Total cache misses",
		},
		[]string{"cache"},
	)

	// ============================================
	// Rating Engine Metrics
	// ============================================

	RatingMatchesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_matches_processed_total",
			Help: "Total matches that produced a rating update",
		},
		[]string{"ruleset"},
	)

	RatingMatchesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_matches_skipped_total",
			Help: "Total matches skipped without error (zero valid games, etc.)",
		},
		[]string{"ruleset", "reason"},
	)

	RatingGamesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_games_skipped_total",
			Help: "Total games skipped within a processed match",
		},
		[]string{"ruleset", "reason"},
	)

	RatingDecaysAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_decays_applied_total",
			Help: "Total weekly decay adjustments applied",
		},
		[]string{"ruleset"},
	)

	RatingMatchProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rating_match_processing_duration_seconds",
			Help:    "Time to process a single match through the rating engine",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"ruleset"},
	)

	RatingRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rating_run_duration_seconds",
			Help:    "Total wall-clock time of a full rating run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"status"},
	)

	RatingLeaderboardSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rating_leaderboard_size",
			Help: "Number of ranked players currently tracked",
		},
		[]string{"ruleset"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		wrapped := newResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(wrapped.statusCode)
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func normalizePath(path string) string {
	if len(path) > 50 {
		return path[:50]
	}
	return path
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordDBOperation(operation, collection string, duration time.Duration) {
	DatabaseOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
}

func RecordCacheHit(cache string) {
	CacheHitTotal.WithLabelValues(cache).Inc()
}

func RecordCacheMiss(cache string) {
	CacheMissTotal.WithLabelValues(cache).Inc()
}

func RecordMatchProcessed(ruleset string, duration time.Duration) {
	RatingMatchesProcessedTotal.WithLabelValues(ruleset).Inc()
	RatingMatchProcessingDuration.WithLabelValues(ruleset).Observe(duration.Seconds())
}

func RecordMatchSkipped(ruleset, reason string) {
	RatingMatchesSkippedTotal.WithLabelValues(ruleset, reason).Inc()
}

func RecordGamesSkipped(ruleset, reason string, count int) {
	RatingGamesSkippedTotal.WithLabelValues(ruleset, reason).Add(float64(count))
}

func RecordDecayApplied(ruleset string) {
	RatingDecaysAppliedTotal.WithLabelValues(ruleset).Inc()
}

func RecordRunCompleted(status string, duration time.Duration) {
	RatingRunDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func SetLeaderboardSize(ruleset string, size int) {
	RatingLeaderboardSize.WithLabelValues(ruleset).Set(float64(size))
}
