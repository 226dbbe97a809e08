package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
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
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	complaintsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaints_submitted_total",
			Help: "Total number of complaints submitted",
		},
		[]string{"category", "agency"},
	)

	complaintStatusChanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaint_status_changed_total",
			Help: "Total number of complaint status changes",
		},
		[]string{"from_status", "to_status"},
	)

	complaintResponsesAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "complaint_responses_added_total",
			Help: "Total number of staff responses added to complaints",
		},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications delivered",
		},
		[]string{"channel"},
	)

	notificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notification delivery failures",
		},
		[]string{"channel"},
	)

	notificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_dropped_total",
			Help: "Total number of notifications dropped because the buffer was full",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses resource id segments so the path label stays
// low-cardinality: /api/complaints/<uuid>/status becomes
// /api/complaints/{id}/status.
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if len(segment) != 36 {
			continue
		}
		if _, err := uuid.Parse(segment); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// --- Business metric helpers ---

// RecordComplaintSubmitted records a complaint submission
func RecordComplaintSubmitted(category, agency string) {
	complaintsSubmitted.WithLabelValues(category, agency).Inc()
}

// RecordStatusChange records a complaint status change
func RecordStatusChange(fromStatus, toStatus string) {
	complaintStatusChanged.WithLabelValues(fromStatus, toStatus).Inc()
}

// RecordResponseAdded records a staff response
func RecordResponseAdded() {
	complaintResponsesAdded.Inc()
}

// RecordNotificationSent records a delivered notification
func RecordNotificationSent(channel string) {
	notificationsSent.WithLabelValues(channel).Inc()
}

// RecordNotificationFailed records a failed notification
func RecordNotificationFailed(channel string) {
	notificationsFailed.WithLabelValues(channel).Inc()
}

// RecordNotificationDropped records a dropped notification
func RecordNotificationDropped() {
	notificationsDropped.Inc()
}
