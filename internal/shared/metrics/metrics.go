package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	interviewsCreated = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviews_created_total",
			Help: "Interviews persisted after question generation",
		},
		[]string{"schedule"},
	)

	generationFailures = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "interview_generation_failures_total",
			Help: "Question generation calls that failed",
		},
	)

	interviewsCompleted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviews_completed_total",
			Help: "Interviews completed, by lifecycle state at completion",
		},
		[]string{"lifecycle"},
	)

	lifecycleClassified = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_lifecycle_classifications_total",
			Help: "Lifecycle states computed on read",
		},
		[]string{"state"},
	)

	feedbackJobs = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_jobs_total",
			Help: "Feedback scoring jobs by outcome",
		},
		[]string{"outcome"},
	)

	feedbackDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedback_scoring_duration_ms",
			Help:    "Feedback scoring duration in milliseconds",
			Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
		},
	)

	httpRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var rateLimited = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter, by route group",
	},
	[]string{"group"},
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncInterviewCreated counts a persisted interview. scheduled selects the label.
func IncInterviewCreated(scheduled bool) {
	label := "now"
	if scheduled {
		label = "later"
	}
	interviewsCreated.WithLabelValues(label).Inc()
}

// IncGenerationFailed counts a failed question generation call.
func IncGenerationFailed() {
	generationFailures.Inc()
}

// IncInterviewCompleted counts a completion, labelled by the state it was taken in.
func IncInterviewCompleted(state string) {
	interviewsCompleted.WithLabelValues(state).Inc()
}

// ObserveLifecycle counts a computed lifecycle state.
func ObserveLifecycle(state string) {
	lifecycleClassified.WithLabelValues(state).Inc()
}

// IncFeedbackJob counts a feedback job outcome such as enqueued, received,
// scored, existing, failed or dropped.
func IncFeedbackJob(outcome string) {
	feedbackJobs.WithLabelValues(outcome).Inc()
}

// IncRateLimited counts a request rejected for the given rate limit group.
func IncRateLimited(group string) {
	rateLimited.WithLabelValues(group).Inc()
}

// ObserveFeedbackDurationMs records a scoring duration in milliseconds.
func ObserveFeedbackDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	feedbackDuration.Observe(value)
}

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Since returns elapsed milliseconds from start.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
