package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Polish outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeCompletion = "completion_error"
	OutcomeStore      = "store_error"
)

// Download sources.
const (
	SourceSession     = "session"
	SourcePlaceholder = "placeholder"
	SourceMissing     = "missing"
)

var (
	PolishRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_polish_requests_total",
			Help: "Polish requests by outcome",
		},
		[]string{"outcome"},
	)

	CompletionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_completion_attempts_total",
			Help: "Completion API attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cv_completion_duration_seconds",
			Help:    "Duration of a single completion attempt",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)

	Downloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_downloads_total",
			Help: "PDF downloads by text source",
		},
		[]string{"source"},
	)

	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cv_render_duration_seconds",
			Help:    "PDF render duration",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	SessionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cv_sessions_swept_total",
			Help: "Expired sessions removed by the sweeper",
		},
	)
)

// IncPolish counts a finished polish request.
func IncPolish(outcome string) {
	PolishRequests.WithLabelValues(outcome).Inc()
}

// ObserveCompletion records one completion attempt.
func ObserveCompletion(provider, outcome string, d time.Duration) {
	CompletionAttempts.WithLabelValues(provider, outcome).Inc()
	CompletionDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// IncDownload counts a download by where its text came from.
func IncDownload(source string) {
	Downloads.WithLabelValues(source).Inc()
}

// ObserveRender records a render duration.
func ObserveRender(d time.Duration) {
	RenderDuration.Observe(d.Seconds())
}

// AddSwept counts sessions removed by a sweep.
func AddSwept(n int64) {
	if n > 0 {
		SessionsSwept.Add(float64(n))
	}
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
