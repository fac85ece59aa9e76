package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Token counters
	TokensPromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "tokens_prompt_total",
			Help:      "Total prompt tokens consumed",
		},
		[]string{"model"},
	)

	TokensCompletionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "tokens_completion_total",
			Help:      "Total completion tokens generated",
		},
		[]string{"model"},
	)

	// Generation outcomes
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "generations_total",
			Help:      "Completed generation requests by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// LLM inference duration
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "llm_duration_seconds",
			Help:      "LLM inference duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model", "stream"},
	)

	// Active streaming connections gauge
	ActiveStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "active_streams",
			Help:      "Currently active streaming connections",
		},
	)

	// Title generation outcomes
	TitlesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "titles_generated_total",
			Help:      "Chat titles generated by source (ai or fallback)",
		},
		[]string{"source"},
	)

	// Rate limited requests
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatgpt_clone",
			Subsystem: "api",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the AI rate limiter",
		},
	)
)

// RecordRequest records an HTTP request with duration
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordTokens records token usage for a completion request
func RecordTokens(model string, promptTokens, completionTokens int) {
	TokensPromptTotal.WithLabelValues(model).Add(float64(promptTokens))
	TokensCompletionTotal.WithLabelValues(model).Add(float64(completionTokens))
}

// RecordGeneration records a generation attempt outcome
func RecordGeneration(mode, outcome string) {
	GenerationsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordLLMDuration records the duration of an LLM inference call
func RecordLLMDuration(model string, stream bool, durationSec float64) {
	streamStr := "false"
	if stream {
		streamStr = "true"
	}
	LLMDuration.WithLabelValues(model, streamStr).Observe(durationSec)
}

// RecordTitleGenerated records a chat title generation by source
func RecordTitleGenerated(source string) {
	TitlesGeneratedTotal.WithLabelValues(source).Inc()
}
