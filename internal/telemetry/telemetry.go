// Package telemetry defines the Prometheus collectors the service exports.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analysis metrics
	AnalyzeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_coach_analyze_requests_total",
			Help: "Speech analysis requests by persona and status",
		},
		[]string{"persona", "status"},
	)
	AnalyzeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "persona_coach_analyze_duration_seconds",
			Help:    "End-to-end analyze request latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Coaching metrics
	CoachingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "persona_coach_coaching_fallbacks_total",
			Help: "Coaching generations served by the local fallback",
		},
	)

	// TTS metrics
	TTSRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "persona_coach_tts_requests_total",
			Help: "TTS synthesis attempts",
		},
	)
	TTSErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "persona_coach_tts_errors_total",
			Help: "TTS synthesis failures that fell back to text",
		},
	)
)
