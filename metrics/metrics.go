package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// YoutubeRequests counts outbound YouTube Data API calls by endpoint and outcome.
	YoutubeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ytideas",
		Name:      "youtube_requests_total",
		Help:      "Total YouTube Data API requests by endpoint and result",
	}, []string{"endpoint", "result"})

	YoutubeRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ytideas",
		Name:      "youtube_request_duration_seconds",
		Help:      "Duration of YouTube Data API requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	// StepDuration tracks how long each pipeline step takes, including the LLM round trip.
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ytideas",
		Name:      "pipeline_step_duration_seconds",
		Help:      "Duration of pipeline steps",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"step"})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ytideas",
		Name:      "pipeline_runs_total",
		Help:      "Total pipeline runs by final status",
	}, []string{"status"})
)

func ObserveYoutubeRequest(endpoint string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	YoutubeRequests.WithLabelValues(endpoint, result).Inc()
	YoutubeRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func ObserveStep(step string, start time.Time) {
	StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}
