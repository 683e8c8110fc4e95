package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeParsed        = "parsed"
	OutcomeFallback      = "fallback"
	OutcomeUpstreamError = "upstream_error"
)

var (
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_generations_total",
		Help: "Generate requests by kind and outcome.",
	}, []string{"kind", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recipe_upstream_request_duration_seconds",
		Help:    "Latency of completion API calls.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 60},
	}, []string{"kind"})
)

func ObserveGeneration(kind, outcome string, upstream time.Duration) {
	Generations.WithLabelValues(kind, outcome).Inc()
	UpstreamDuration.WithLabelValues(kind).Observe(upstream.Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
