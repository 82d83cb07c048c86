package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment service.
type Metrics struct {
	AssessmentsComputed *prometheus.CounterVec   // labels: kind={suitability,stability}
	ScoreDistribution   *prometheus.HistogramVec // labels: kind={suitability,stability}

	// Upstream provider metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: provider={power,nominatim,firms}, outcome={success,error,empty,unauthorized}
	UpstreamDuration *prometheus.HistogramVec // labels: provider={power,nominatim,firms}
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}

	// Assessment event publishing metrics.
	EventsPublished  prometheus.Counter
	PublishErrors    prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AssessmentsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecoshield",
			Name:      "assessments_computed_total",
			Help:      "Total scores computed by kind.",
		}, []string{"kind"}),
		ScoreDistribution: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecoshield",
			Name:      "assessment_score",
			Help:      "Distribution of computed 0-100 scores by kind.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"kind"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecoshield",
			Name:      "upstream_requests_total",
			Help:      "Upstream provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecoshield",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecoshield",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecoshield",
			Name:      "assessment_events_published_total",
			Help:      "Total assessment events written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecoshield",
			Name:      "assessment_publish_errors_total",
			Help:      "Total failures publishing assessment events.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ecoshield",
			Name:      "assessment_publisher_enabled",
			Help:      "1 when assessment event publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.AssessmentsComputed,
		m.ScoreDistribution,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
		m.EventsPublished,
		m.PublishErrors,
		m.PublisherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AssessmentsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ecoshield", Name: "assessments_computed_total"}, []string{"kind"}),
		ScoreDistribution:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "ecoshield", Name: "assessment_score"}, []string{"kind"}),
		UpstreamRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ecoshield", Name: "upstream_requests_total"}, []string{"provider", "outcome"}),
		UpstreamDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "ecoshield", Name: "upstream_request_duration_seconds"}, []string{"provider"}),
		GeocodeCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ecoshield", Name: "geocode_cache_total"}, []string{"result"}),
		EventsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ecoshield", Name: "assessment_events_published_total"}),
		PublishErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ecoshield", Name: "assessment_publish_errors_total"}),
		PublisherEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ecoshield", Name: "assessment_publisher_enabled"}),
	}
}
