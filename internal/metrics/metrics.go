package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	QueriesTotal    *prometheus.CounterVec
	QuerySeconds    *prometheus.HistogramVec
	PumpsLoaded     prometheus.Gauge
	GeocodeRequests *prometheus.CounterVec
	GeocodeSeconds  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		QueriesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pumps_queries_total",
			Help: "Total number of pump queries served, by operation.",
		}, []string{"operation"}),
		QuerySeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pumps_query_duration_seconds",
			Help:    "Duration of in-memory pump queries.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"operation"}),
		PumpsLoaded: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "pumps_loaded",
			Help: "Number of pump records loaded at startup.",
		}),
		GeocodeRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pumps_geocode_requests_total",
			Help: "Total number of address geocoding requests, by provider and status.",
		}, []string{"provider", "status"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pumps_geocode_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}
