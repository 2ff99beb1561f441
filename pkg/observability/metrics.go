package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the content platform
type Metrics struct {
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
	CacheEvictions   *prometheus.CounterVec
	ContentFetches   *prometheus.CounterVec
	SavesTotal       *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// NewMetrics registers and returns the platform metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "content_cache_hits_total",
			Help: "Cache hits by namespace and tier",
		}, []string{"namespace", "tier"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "content_cache_misses_total",
			Help: "Cache misses by namespace",
		}, []string{"namespace"}),
		CacheEvictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "content_cache_evictions_total",
			Help: "Cache evictions by reason (expired, quota, invalidated)",
		}, []string{"reason"}),
		ContentFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "content_fetches_total",
			Help: "Static content fetches by outcome (hit, fetched, not_found, empty, error)",
		}, []string{"outcome"}),
		SavesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "content_saves_total",
			Help: "Content persistence operations by kind and trigger (auto, manual, publish, schedule)",
		}, []string{"kind", "trigger"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

// NewNopMetrics returns metrics bound to a throwaway registry, for tests
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
