package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"codeboard/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveUpstreamFetch(platform, operation string, duration time.Duration)
	IncUpstreamErrors(platform, kind string)
	IncCoalescedFetches()
	ObserveStoreWrite(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	upstreamFetchSeconds *prometheus.HistogramVec
	upstreamErrorsTotal  *prometheus.CounterVec
	coalescedFetches     prometheus.Counter
	storeWriteSeconds    prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveUpstreamFetch(platform, operation string, duration time.Duration) {
	m.upstreamFetchSeconds.WithLabelValues(platform, operation).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncUpstreamErrors(platform, kind string) {
	m.upstreamErrorsTotal.WithLabelValues(platform, kind).Inc()
}

func (m *MetricsProvider) IncCoalescedFetches() {
	m.coalescedFetches.Inc()
}

func (m *MetricsProvider) ObserveStoreWrite(duration time.Duration) {
	m.storeWriteSeconds.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "codeboard_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codeboard_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "codeboard_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "codeboard_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		upstreamFetchSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codeboard_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream platform calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform", "operation"}),

		upstreamErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "codeboard_upstream_errors_total",
			Help: "Total number of upstream errors by kind",
		}, []string{"platform", "kind"}),

		coalescedFetches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "codeboard_coalesced_fetches_total",
			Help: "Requests that piggybacked on an in-flight upstream fetch",
		}),

		storeWriteSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "codeboard_store_write_duration_seconds",
			Help:    "Duration of heatmap store writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                       {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)       {}
func (n *noopMetrics) IncCacheHits()                                          {}
func (n *noopMetrics) IncCacheMisses()                                        {}
func (n *noopMetrics) ObserveUpstreamFetch(_, _ string, _ time.Duration)      {}
func (n *noopMetrics) IncUpstreamErrors(_, _ string)                          {}
func (n *noopMetrics) IncCoalescedFetches()                                   {}
func (n *noopMetrics) ObserveStoreWrite(_ time.Duration)                      {}
