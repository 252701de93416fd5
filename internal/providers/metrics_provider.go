package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dlb/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFetchFailure(handle string)
	IncRollover()
	ObserveRefreshDuration(job string, duration time.Duration)
	SetCreatorScore(window, handle string, score int64)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	fetchFailures   *prometheus.CounterVec
	rollovers       prometheus.Counter
	refreshDuration *prometheus.HistogramVec
	creatorScore    *prometheus.GaugeVec
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

func (m *MetricsProvider) IncFetchFailure(handle string) {
	m.fetchFailures.WithLabelValues(handle).Inc()
}

func (m *MetricsProvider) IncRollover() {
	m.rollovers.Inc()
}

func (m *MetricsProvider) ObserveRefreshDuration(job string, duration time.Duration) {
	m.refreshDuration.WithLabelValues(job).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetCreatorScore(window, handle string, score int64) {
	m.creatorScore.WithLabelValues(window, handle).Set(float64(score))
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
			Name: "dlb_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dlb_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dlb_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dlb_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		fetchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dlb_fetch_failures_total",
			Help: "Upstream fetch failures per creator",
		}, []string{"creator"}),

		rollovers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dlb_rollovers_total",
			Help: "Number of logical-day rollovers",
		}),

		refreshDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dlb_refresh_duration_seconds",
			Help:    "Duration of scheduled refresh cycles in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),

		creatorScore: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dlb_creator_score",
			Help: "Last computed score per creator and window",
		}, []string{"window", "creator"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncFetchFailure(_ string)                         {}
func (n *noopMetrics) IncRollover()                                     {}
func (n *noopMetrics) ObserveRefreshDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetCreatorScore(_, _ string, _ int64)             {}
