package providers

import (
	"reelsd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncReels(source string)
	IncBlocked()
	IncRollovers()
	IncBackgroundDropped()
	ObservePersistenceDuration(duration time.Duration)
	SetTracking(active bool)
	SetToday(reels, seconds int)
	SetStreak(days int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	reelsTotal          *prometheus.CounterVec
	blockedTotal        prometheus.Counter
	rolloversTotal      prometheus.Counter
	backgroundDropped   prometheus.Counter
	persistenceDuration prometheus.Histogram
	tracking            prometheus.Gauge
	reelsToday          prometheus.Gauge
	secondsToday        prometheus.Gauge
	streakDays          prometheus.Gauge
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

func (m *MetricsProvider) IncReels(source string) {
	m.reelsTotal.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) IncBlocked() {
	m.blockedTotal.Inc()
}

func (m *MetricsProvider) IncRollovers() {
	m.rolloversTotal.Inc()
}

func (m *MetricsProvider) IncBackgroundDropped() {
	m.backgroundDropped.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetTracking(active bool) {
	if active {
		m.tracking.Set(1)
		return
	}
	m.tracking.Set(0)
}

func (m *MetricsProvider) SetToday(reels, seconds int) {
	m.reelsToday.Set(float64(reels))
	m.secondsToday.Set(float64(seconds))
}

func (m *MetricsProvider) SetStreak(days int) {
	m.streakDays.Set(float64(days))
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
			Name: "reelsd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reelsd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reelsd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reelsd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		reelsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reelsd_reels_recorded_total",
			Help: "Total number of recorded reels by source",
		}, []string{"source"}),

		blockedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reelsd_reels_blocked_total",
			Help: "Total number of reels rejected by focus mode",
		}),

		rolloversTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reelsd_rollovers_total",
			Help: "Total number of daily rollovers",
		}),

		backgroundDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reelsd_background_dropped_total",
			Help: "Background messages dropped because no receiver could take them",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reelsd_persistence_duration_seconds",
			Help:    "Duration of state persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		tracking: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "reelsd_tracking_active",
			Help: "1 when auto tracking is running",
		}),

		reelsToday: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "reelsd_reels_today",
			Help: "Reels watched in the current day bucket",
		}),

		secondsToday: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "reelsd_seconds_today",
			Help: "Tracked seconds in the current day bucket",
		}),

		streakDays: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "reelsd_streak_days",
			Help: "Current day streak",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncReels(_ string)                                {}
func (n *noopMetrics) IncBlocked()                                      {}
func (n *noopMetrics) IncRollovers()                                    {}
func (n *noopMetrics) IncBackgroundDropped()                            {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetTracking(_ bool)                               {}
func (n *noopMetrics) SetToday(_, _ int)                                {}
func (n *noopMetrics) SetStreak(_ int)                                  {}
