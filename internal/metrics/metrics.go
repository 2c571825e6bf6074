package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vladimiradmaev/fitscan-coach/internal/config"
)

type Provider interface {
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, duration time.Duration)
	CacheHit()
	CacheMiss()
	ObserveRemoteCall(operation string, duration time.Duration, err error)
	Handler() http.Handler
}

type PrometheusProvider struct {
	registry       *prometheus.Registry
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	remoteCalls    *prometheus.CounterVec
	remoteLatency  *prometheus.HistogramVec
}

// New returns a noop provider when metrics are disabled.
func New(cfg *config.Config) Provider {
	if !cfg.Metrics.Enabled {
		return &noopMetrics{}
	}
	return NewPrometheusProvider(prometheus.NewRegistry())
}

func NewPrometheusProvider(reg *prometheus.Registry) *PrometheusProvider {
	m := &PrometheusProvider{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitscan_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitscan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitscan_analysis_cache_hits_total",
			Help: "Food analyses served from the analysis cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitscan_analysis_cache_misses_total",
			Help: "Analysis cache lookups that fell through to the remote model",
		}),
		remoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitscan_remote_calls_total",
			Help: "Calls to the generative model by operation and outcome",
		}, []string{"operation", "outcome"}),
		remoteLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitscan_remote_call_duration_seconds",
			Help:    "Generative model call duration in seconds",
			Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"operation"}),
	}
	reg.MustRegister(
		m.requestsTotal, m.requestLatency,
		m.cacheHits, m.cacheMisses,
		m.remoteCalls, m.remoteLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *PrometheusProvider) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *PrometheusProvider) ObserveRequestDuration(route string, duration time.Duration) {
	m.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *PrometheusProvider) CacheHit() {
	m.cacheHits.Inc()
}

func (m *PrometheusProvider) CacheMiss() {
	m.cacheMisses.Inc()
}

func (m *PrometheusProvider) ObserveRemoteCall(operation string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.remoteCalls.WithLabelValues(operation, outcome).Inc()
	m.remoteLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *PrometheusProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency per matched route.
func Middleware(m Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.IncRequestsTotal(route, c.Writer.Status())
		m.ObserveRequestDuration(route, time.Since(start))
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) CacheHit()                                            {}
func (n *noopMetrics) CacheMiss()                                           {}
func (n *noopMetrics) ObserveRemoteCall(_ string, _ time.Duration, _ error) {}
func (n *noopMetrics) Handler() http.Handler                                { return http.NotFoundHandler() }
