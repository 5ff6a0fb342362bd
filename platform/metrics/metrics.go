// Package metrics exposes Prometheus collectors for the picker service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "locpicker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "locpicker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Picker metrics
	GeocodeLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "locpicker",
		Subsystem: "geocode",
		Name:      "lookups_total",
		Help:      "Geocoding lookups by outcome (found, not_found, error)",
	}, []string{"outcome"})

	GeocodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "locpicker",
		Subsystem: "geocode",
		Name:      "lookup_duration_seconds",
		Help:      "Latency of upstream geocoding requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "locpicker",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Geocode cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "locpicker",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Geocode cache misses",
	})

	GeolocationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "locpicker",
		Subsystem: "geolocation",
		Name:      "outcomes_total",
		Help:      "Device geolocation requests by outcome (resolved, unavailable, unsupported, abandoned)",
	}, []string{"outcome"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "locpicker",
		Subsystem: "picker",
		Name:      "active_sessions",
		Help:      "Currently mounted picker sessions",
	})

	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "locpicker",
		Subsystem: "sse",
		Name:      "active_streams",
		Help:      "Currently connected event streams",
	})
)

// ObserveGeocode records the outcome and latency of one upstream lookup.
func ObserveGeocode(outcome string, started time.Time) {
	GeocodeLookups.WithLabelValues(outcome).Inc()
	GeocodeDuration.Observe(time.Since(started).Seconds())
}

// Middleware records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns a gin handler serving the Prometheus /metrics endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
