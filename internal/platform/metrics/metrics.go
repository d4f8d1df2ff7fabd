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
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "survey",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10},
	}, []string{"method", "path"})

	PositionsProjected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "geo",
		Name:      "positions_projected_total",
		Help:      "Location samples projected to UTM",
	})

	PointsCaptured = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "points",
		Name:      "captured_total",
		Help:      "Points captured by category",
	}, []string{"category"})

	PointsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "points",
		Name:      "deleted_total",
		Help:      "Points removed from the collection",
	})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "export",
		Name:      "documents_total",
		Help:      "Export documents produced by format",
	}, []string{"format"})

	ClassifierCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "classifier",
		Name:      "calls_total",
		Help:      "Image classification calls by outcome",
	}, []string{"outcome"})

	TileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "tiles",
		Name:      "cache_hits_total",
		Help:      "Tile requests served from cache",
	})

	TileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "tiles",
		Name:      "cache_misses_total",
		Help:      "Tile requests fetched upstream",
	})

	TileStaleServed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Subsystem: "tiles",
		Name:      "stale_served_total",
		Help:      "Expired tiles served because upstream was unreachable",
	})
)

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

// Handler serves the Prometheus /metrics endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
