package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the domain counters.
const (
	ResultOK           = "ok"
	ResultRejected     = "rejected"
	ResultUnauthorized = "unauthorized"
	ResultError        = "error"
)

var (
	initOnce sync.Once

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	uploads           *prometheus.CounterVec
	uploadBytes       *prometheus.CounterVec
	announcementWrite *prometheus.CounterVec
)

// InitMetrics registers the collectors with the default registry. Safe to call repeatedly.
func InitMetrics() {
	initOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressroom",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"method", "route", "status"})
		httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pressroom",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})
		uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressroom",
			Name:      "uploads_total",
			Help:      "Object store uploads by kind (attachment, image) and result.",
		}, []string{"kind", "result"})
		uploadBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressroom",
			Name:      "upload_bytes_total",
			Help:      "Bytes written to the object store by kind.",
		}, []string{"kind"})
		announcementWrite = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressroom",
			Name:      "announcement_mutations_total",
			Help:      "Announcement create/update/delete calls by result.",
		}, []string{"op", "result"})

		prometheus.MustRegister(httpRequests, httpDuration, uploads, uploadBytes, announcementWrite)
	})
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	InitMetrics()
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	InitMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveUpload counts one upload attempt; size is added only on success.
func ObserveUpload(kind, result string, size int64) {
	InitMetrics()
	uploads.WithLabelValues(kind, result).Inc()
	if result == ResultOK && size > 0 {
		uploadBytes.WithLabelValues(kind).Add(float64(size))
	}
}

// ObserveMutation counts one announcement mutation.
func ObserveMutation(op, result string) {
	InitMetrics()
	announcementWrite.WithLabelValues(op, result).Inc()
}
