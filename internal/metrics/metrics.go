// Package metrics exposes Prometheus collectors for the HTTP layer and the
// domain events services care about.
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
	// HTTPRequestsTotal counts handled requests.
	// Labels: service, method, route (gin FullPath), status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kamuisnap_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"service", "method", "route", "status"},
	)

	// HTTPRequestDuration measures handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kamuisnap_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "route"},
	)

	// PostsCreatedTotal counts stored posts by category.
	PostsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kamuisnap_posts_created_total",
			Help: "Total number of posts created",
		},
		[]string{"category"},
	)

	// LikeEventsTotal counts ledger changes.
	// Labels:
	//   - action: "like", "unlike"
	//   - outcome: "applied", "noop"
	LikeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kamuisnap_like_events_total",
			Help: "Total number of like and unlike operations",
		},
		[]string{"action", "outcome"},
	)

	// MediaUploadsTotal counts media transfers to object storage.
	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kamuisnap_media_uploads_total",
			Help: "Total number of media uploads",
		},
		[]string{"media_type", "outcome"},
	)

	// CacheLookupsTotal counts Redis cache lookups by result ("hit", "miss").
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kamuisnap_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"result"},
	)

	// TwitterRequestsTotal counts outbound Twitter API calls.
	TwitterRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kamuisnap_twitter_requests_total",
			Help: "Total number of Twitter API requests",
		},
		[]string{"endpoint", "outcome"},
	)
)

// Middleware records request count and latency for every route.
func Middleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(service, c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(service, c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Outcome maps an error to the "success"/"failure" label pair used above.
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
