// internal/metrics/metrics.go
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modhub_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
	ItemViews = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modhub_item_views_total",
			Help: "Deduplicated item detail views.",
		},
	)
	FileDownloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modhub_file_downloads_total",
			Help: "Signed download URLs handed out.",
		},
	)
	UploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modhub_uploads_bytes_total",
			Help: "Bytes streamed to object storage.",
		},
	)
	UsersCleaned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modhub_users_cleaned_total",
			Help: "Unverified accounts removed by the cleanup job.",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, ItemViews, FileDownloads, UploadBytes, UsersCleaned)
}

// Middleware counts requests by matched route template, so path
// parameters do not explode the label set.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
