package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"kamuisnap/internal/consul"

	"github.com/gin-gonic/gin"
)

// ProxyHandler handles reverse proxy requests to backend services
type ProxyHandler struct {
	discovery consul.ServiceDiscovery
}

// NewProxyHandler creates a new proxy handler
func NewProxyHandler(discovery consul.ServiceDiscovery) *ProxyHandler {
	return &ProxyHandler{
		discovery: discovery,
	}
}

// Proxy forwards the request to one healthy instance of serviceName.
// stripPrefix is removed from the path first: /api/posts/7 -> /posts/7.
func (h *ProxyHandler) Proxy(serviceName, stripPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("upstream_service", serviceName)

		instance, err := h.discovery.DiscoverOne(serviceName)
		if err != nil {
			slog.Error("Service discovery failed",
				"service", serviceName,
				"error", err.Error(),
				"request_id", c.GetString("request_id"),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   fmt.Sprintf("service %s unavailable", serviceName),
			})
			return
		}

		targetURL, err := url.Parse(instance.URL())
		if err != nil {
			slog.Error("Invalid upstream address", "target", instance.URL(), "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "internal server error",
			})
			return
		}

		requestID := c.GetString("request_id")
		proxy := &httputil.ReverseProxy{
			Rewrite: func(pr *httputil.ProxyRequest) {
				pr.SetURL(targetURL)
				pr.SetXForwarded()
				pr.Out.URL.Path = rewritePath(pr.Out.URL.Path, stripPrefix)
				pr.Out.URL.RawPath = ""
				if requestID != "" {
					pr.Out.Header.Set("X-Request-ID", requestID)
				}
			},
			ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
				slog.Error("Proxy error",
					"service", serviceName,
					"error", err.Error(),
					"request_id", requestID,
				)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"success":false,"error":"bad gateway"}`))
			},
		}

		proxy.ServeHTTP(c.Writer, c.Request)
	}
}

func rewritePath(path, stripPrefix string) string {
	if stripPrefix == "" {
		return path
	}
	path = strings.TrimPrefix(path, stripPrefix)
	if path == "" {
		return "/"
	}
	return path
}

// Health is the gateway health check handler
func (h *ProxyHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "api-gateway",
	})
}
