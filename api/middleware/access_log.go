package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/internal/metrics"
)

const unmatchedRoute = "unmatched"

// AccessLog records one log line and one latency observation per request.
// Successful hits on quiet routes (probes, scrapes) are logged at debug.
func AccessLog(quietRoutes ...string) gin.HandlerFunc {
	quiet := make(map[string]bool, len(quietRoutes))
	for _, r := range quietRoutes {
		quiet[r] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()
		metrics.Get().ObserveRequest(c.Request.Method, route, status, latency)

		entry := logger.FromContext(c.Request.Context()).WithFields(logrus.Fields{
			"status":     status,
			"method":     c.Request.Method,
			"route":      route,
			"path":       c.Request.URL.Path,
			"latency_ms": latency.Milliseconds(),
			"bytes":      c.Writer.Size(),
			"ip":         c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		level, msg := accessLevel(status, quiet[route])
		entry.Log(level, msg)
	}
}

func accessLevel(status int, quiet bool) (logrus.Level, string) {
	switch {
	case status >= 500:
		return logrus.ErrorLevel, "server error"
	case status >= 400:
		return logrus.WarnLevel, "client error"
	case quiet:
		return logrus.DebugLevel, "request completed"
	default:
		return logrus.InfoLevel, "request completed"
	}
}
