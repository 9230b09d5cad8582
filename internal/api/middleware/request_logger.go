package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDKey = "request_id"

// RequestLogger tags each request with an X-Request-Id (kept when the client
// sends one) and logs one line per request at a level matching the status.
// Successful hits on quiet routes (probes, scrapes) are logged at debug.
func RequestLogger(l *logrus.Logger, quiet ...string) gin.HandlerFunc {
	quietRoutes := make(map[string]struct{}, len(quiet))
	for _, q := range quiet {
		quietRoutes[q] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-Id", reqID)
		c.Set(requestIDKey, reqID)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()

		fields := logrus.Fields{
			requestIDKey: reqID,
			"method":     c.Request.Method,
			"route":      route,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"bytes":      c.Writer.Size(),
			"ip":         c.ClientIP(),
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields["user_id"] = uid
			fields["role"] = c.GetString("role")
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		entry := l.WithFields(fields)

		_, isQuiet := quietRoutes[route]
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		case c.IsWebsocket():
			entry.Info("websocket closed")
		case isQuiet:
			entry.Debug("request")
		default:
			entry.Info("request")
		}
	}
}

// RequestID returns the id RequestLogger assigned, or "" outside it.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
