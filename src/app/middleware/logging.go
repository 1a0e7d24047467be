package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"dbclient/src/infra/logger"
)

// LoggerKey is the context key for the request-scoped logger.
const LoggerKey = "logger"

// Logging emits one structured record per request and stores a logger
// carrying the request ID for handlers. Bodies are not logged since query
// payloads may carry bound values.
func Logging(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		reqLog := logger.WithRequestID(log, GetRequestID(c))
		c.Set(LoggerKey, reqLog)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			reqLog.Error("request", attrs...)
		case status >= 400:
			reqLog.Warn("request", attrs...)
		default:
			reqLog.Info("request", attrs...)
		}
	}
}

// RequestLogger returns the logger stored by Logging, or fallback with the
// request ID attached when Logging has not run.
func RequestLogger(c *gin.Context, fallback *slog.Logger) *slog.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return logger.WithRequestID(fallback, GetRequestID(c))
}
