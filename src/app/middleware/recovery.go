package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"dbclient/src/app/http/response"
)

// Recovery turns a handler panic into a 500 response. It logs the route and,
// for client routes, the client name. Install it before RequestID so the
// request ID is picked up when present.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			attrs := []any{
				"panic", p,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			}
			if name := c.Param("name"); name != "" {
				attrs = append(attrs, "client", name)
			}
			RequestLogger(c, log).Error("handler panicked", attrs...)

			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error{
				Error: response.ErrorDetail{
					Code:      "INTERNAL_ERROR",
					Message:   "An unexpected error occurred",
					RequestID: GetRequestID(c),
				},
			})
		}()

		c.Next()
	}
}
