package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(log *slog.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(log))
	r.Use(RequestID())
	r.Use(Logging(log))
	return r
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		out = append(out, rec)
	}
	return out
}

func TestRequestLoggerCarriesRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewJSONHandler(buf, nil))
	r := newRouter(log)
	r.GET("/v1/clients/:name/ping", func(c *gin.Context) {
		RequestLogger(c, nil).Info("handled", "client", c.Param("name"))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/clients/main/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))

	logs := records(t, buf)
	require.Len(t, logs, 2)
	assert.Equal(t, "handled", logs[0]["msg"])
	assert.Equal(t, "req-42", logs[0]["request_id"])
	assert.Equal(t, "request", logs[1]["msg"])
	assert.Equal(t, "req-42", logs[1]["request_id"])
	assert.Equal(t, float64(http.StatusNoContent), logs[1]["status"])
}

func TestRecoveryLogsRouteAndClient(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewJSONHandler(buf, nil))
	r := newRouter(log)
	r.POST("/v1/clients/:name/query", func(*gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/clients/main/query", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "req-7")

	var panicked map[string]any
	for _, l := range records(t, buf) {
		if l["msg"] == "handler panicked" {
			panicked = l
		}
	}
	require.NotNil(t, panicked)
	assert.Equal(t, "boom", panicked["panic"])
	assert.Equal(t, "/v1/clients/:name/query", panicked["route"])
	assert.Equal(t, "main", panicked["client"])
	assert.Equal(t, "req-7", panicked["request_id"])
}

func TestRequestLoggerFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewJSONHandler(buf, nil))

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(RequestIDKey, "req-1")
	RequestLogger(c, log).Info("fallback")

	logs := records(t, buf)
	require.Len(t, logs, 1)
	assert.Equal(t, "req-1", logs[0]["request_id"])
}
