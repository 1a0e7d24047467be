package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbclient/src/core/client"
	"dbclient/src/core/pool"
	"dbclient/src/core/usecase"
	"dbclient/src/infra/config"
	"dbclient/src/infra/metrics"
	"dbclient/src/testutil"
)

type fixture struct {
	srv    *Server
	driver *testutil.FakeDriver
	pool   *pool.Pool
}

func newFixture(t *testing.T, enableQuery bool) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := pool.NewRegistry()
	m := metrics.New("dbclient", registry)
	drv := testutil.NewFakeDriver()

	p, err := pool.New(pool.Config{Max: 1, AcquireTimeout: 50 * time.Millisecond}, drv,
		pool.WithName("pool-main"), pool.WithObserver(m), pool.WithLogger(log))
	require.NoError(t, err)
	require.NoError(t, registry.Register("main", p))
	t.Cleanup(func() { _ = registry.CloseAll() })

	c, err := client.New(client.Config{Name: "main"}, p, client.WithLogger(log))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.EnableQuery = enableQuery
	cfg.Server.HealthTimeout = time.Second

	srv := New(cfg, log, Deps{Pools: registry, Clients: []usecase.Executor{c}, Metrics: m.Handler()})
	return &fixture{srv: srv, driver: drv, pool: p}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = f.do(t, http.MethodGet, "/health/detailed", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["components"].(map[string]any)["pool:main"].(map[string]any)["status"])

	require.NoError(t, f.pool.Close())
	rec = f.do(t, http.MethodGet, "/health/detailed", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode(t, rec)["status"])
}

func TestPools(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/v1/pools", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pools := decode(t, rec)["data"].(map[string]any)["pools"].([]any)
	require.Len(t, pools, 1)
	assert.Equal(t, "pool-main", pools[0].(map[string]any)["name"])
	assert.Equal(t, 1.0, pools[0].(map[string]any)["available"])

	rec = f.do(t, http.MethodGet, "/v1/pools/main", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/pools/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["error"].(map[string]any)["code"])
}

func TestQueryDisabledByDefault(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodPost, "/v1/clients/main/query", map[string]any{
		"statements": []map[string]any{{"sql": "select 1"}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuery(t *testing.T) {
	tests := []struct {
		desc     string
		client   string
		body     map[string]any
		prepare  func(f *fixture)
		wantCode int
		wantSQL  []string
	}{
		{
			desc:     "single",
			client:   "main",
			body:     map[string]any{"statements": []map[string]any{{"sql": "select ?", "args": []any{1}}}},
			wantCode: http.StatusOK,
			wantSQL:  []string{"select ?"},
		},
		{
			desc:   "batch in transaction",
			client: "main",
			body: map[string]any{
				"transactional": true,
				"statements":    []map[string]any{{"sql": "insert a"}, {"sql": "insert b"}},
			},
			wantCode: http.StatusOK,
			wantSQL:  []string{"begin;", "insert a", "insert b", "commit;"},
		},
		{
			desc:   "failing statement rolls back",
			client: "main",
			body: map[string]any{
				"transactional": true,
				"statements":    []map[string]any{{"sql": "insert bad"}},
			},
			prepare:  func(f *fixture) { f.driver.FailOn("insert bad", errors.New("constraint violated")) },
			wantCode: http.StatusUnprocessableEntity,
			wantSQL:  []string{"begin;", "insert bad", "rollback;"},
		},
		{
			desc:     "missing statements",
			client:   "main",
			body:     map[string]any{},
			wantCode: http.StatusBadRequest,
		},
		{
			desc:     "unknown client",
			client:   "other",
			body:     map[string]any{"statements": []map[string]any{{"sql": "select 1"}}},
			wantCode: http.StatusNotFound,
		},
		{
			desc:     "pool exhausted",
			client:   "main",
			body:     map[string]any{"statements": []map[string]any{{"sql": "select 1"}}},
			prepare:  func(f *fixture) { _, _ = f.pool.Acquire(context.Background()) },
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			f := newFixture(t, true)
			if tc.prepare != nil {
				tc.prepare(f)
			}

			rec := f.do(t, http.MethodPost, "/v1/clients/"+tc.client+"/query", tc.body)
			assert.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			if tc.wantSQL != nil {
				assert.Equal(t, tc.wantSQL, f.driver.SQL())
			}
		})
	}
}

func TestMetricsAndNoRoute(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/v1/pools", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dbclient_pool_max_connections{pool="pool-main"} 1`)

	rec = f.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
