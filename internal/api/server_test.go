package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/worklog-reconcile/internal/api"
	"github.com/eshaffer321/worklog-reconcile/internal/api/dto"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/logging"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/metrics"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

func newTestServer(t *testing.T) (*api.Server, *storage.MockRepository, *metrics.Metrics) {
	t.Helper()
	repo := storage.NewMockRepository()
	m := metrics.New()
	server := api.NewServer(api.DefaultConfig(), api.Dependencies{Repo: repo, Metrics: m}, logging.Discard())
	return server, repo, m
}

func serve(server *api.Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := serve(server, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
}

func TestServer_RunsEndpoints(t *testing.T) {
	server, repo, _ := newTestServer(t)
	require.NoError(t, repo.StartRun(&storage.Run{ID: "run-1", ActivitySource: "gitlab", LedgerSource: "toggl"}))
	require.NoError(t, repo.SaveRecords("run-1", []storage.RunRecord{{Status: "missing", TaskKey: "#1"}}))
	require.NoError(t, repo.CompleteRun("run-1", storage.RunCounts{Missing: 1}))

	t.Run("GET /api/runs returns runs", func(t *testing.T) {
		rec := serve(server, http.MethodGet, "/api/runs")
		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RunListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("GET /api/runs/:id returns single run", func(t *testing.T) {
		rec := serve(server, http.MethodGet, "/api/runs/run-1")
		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RunResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "run-1", response.ID)
	})

	t.Run("GET /api/runs/:id/records filters by status", func(t *testing.T) {
		rec := serve(server, http.MethodGet, "/api/runs/run-1/records?status=missing")
		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RecordListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("POST /api/runs/:id/import is unavailable without an importer", func(t *testing.T) {
		rec := serve(server, http.MethodPost, "/api/runs/run-1/import")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestServer_SnapshotRoutes(t *testing.T) {
	server, repo, _ := newTestServer(t)
	require.NoError(t, repo.SaveSnapshot(&storage.Snapshot{ID: "a", Source: "toggl"}))
	require.NoError(t, repo.SaveSnapshot(&storage.Snapshot{ID: "b", Source: "toggl"}))

	assert.Equal(t, http.StatusOK, serve(server, http.MethodGet, "/api/snapshots").Code)
	assert.Equal(t, http.StatusOK, serve(server, http.MethodGet, "/api/snapshots/a").Code)
	assert.Equal(t, http.StatusOK, serve(server, http.MethodGet, "/api/snapshots/diff?older=a&newer=b").Code)
}

func TestServer_JobsRoutesRequireJobService(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(`{"source":"gitlab"}`))
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	server, _, m := newTestServer(t)

	serve(server, http.MethodGet, "/health")
	serve(server, http.MethodGet, "/api/runs/missing")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "404")))

	rec := serve(server, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "worklog_http_requests_total")
}

func TestServer_CORS(t *testing.T) {
	server, _, _ := newTestServer(t)

	t.Run("sets CORS headers for allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()

		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("handles OPTIONS preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/runs", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()

		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
