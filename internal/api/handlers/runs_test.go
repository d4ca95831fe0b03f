package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/worklog-reconcile/internal/api/dto"
	"github.com/eshaffer321/worklog-reconcile/internal/api/handlers"
	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// stubImporter records the options it was called with.
type stubImporter struct {
	runID  string
	opts   reconcile.ImportOptions
	result *reconcile.ImportResult
	err    error
}

func (s *stubImporter) ImportRun(_ context.Context, runID string, opts reconcile.ImportOptions) (*reconcile.ImportResult, error) {
	s.runID = runID
	s.opts = opts
	return s.result, s.err
}

func TestRunsHandler_List(t *testing.T) {
	t.Run("returns empty list when no runs", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewRunsHandler(repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RunListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Empty(t, response.Runs)
		assert.Equal(t, 0, response.Count)
	})

	t.Run("filters by source and respects limit", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(repo, "a")
		seedRun(repo, "b")
		_ = repo.StartRun(&storage.Run{ID: "c", ActivitySource: "github", LedgerSource: "toggl"})
		handler := handlers.NewRunsHandler(repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/runs?source=gitlab&limit=1", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RunListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Runs, 1)
		assert.Equal(t, "b", response.Runs[0].ID)
	})

	t.Run("returns 500 on repository error", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.ListRunsErr = errors.New("db locked")
		handler := handlers.NewRunsHandler(repo, nil)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRunsHandler_Get(t *testing.T) {
	t.Run("returns run by ID", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(repo, "run-1")
		handler := handlers.NewRunsHandler(repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/run-1", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "run-1"))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RunResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "run-1", response.ID)
		assert.Equal(t, "gitlab", response.ActivitySource)
		assert.Equal(t, "completed", response.Status)
		assert.Equal(t, 1, response.Missing)
		assert.Equal(t, "2024-04-01T08:00:00Z", response.StartedAt)
		assert.NotEmpty(t, response.CompletedAt)
	})

	t.Run("returns 404 for non-existent run", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewRunsHandler(repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "nope"))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeNotFound, response.Code)
	})

	t.Run("returns 400 without ID", func(t *testing.T) {
		handler := handlers.NewRunsHandler(storage.NewMockRepository(), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", ""))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRunsHandler_Records(t *testing.T) {
	repo := storage.NewMockRepository()
	seedRun(repo, "run-1")
	handler := handlers.NewRunsHandler(repo, nil)

	request := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/runs/run-1/records"+query, nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "run-1"))
		rec := httptest.NewRecorder()
		handler.Records(rec, req)
		return rec
	}

	t.Run("all records", func(t *testing.T) {
		rec := request("")
		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RecordListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 3, response.Count)
	})

	t.Run("filtered by status", func(t *testing.T) {
		rec := request("?status=missing")
		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RecordListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Records, 1)
		assert.Equal(t, "#456", response.Records[0].TaskKey)
		assert.Equal(t, "#456 Export", response.Records[0].Target)
		assert.Equal(t, "missing", response.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		rec := request("?status=lost")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRunsHandler_ImportBatch(t *testing.T) {
	repo := storage.NewMockRepository()
	batch := seedRun(repo, "run-1")
	require.NoError(t, repo.MarkImported(batch[0].ID, 4242))
	handler := handlers.NewRunsHandler(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/run-1/import", nil)
	req = req.WithContext(setChiURLParam(req.Context(), "id", "run-1"))
	rec := httptest.NewRecorder()

	handler.ImportBatch(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ImportBatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, 1, response.Pending)
	assert.True(t, response.Entries[0].Imported)
	assert.Equal(t, int64(4242), response.Entries[0].LedgerEntryID)
	assert.False(t, response.Entries[1].Imported)
	assert.Equal(t, 1800, response.Entries[1].Duration)
}

func TestRunsHandler_Import(t *testing.T) {
	newRequest := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/runs/run-1/import", strings.NewReader(body))
		return req.WithContext(setChiURLParam(req.Context(), "id", "run-1"))
	}

	t.Run("imports with options", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(repo, "run-1")
		importer := &stubImporter{result: &reconcile.ImportResult{Created: 2}}
		handler := handlers.NewRunsHandler(repo, importer)

		rec := httptest.NewRecorder()
		handler.Import(rec, newRequest(`{"dry_run": false, "project_id": 77}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "run-1", importer.runID)
		assert.Equal(t, int64(77), importer.opts.ProjectID)

		var response dto.ImportRunResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 2, response.Created)
	})

	t.Run("empty body means defaults", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(repo, "run-1")
		importer := &stubImporter{result: &reconcile.ImportResult{DryRun: false}}
		handler := handlers.NewRunsHandler(repo, importer)

		rec := httptest.NewRecorder()
		handler.Import(rec, newRequest(""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, importer.opts.DryRun)
	})

	t.Run("partial failure reports errors", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(repo, "run-1")
		importer := &stubImporter{
			result: &reconcile.ImportResult{Created: 1, Failed: 1, Errors: []error{errors.New("400 bad request")}},
			err:    errors.New("1 of 2 entries failed to import"),
		}
		handler := handlers.NewRunsHandler(repo, importer)

		rec := httptest.NewRecorder()
		handler.Import(rec, newRequest(`{}`))

		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var response dto.ImportRunResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, []string{"400 bad request"}, response.Errors)
	})

	t.Run("invalid body", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(repo, "run-1")
		handler := handlers.NewRunsHandler(repo, &stubImporter{})

		rec := httptest.NewRecorder()
		handler.Import(rec, newRequest(`{not json`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unavailable without importer", func(t *testing.T) {
		handler := handlers.NewRunsHandler(storage.NewMockRepository(), nil)

		rec := httptest.NewRecorder()
		handler.Import(rec, newRequest(`{}`))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
