package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/worklog-reconcile/internal/api/dto"
	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// Importer imports the stored batch of a run into the ledger.
// reconcile.Service implements it.
type Importer interface {
	ImportRun(ctx context.Context, runID string, opts reconcile.ImportOptions) (*reconcile.ImportResult, error)
}

// RunsHandler handles reconciliation run requests.
type RunsHandler struct {
	*Base
	importer Importer
}

// NewRunsHandler creates a new runs handler. importer may be nil, which
// disables the import endpoint.
func NewRunsHandler(repo storage.Repository, importer Importer) *RunsHandler {
	return &RunsHandler{
		Base:     NewBase(repo),
		importer: importer,
	}
}

// List handles GET /api/runs - returns recent runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	params := dto.DefaultRunListParams()
	params.Source = r.URL.Query().Get("source")
	params.Status = r.URL.Query().Get("status")
	params.Limit = ParseIntParam(r, "limit", params.Limit)

	runs, err := h.repo.ListRuns(storage.RunFilters{
		ActivitySource: params.Source,
		Status:         params.Status,
		Limit:          params.Limit,
	})
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single run.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, toRunResponse(*run))
}

// Records handles GET /api/runs/{id}/records - returns the classified
// records of a run, optionally filtered by ?status=matched|missing|ledger_only.
func (h *RunsHandler) Records(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	switch matcher.Status(status) {
	case "", matcher.StatusMatched, matcher.StatusMissing, matcher.StatusLedgerOnly:
	default:
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("status must be matched, missing or ledger_only"))
		return
	}

	records, err := h.repo.ListRecords(run.ID, status)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RecordListResponse{
		RunID:   run.ID,
		Status:  status,
		Records: make([]dto.RecordResponse, 0, len(records)),
		Count:   len(records),
	}
	for _, rec := range records {
		response.Records = append(response.Records, dto.RecordResponse{
			Status:      rec.Status,
			Date:        rec.Date,
			TaskKey:     rec.TaskKey,
			Description: rec.Description,
			Project:     rec.Project,
			Action:      rec.Action,
			Target:      rec.Target,
			Duration:    rec.Duration,
			Tags:        rec.Tags,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// ImportBatch handles GET /api/runs/{id}/import - returns the squashed
// import batch generated by a run.
func (h *RunsHandler) ImportBatch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	entries, err := h.repo.ListImportEntries(run.ID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.ImportBatchResponse{
		RunID:   run.ID,
		Entries: make([]dto.ImportEntryResponse, 0, len(entries)),
		Count:   len(entries),
	}
	for _, e := range entries {
		entry := dto.ImportEntryResponse{
			ID:            e.ID,
			Description:   e.Description,
			Start:         e.Start,
			Duration:      e.Duration,
			ProjectName:   e.ProjectName,
			Tags:          e.Tags,
			Imported:      e.ImportedAt != nil,
			LedgerEntryID: e.LedgerEntryID,
		}
		if e.ImportedAt != nil {
			entry.ImportedAt = e.ImportedAt.Format(time.RFC3339)
		} else {
			response.Pending++
		}
		response.Entries = append(response.Entries, entry)
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Import handles POST /api/runs/{id}/import - creates the run's pending
// batch entries in the ledger.
func (h *RunsHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		h.WriteError(w, http.StatusServiceUnavailable, dto.UnavailableError("import"))
		return
	}
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	var req dto.ImportRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	result, err := h.importer.ImportRun(r.Context(), run.ID, reconcile.ImportOptions{
		DryRun:    req.DryRun,
		ProjectID: req.ProjectID,
	})
	if result == nil {
		h.WriteError(w, http.StatusInternalServerError, dto.NewAPIError(dto.ErrCodeInternalError, err.Error()))
		return
	}

	response := dto.ImportRunResponse{
		RunID:   run.ID,
		DryRun:  result.DryRun,
		Created: result.Created,
		Planned: result.Planned,
		Skipped: result.Skipped,
		Failed:  result.Failed,
	}
	for _, e := range result.Errors {
		response.Errors = append(response.Errors, e.Error())
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	h.WriteJSON(w, status, response)
}

// loadRun resolves the {id} URL parameter, writing an error response when
// the run cannot be returned.
func (h *RunsHandler) loadRun(w http.ResponseWriter, r *http.Request) (*storage.Run, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return nil, false
	}

	run, err := h.repo.GetRun(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return nil, false
	}
	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("run"))
		return nil, false
	}
	return run, true
}

// toRunResponse converts a storage Run to an API response.
func toRunResponse(run storage.Run) dto.RunResponse {
	response := dto.RunResponse{
		ID:             run.ID,
		ActivitySource: run.ActivitySource,
		LedgerSource:   run.LedgerSource,
		PeriodStart:    run.PeriodStart,
		PeriodEnd:      run.PeriodEnd,
		StartedAt:      run.StartedAt.Format(time.RFC3339),
		Status:         run.Status,
		ErrorMessage:   run.ErrorMessage,
		TotalEvents:    run.TotalEvents,
		TotalEntries:   run.TotalEntries,
		Matched:        run.Matched,
		Missing:        run.Missing,
		LedgerOnly:     run.LedgerOnly,
	}
	if run.CompletedAt != nil {
		response.CompletedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return response
}
