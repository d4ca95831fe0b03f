package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/worklog-reconcile/internal/api/dto"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/differ"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// SnapshotsHandler handles stored ledger snapshot requests.
type SnapshotsHandler struct {
	*Base
	differ *differ.Differ
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(repo storage.Repository) *SnapshotsHandler {
	return &SnapshotsHandler{
		Base:   NewBase(repo),
		differ: differ.New(),
	}
}

// List handles GET /api/snapshots - returns snapshot metadata, newest first.
func (h *SnapshotsHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.repo.ListSnapshots(r.URL.Query().Get("source"), ParseIntParam(r, "limit", 20))
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.SnapshotListResponse{
		Snapshots: make([]dto.SnapshotResponse, 0, len(snapshots)),
		Count:     len(snapshots),
	}
	for _, snap := range snapshots {
		response.Snapshots = append(response.Snapshots, toSnapshotResponse(snap))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/snapshots/{id} - returns a snapshot with its entries.
func (h *SnapshotsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, chi.URLParam(r, "id"), "id")
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, toSnapshotResponse(*snap))
}

// Diff handles GET /api/snapshots/diff?older={id}&newer={id} - returns the
// changeset between two snapshots.
func (h *SnapshotsHandler) Diff(w http.ResponseWriter, r *http.Request) {
	older, ok := h.load(w, r.URL.Query().Get("older"), "older")
	if !ok {
		return
	}
	newer, ok := h.load(w, r.URL.Query().Get("newer"), "newer")
	if !ok {
		return
	}

	changes := h.differ.Diff(older.Entries, newer.Entries)
	h.WriteJSON(w, http.StatusOK, dto.SnapshotDiffResponse{
		Older:   older.ID,
		Newer:   newer.ID,
		Summary: changes.Summary,
		Days:    changes.Days,
	})
}

func (h *SnapshotsHandler) load(w http.ResponseWriter, id, param string) (*storage.Snapshot, bool) {
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(param+" snapshot ID is required"))
		return nil, false
	}
	snap, err := h.repo.GetSnapshot(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return nil, false
	}
	if snap == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("snapshot "+id))
		return nil, false
	}
	return snap, true
}

func toSnapshotResponse(snap storage.Snapshot) dto.SnapshotResponse {
	response := dto.SnapshotResponse{
		ID:          snap.ID,
		Source:      snap.Source,
		TakenAt:     snap.TakenAt.Format(time.RFC3339),
		PeriodStart: snap.PeriodStart,
		PeriodEnd:   snap.PeriodEnd,
		EntryCount:  snap.EntryCount,
	}
	for _, e := range snap.Entries {
		response.Entries = append(response.Entries, dto.SnapshotEntryResponse{
			ID:          e.ID,
			Date:        e.Date,
			Description: e.Description,
			Project:     e.Project,
			Duration:    e.Duration,
			Tags:        e.Tags,
		})
	}
	return response
}
