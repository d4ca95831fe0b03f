package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/worklog-reconcile/internal/api/dto"
	"github.com/eshaffer321/worklog-reconcile/internal/application/service"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// JobsHandler handles background run job requests.
type JobsHandler struct {
	*Base
	jobs *service.JobService
	now  func() time.Time
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(jobs *service.JobService) *JobsHandler {
	return &JobsHandler{
		Base: &Base{},
		jobs: jobs,
		now:  time.Now,
	}
}

// Start handles POST /api/jobs - starts a reconciliation run in the background.
func (h *JobsHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}
	if req.Source == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("source is required"))
		return
	}

	window, err := ResolveWindow(req, h.now())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	job, err := h.jobs.StartRun(r.Context(), service.JobRequest{
		Source:    req.Source,
		Window:    window,
		Action:    req.Action,
		MaxEvents: req.MaxEvents,
	})
	switch {
	case errors.Is(err, service.ErrInvalidSource):
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	case err != nil:
		h.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
		return
	}

	h.WriteJSON(w, http.StatusAccepted, toJobResponse(job))
}

// Get handles GET /api/jobs/{jobId} - returns a job's status.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.GetJob(chi.URLParam(r, "jobId"))
	if err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("job"))
		return
	}
	h.WriteJSON(w, http.StatusOK, toJobResponse(job))
}

// List handles GET /api/jobs - lists jobs; ?active=true limits the list to
// pending and running jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.ListAllJobs()
	if ParseBoolParam(r, "active", false) {
		jobs = h.jobs.ListActiveJobs()
	}

	response := dto.JobListResponse{
		Jobs:  make([]dto.JobResponse, 0, len(jobs)),
		Count: len(jobs),
	}
	for _, job := range jobs {
		response.Jobs = append(response.Jobs, toJobResponse(job))
	}
	h.WriteJSON(w, http.StatusOK, response)
}

// Cancel handles DELETE /api/jobs/{jobId} - cancels a job.
func (h *JobsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	err := h.jobs.Cancel(chi.URLParam(r, "jobId"))
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("job"))
		return
	case err != nil:
		h.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Run job cancelled"})
}

// ResolveWindow picks the fetch window of a run request relative to now.
func ResolveWindow(req dto.StartRunRequest, now time.Time) (worklog.Window, error) {
	switch req.Period {
	case "current":
		return worklog.CurrentMonth(now), nil
	case "previous":
		return worklog.PreviousMonth(now), nil
	case "":
	default:
		return worklog.Window{}, errors.New("period must be current or previous")
	}

	if req.Start != "" || req.End != "" {
		start, err := time.ParseInLocation(worklog.DateLayout, req.Start, time.UTC)
		if err != nil {
			return worklog.Window{}, errors.New("start must be YYYY-MM-DD")
		}
		end, err := time.ParseInLocation(worklog.DateLayout, req.End, time.UTC)
		if err != nil {
			return worklog.Window{}, errors.New("end must be YYYY-MM-DD")
		}
		end = end.Add(24*time.Hour - time.Second)
		if end.Before(start) {
			return worklog.Window{}, errors.New("end is before start")
		}
		return worklog.Window{Start: start, End: end}, nil
	}

	if req.Months > 0 || req.Days > 0 {
		return worklog.Lookback(now, req.Months, req.Days), nil
	}
	return worklog.CurrentMonth(now), nil
}

func toJobResponse(job *service.Job) dto.JobResponse {
	period := job.Request.Window.Period()
	response := dto.JobResponse{
		JobID:       job.ID,
		Source:      job.Source,
		Status:      string(job.Status),
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		StartedAt:   job.StartedAt.Format(time.RFC3339),
		Phase:       job.Progress.Phase,
		LastUpdate:  job.Progress.LastUpdate.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		completedAt := job.CompletedAt.Format(time.RFC3339)
		response.CompletedAt = &completedAt
	}
	if job.Result != nil {
		response.RunID = job.Result.RunID
	}
	if job.Error != nil {
		msg := job.Error.Error()
		response.Error = &msg
	}
	return response
}
