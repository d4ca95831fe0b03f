package dto

// StartRunRequest is the request body for starting a reconciliation run.
// The window is chosen by Period ("current" or "previous"), by a
// Months/Days lookback, or by explicit Start and End days, in that order.
type StartRunRequest struct {
	Source    string `json:"source"`     // "gitlab" or "github"
	Period    string `json:"period"`     // "current", "previous" or empty
	Months    int    `json:"months"`     // Lookback in 30-day months
	Days      int    `json:"days"`       // Lookback in days
	Start     string `json:"start"`      // YYYY-MM-DD
	End       string `json:"end"`        // YYYY-MM-DD, inclusive
	Action    string `json:"action"`     // Optional action substring filter
	MaxEvents int    `json:"max_events"` // 0 = all
}

// JobResponse represents a run job's status.
type JobResponse struct {
	JobID       string  `json:"job_id"`
	Source      string  `json:"source"`
	Status      string  `json:"status"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	StartedAt   string  `json:"started_at"`
	CompletedAt *string `json:"completed_at,omitempty"`
	Phase       string  `json:"phase"`
	LastUpdate  string  `json:"last_update"`
	RunID       string  `json:"run_id,omitempty"`
	Error       *string `json:"error,omitempty"`
}

// JobListResponse lists run jobs.
type JobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Count int           `json:"count"`
}
