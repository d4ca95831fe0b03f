package dto

// ImportRunRequest is the request body for importing a run's batch.
type ImportRunRequest struct {
	DryRun    bool  `json:"dry_run"`
	ProjectID int64 `json:"project_id"` // Overrides project name resolution when set
}

// ImportRunResponse summarizes an import.
type ImportRunResponse struct {
	RunID   string   `json:"run_id"`
	DryRun  bool     `json:"dry_run"`
	Created int      `json:"created"`
	Planned int      `json:"planned"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// RunListParams represents query parameters for listing runs.
type RunListParams struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Limit  int    `json:"limit"`
}

// DefaultRunListParams returns default values for run list params.
func DefaultRunListParams() RunListParams {
	return RunListParams{
		Limit: 20,
	}
}
