// Package toggl implements the ledger provider for Toggl Track (API v9).
package toggl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Toggl Track v9 API root
const DefaultBaseURL = "https://api.track.toggl.com/api/v9"

// timeLayout is the timestamp format the API accepts for query and body times
const timeLayout = "2006-01-02T15:04:05.000Z"

// createdWith identifies this tool on created entries
const createdWith = "worklog-reconcile"

// ClientOptions configures a Client
type ClientOptions struct {
	BaseURL           string
	RequestsPerSecond float64       // 0 = unlimited
	MaxRetries        int           // Retries on 429 and 5xx
	RetryWaitMin      time.Duration // Minimum backoff (default: 1s)
	Logger            *slog.Logger
}

// Client is a minimal Toggl Track API client
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

// APIError is returned for non-2xx responses
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("toggl %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// NewClient creates a client authenticated with an API token
func NewClient(token string, opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = opts.MaxRetries
	if opts.RetryWaitMin > 0 {
		httpClient.RetryWaitMin = opts.RetryWaitMin
		httpClient.RetryWaitMax = 4 * opts.RetryWaitMin
	}
	httpClient.Logger = opts.Logger
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   token,
		http:    httpClient,
		limiter: limiter,
	}
}

// Me is the authenticated user
type Me struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	Fullname           string `json:"fullname"`
	DefaultWorkspaceID int64  `json:"default_workspace_id"`
}

// TimeEntry is a time entry as returned by the API. Duration is in
// seconds and negative while the entry is running.
type TimeEntry struct {
	ID          int64    `json:"id"`
	WorkspaceID int64    `json:"workspace_id"`
	ProjectID   *int64   `json:"project_id"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	Duration    int64    `json:"duration"`
	Tags        []string `json:"tags"`
}

// ProjectRecord is a workspace project
type ProjectRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateTimeEntry is the request body for creating a time entry
type CreateTimeEntry struct {
	Description string   `json:"description"`
	Start       string   `json:"start"`
	Duration    int      `json:"duration,omitempty"`
	WorkspaceID int64    `json:"workspace_id"`
	ProjectID   int64    `json:"project_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedWith string   `json:"created_with"`
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*Me, error) {
	var me Me
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// TimeEntries returns the user's entries started between start and end
func (c *Client) TimeEntries(ctx context.Context, start, end time.Time) ([]TimeEntry, error) {
	query := url.Values{}
	query.Set("start_date", start.UTC().Format(timeLayout))
	query.Set("end_date", end.UTC().Format(timeLayout))

	var entries []TimeEntry
	if err := c.do(ctx, http.MethodGet, "/me/time_entries", query, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Projects returns the projects of a workspace
func (c *Client) Projects(ctx context.Context, workspaceID int64) ([]ProjectRecord, error) {
	var projects []ProjectRecord
	path := fmt.Sprintf("/workspaces/%d/projects", workspaceID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateTimeEntry creates an entry in a workspace
func (c *Client) CreateTimeEntry(ctx context.Context, entry CreateTimeEntry) (*TimeEntry, error) {
	if entry.CreatedWith == "" {
		entry.CreatedWith = createdWith
	}
	var created TimeEntry
	path := fmt.Sprintf("/workspaces/%d/time_entries", entry.WorkspaceID)
	if err := c.do(ctx, http.MethodPost, path, nil, entry, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload any
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = data
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.token, "api_token")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("toggl %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
