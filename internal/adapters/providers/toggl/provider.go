package toggl

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// NoProject is the project name of entries without a project
const NoProject = "No Project"

// Provider implements providers.LedgerProvider for Toggl Track
type Provider struct {
	client      *Client
	workspaceID int64
	logger      *slog.Logger
	now         func() time.Time
}

// Compile-time check that Provider implements LedgerProvider
var _ providers.LedgerProvider = (*Provider)(nil)

// NewProvider creates a Toggl provider for one workspace
func NewProvider(client *Client, workspaceID int64, logger *slog.Logger) (*Provider, error) {
	if workspaceID == 0 {
		return nil, providers.ErrMissingWorkspace
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		client:      client,
		workspaceID: workspaceID,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "toggl"
}

// Identity returns the authenticated user
func (p *Provider) Identity(ctx context.Context) (providers.Identity, error) {
	me, err := p.client.Me(ctx)
	if err != nil {
		return providers.Identity{}, err
	}
	name := cmp.Or(me.Fullname, me.Email, "Unknown")
	return providers.Identity{Username: cmp.Or(me.Email, name), Name: name}, nil
}

// FetchEntries returns the entries in the window, newest first
func (p *Provider) FetchEntries(ctx context.Context, opts providers.FetchOptions) ([]worklog.LedgerEntry, error) {
	raw, err := p.client.TimeEntries(ctx, opts.Start, opts.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time entries: %w", err)
	}

	names, err := p.projectNames(ctx)
	if err != nil {
		return nil, err
	}

	now := p.now().UTC()
	entries := make([]worklog.LedgerEntry, 0, len(raw))
	for _, te := range raw {
		start, err := time.Parse(time.RFC3339, te.Start)
		if err != nil {
			p.logger.Warn("skipping entry with unparseable start",
				slog.Int64("entry_id", te.ID),
				slog.String("start", te.Start))
			continue
		}

		seconds := float64(te.Duration)
		if te.Duration < 0 {
			seconds = now.Sub(start).Seconds()
		}
		hours := seconds / 3600

		project := NoProject
		if te.ProjectID != nil {
			if name, ok := names[*te.ProjectID]; ok {
				project = name
			}
		}

		tags := te.Tags
		if tags == nil {
			tags = []string{}
		}

		entries = append(entries, worklog.LedgerEntry{
			ID:                te.ID,
			Date:              worklog.FormatTimestamp(start.UTC()),
			Description:       te.Description,
			Project:           project,
			Duration:          hours,
			DurationFormatted: worklog.FormatHours(hours),
			Tags:              tags,
		})
	}

	slices.SortStableFunc(entries, func(a, b worklog.LedgerEntry) int {
		return cmp.Compare(b.Date, a.Date)
	})

	p.logger.Info("fetched time entries",
		slog.Int("count", len(entries)),
		slog.String("start", opts.Start.Format(worklog.DateLayout)),
		slog.String("end", opts.End.Format(worklog.DateLayout)))

	return entries, nil
}

// Projects lists the workspace projects
func (p *Provider) Projects(ctx context.Context) ([]providers.Project, error) {
	raw, err := p.client.Projects(ctx, p.workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	projects := make([]providers.Project, 0, len(raw))
	for _, pr := range raw {
		projects = append(projects, providers.Project{ID: pr.ID, Name: pr.Name})
	}
	return projects, nil
}

// CreateEntry creates a time entry in the workspace
func (p *Provider) CreateEntry(ctx context.Context, entry providers.NewEntry) (int64, error) {
	start := entry.Start
	if start.IsZero() {
		start = p.now()
	}
	created, err := p.client.CreateTimeEntry(ctx, CreateTimeEntry{
		Description: entry.Description,
		Start:       start.UTC().Format(timeLayout),
		Duration:    entry.Duration,
		WorkspaceID: p.workspaceID,
		ProjectID:   entry.ProjectID,
		Tags:        entry.Tags,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create entry %q: %w", entry.Description, err)
	}

	p.logger.Debug("created time entry",
		slog.Int64("entry_id", created.ID),
		slog.String("description", entry.Description))
	return created.ID, nil
}

func (p *Provider) projectNames(ctx context.Context) (map[int64]string, error) {
	projects, err := p.Projects(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(projects))
	for _, pr := range projects {
		names[pr.ID] = pr.Name
	}
	return names, nil
}
