// Package gitlab implements the activity provider for GitLab contribution
// events.
package gitlab

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/xanzy/go-gitlab"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// DefaultURL is the GitLab instance used when none is configured
const DefaultURL = "https://gitlab.com"

const (
	unknownProject = "Unknown Project"
	pageSize       = 100
)

// Provider implements providers.ActivityProvider for GitLab
type Provider struct {
	client   *gitlab.Client
	logger   *slog.Logger
	projects map[int]string
}

// Compile-time check that Provider implements ActivityProvider
var _ providers.ActivityProvider = (*Provider)(nil)

// NewProvider creates a GitLab provider for the given instance
func NewProvider(baseURL, token string, logger *slog.Logger) (*Provider, error) {
	if token == "" {
		return nil, providers.ErrMissingToken
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}

	return &Provider{
		client:   client,
		logger:   logger,
		projects: make(map[int]string),
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "gitlab"
}

// Identity returns the token's user
func (p *Provider) Identity(ctx context.Context) (providers.Identity, error) {
	user, _, err := p.client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return providers.Identity{}, fmt.Errorf("gitlab authentication failed: %w", err)
	}
	return providers.Identity{Username: user.Username, Name: user.Name}, nil
}

// FetchEvents returns the user's contribution events in the window,
// newest first
func (p *Provider) FetchEvents(ctx context.Context, opts providers.FetchOptions) ([]worklog.ActivityEvent, error) {
	window := worklog.Window{Start: opts.Start, End: opts.End}

	// after/before are exclusive day bounds; the window is applied exactly below
	listOpts := &gitlab.ListContributionEventsOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: pageSize},
		After:       gitlab.Ptr(gitlab.ISOTime(opts.Start.AddDate(0, 0, -1))),
		Before:      gitlab.Ptr(gitlab.ISOTime(opts.End.AddDate(0, 0, 1))),
	}

	var raw []*gitlab.ContributionEvent
	for {
		page, resp, err := p.client.Events.ListCurrentUserContributionEvents(listOpts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list events (page %d): %w", listOpts.Page, err)
		}
		raw = append(raw, page...)
		if resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}

	kept := make([]*gitlab.ContributionEvent, 0, len(raw))
	for _, e := range raw {
		if e.CreatedAt == nil || !window.Contains(*e.CreatedAt) {
			continue
		}
		if !providers.MatchesAction(e.ActionName, opts.Action) {
			continue
		}
		kept = append(kept, e)
	}
	slices.SortStableFunc(kept, func(a, b *gitlab.ContributionEvent) int {
		return b.CreatedAt.Compare(*a.CreatedAt)
	})
	if opts.MaxEvents > 0 && len(kept) > opts.MaxEvents {
		kept = kept[:opts.MaxEvents]
	}

	events := make([]worklog.ActivityEvent, 0, len(kept))
	for _, e := range kept {
		events = append(events, worklog.ActivityEvent{
			Date:    worklog.FormatTimestamp(e.CreatedAt.UTC()),
			Action:  providers.ActionLabel(e.ActionName),
			Project: p.projectName(ctx, e.ProjectID),
			Details: worklog.Details{
				Target:  e.TargetTitle,
				Commits: e.PushData.CommitCount,
				Branch:  e.PushData.Ref,
			},
		})
	}

	p.logger.Info("fetched contribution events",
		slog.Int("fetched", len(raw)),
		slog.Int("kept", len(events)),
		slog.String("action_filter", opts.Action))

	return events, nil
}

// projectName resolves a project ID, caching lookups for the provider's lifetime
func (p *Provider) projectName(ctx context.Context, id int) string {
	if id == 0 {
		return unknownProject
	}
	if name, ok := p.projects[id]; ok {
		return name
	}

	name := fmt.Sprintf("Project ID: %d", id)
	project, _, err := p.client.Projects.GetProject(id, nil, gitlab.WithContext(ctx))
	if err != nil {
		p.logger.Warn("failed to resolve project", slog.Int("project_id", id), slog.String("error", err.Error()))
	} else {
		name = cmp.Or(project.Name, name)
	}
	p.projects[id] = name
	return name
}

