// Package github implements the activity provider for GitHub user events.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

const (
	pageSize = 100
	// The events API serves at most ten pages
	maxPages = 10
)

// Options configures a Provider
type Options struct {
	Token   string
	BaseURL string // GitHub Enterprise API root; empty for github.com
	User    string // Login whose events are fetched; defaults to the token's owner
}

// Provider implements providers.ActivityProvider for GitHub
type Provider struct {
	client *github.Client
	user   string
	logger *slog.Logger
}

// Compile-time check that Provider implements ActivityProvider
var _ providers.ActivityProvider = (*Provider)(nil)

// NewProvider creates a GitHub provider authenticated with a token
func NewProvider(opts Options, logger *slog.Logger) (*Provider, error) {
	if opts.Token == "" {
		return nil, providers.ErrMissingToken
	}
	if logger == nil {
		logger = slog.Default()
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))
	if opts.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url: %w", err)
		}
	}

	return &Provider{client: client, user: opts.User, logger: logger}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "github"
}

// Identity returns the token's user
func (p *Provider) Identity(ctx context.Context) (providers.Identity, error) {
	user, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return providers.Identity{}, fmt.Errorf("github authentication failed: %w", err)
	}
	return providers.Identity{Username: user.GetLogin(), Name: user.GetName()}, nil
}

// FetchEvents returns the user's events in the window, newest first.
// GitHub only keeps recent events, so older windows come back short.
func (p *Provider) FetchEvents(ctx context.Context, opts providers.FetchOptions) ([]worklog.ActivityEvent, error) {
	login := p.user
	if login == "" {
		id, err := p.Identity(ctx)
		if err != nil {
			return nil, err
		}
		login = id.Username
	}

	window := worklog.Window{Start: opts.Start, End: opts.End}
	listOpts := &github.ListOptions{PerPage: pageSize, Page: 1}
	events := make([]worklog.ActivityEvent, 0)
	skipped := 0

pages:
	for range maxPages {
		page, resp, err := p.client.Activity.ListEventsPerformedByUser(ctx, login, false, listOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to list events (page %d): %w", listOpts.Page, err)
		}

		for _, e := range page {
			created := e.GetCreatedAt().Time
			if created.Before(opts.Start) {
				// Newest first: the rest of the feed is older still
				break pages
			}
			if !window.Contains(created) {
				continue
			}

			event, ok := p.convert(e)
			if !ok {
				skipped++
				continue
			}
			if !providers.MatchesAction(event.Action, opts.Action) {
				continue
			}
			events = append(events, event)
			if opts.MaxEvents > 0 && len(events) == opts.MaxEvents {
				break pages
			}
		}

		if resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}

	p.logger.Info("fetched user events",
		slog.String("user", login),
		slog.Int("kept", len(events)),
		slog.Int("skipped", skipped),
		slog.String("action_filter", opts.Action))

	return events, nil
}

// convert maps a GitHub event onto an activity event. Events whose
// payload cannot be decoded are reported as not ok.
func (p *Provider) convert(e *github.Event) (worklog.ActivityEvent, bool) {
	payload, err := e.ParsePayload()
	if err != nil {
		p.logger.Debug("skipping event with unreadable payload",
			slog.String("type", e.GetType()),
			slog.String("error", err.Error()))
		return worklog.ActivityEvent{}, false
	}

	event := worklog.ActivityEvent{
		Date:    worklog.FormatTimestamp(e.GetCreatedAt().UTC()),
		Project: path.Base(e.GetRepo().GetName()),
	}

	switch pl := payload.(type) {
	case *github.PushEvent:
		event.Action = "Pushed To"
		event.Details.Branch = strings.TrimPrefix(pl.GetRef(), "refs/heads/")
		event.Details.Commits = pl.GetSize()
		if len(pl.Commits) > 0 {
			event.Details.Target = firstLine(pl.Commits[len(pl.Commits)-1].GetMessage())
		}
	case *github.IssuesEvent:
		event.Action = providers.ActionLabel(pl.GetAction())
		event.Details.Target = issueTarget(pl.GetIssue().GetNumber(), pl.GetIssue().GetTitle())
	case *github.IssueCommentEvent:
		event.Action = "Commented On"
		event.Details.Target = issueTarget(pl.GetIssue().GetNumber(), pl.GetIssue().GetTitle())
	case *github.PullRequestEvent:
		event.Action = providers.ActionLabel(pl.GetAction())
		if pl.GetAction() == "closed" && pl.GetPullRequest().GetMerged() {
			event.Action = "Merged"
		}
		event.Details.Target = issueTarget(pl.GetPullRequest().GetNumber(), pl.GetPullRequest().GetTitle())
		event.Details.Branch = pl.GetPullRequest().GetHead().GetRef()
	case *github.PullRequestReviewEvent:
		event.Action = "Reviewed"
		event.Details.Target = issueTarget(pl.GetPullRequest().GetNumber(), pl.GetPullRequest().GetTitle())
	case *github.PullRequestReviewCommentEvent:
		event.Action = "Commented On"
		event.Details.Target = issueTarget(pl.GetPullRequest().GetNumber(), pl.GetPullRequest().GetTitle())
	case *github.CreateEvent:
		event.Action = "Created"
		event.Details.Branch = pl.GetRef()
	case *github.DeleteEvent:
		event.Action = "Deleted"
		event.Details.Branch = pl.GetRef()
	default:
		event.Action = providers.ActionLabel(strings.TrimSuffix(e.GetType(), "Event"))
	}
	return event, true
}

func issueTarget(number int, title string) string {
	if number == 0 {
		return title
	}
	return fmt.Sprintf("#%d %s", number, title)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
