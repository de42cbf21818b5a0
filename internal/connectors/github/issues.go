package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
	"github.com/custodia-labs/issuesync/internal/logger"
)

// Ensure the tracker types implement the interfaces.
var (
	_ driven.Tracker     = (*Tracker)(nil)
	_ driven.PagedSource = (*IssueSource)(nil)
)

// Tracker opens issue listings over one repository.
type Tracker struct {
	client *Client
	cfg    *Config
}

// NewTracker creates a tracker for the configured repository.
func NewTracker(client *Client, cfg *Config) *Tracker {
	return &Tracker{client: client, cfg: cfg}
}

// Source returns a listing of issues updated at or after since.
func (t *Tracker) Source(since time.Time) driven.PagedSource {
	return &IssueSource{
		client: t.client,
		cfg:    t.cfg,
		since:  since,
	}
}

// IssueSource is one watermark-filtered listing of a repository's issues.
type IssueSource struct {
	client *Client
	cfg    *Config
	since  time.Time
}

// FetchPage fetches the zero-based page pageIndex of the listing.
func (s *IssueSource) FetchPage(ctx context.Context, pageIndex uint32) (*driven.Page, error) {
	opts := s.listOptions(pageIndex)

	issues, resp, err := s.client.ListIssuesPage(ctx, s.cfg.Owner, s.cfg.Repo, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s page %d: %w", s.cfg.FullName(), pageIndex, err)
	}

	page := &driven.Page{
		Items:      make([]domain.ItemSummary, 0, len(issues)),
		TotalPages: totalPages(resp, pageIndex),
	}
	for _, issue := range issues {
		page.Items = append(page.Items, summarise(issue))
	}

	logger.Debug("GitHub %s page %d: %d issues, last page %d",
		s.cfg.FullName(), pageNumber(pageIndex), len(page.Items), page.TotalPages)
	return page, nil
}

// FetchSubItems returns every comment of issue number in creation order.
func (s *IssueSource) FetchSubItems(ctx context.Context, number int) ([]domain.SubItem, error) {
	comments, err := s.client.ListIssueComments(ctx, s.cfg.Owner, s.cfg.Repo, number)
	if err != nil {
		return nil, err
	}

	subItems := make([]domain.SubItem, 0, len(comments))
	for _, c := range comments {
		subItems = append(subItems, domain.SubItem{
			Author:  c.GetUser().GetLogin(),
			Content: c.GetBody(),
		})
	}
	return subItems, nil
}

// PerPage returns the listing page size.
func (s *IssueSource) PerPage() int {
	return s.cfg.PerPage
}

// listOptions builds the query for one page. The since filter is omitted
// for the initial watermark so that a first run lists everything.
func (s *IssueSource) listOptions(pageIndex uint32) *gh.IssueListByRepoOptions {
	opts := &gh.IssueListByRepoOptions{
		State:     "all",
		Sort:      "updated",
		Direction: "asc",
		ListOptions: gh.ListOptions{
			Page:    pageNumber(pageIndex),
			PerPage: s.cfg.PerPage,
		},
	}
	if !s.since.IsZero() && !s.since.Equal(domain.BeginningOfTime) {
		opts.Since = s.since
	}
	return opts
}

// summarise converts a listing entry into an ItemSummary.
func summarise(issue *gh.Issue) domain.ItemSummary {
	return domain.ItemSummary{
		ID:            uint64(issue.GetID()), //nolint:gosec // GitHub IDs are positive
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		UpdatedAt:     issue.GetUpdatedAt().Time,
		IsPullRequest: issue.IsPullRequest(),
	}
}
