// Package githubapi fetches repository metadata and issues from the GitHub
// REST API, rate-limited to stay inside the API budget for unattended runs.
package githubapi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"
)

const issuesPerPage = 100

// Client wraps the GitHub API client with a shared rate limiter; every
// request waits for a token first.
type Client struct {
	api     *github.Client
	limiter *rate.Limiter
}

// NewClient builds a client. An empty token means unauthenticated access
// (60 requests/hour); rps at or below zero falls back to 1.
func NewClient(token string, rps float64) *Client {
	api := github.NewClient(nil)
	if token != "" {
		api = api.WithAuthToken(token)
	}

	if rps <= 0 {
		rps = 1
	}

	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// FetchOptions tune a repository fetch.
type FetchOptions struct {
	// EnrichPRs fetches per-PR additions/deletions for the N most recent
	// pull requests. Zero disables enrichment.
	EnrichPRs int
}

// FetchRepositoryData pulls the repository header and its full issue list,
// pull requests included.
func (c *Client) FetchRepositoryData(ctx context.Context, owner, name string, opts FetchOptions) (*RepositoryData, error) {
	info, err := c.fetchRepoInfo(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	issues, err := c.fetchIssues(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	if opts.EnrichPRs > 0 {
		if err := c.enrichPullRequests(ctx, owner, name, issues, opts.EnrichPRs); err != nil {
			return nil, err
		}
	}

	return &RepositoryData{
		Info:      info,
		Issues:    issues,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) fetchRepoInfo(ctx context.Context, owner, name string) (RepoInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return RepoInfo{}, fmt.Errorf("rate limiter: %w", err)
	}

	repo, _, err := c.api.Repositories.Get(ctx, owner, name)
	if err != nil {
		return RepoInfo{}, fmt.Errorf("fetch repository %s/%s: %w", owner, name, err)
	}

	return RepoInfo{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Watchers:      repo.GetSubscribersCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		DefaultBranch: repo.GetDefaultBranch(),
		Language:      repo.GetLanguage(),
		CreatedAt:     repo.GetCreatedAt().Time,
		PushedAt:      repo.GetPushedAt().Time,
	}, nil
}

func (c *Client) fetchIssues(ctx context.Context, owner, name string) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: issuesPerPage},
	}

	var issues []Issue

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		page, resp, err := c.api.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch issues %s/%s: %w", owner, name, err)
		}

		for _, issue := range page {
			issues = append(issues, mapIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return issues, nil
}

func mapIssue(issue *github.Issue) Issue {
	mapped := Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		State:         issue.GetState(),
		CreatedAt:     issue.GetCreatedAt().Time,
		User:          issue.GetUser().GetLogin(),
		Comments:      issue.GetComments(),
		IsPullRequest: issue.IsPullRequest(),
		BodyLength:    len(issue.GetBody()),
	}

	if issue.ClosedAt != nil {
		closed := issue.ClosedAt.Time
		mapped.ClosedAt = &closed
	}

	for _, label := range issue.Labels {
		mapped.Labels = append(mapped.Labels, label.GetName())
	}

	return mapped
}

// enrichPullRequests fills additions/deletions on the `limit` most recently
// created pull requests.
func (c *Client) enrichPullRequests(ctx context.Context, owner, name string, issues []Issue, limit int) error {
	prIndexes := make([]int, 0, len(issues))

	for i, issue := range issues {
		if issue.IsPullRequest {
			prIndexes = append(prIndexes, i)
		}
	}

	sort.SliceStable(prIndexes, func(a, b int) bool {
		return issues[prIndexes[a]].CreatedAt.After(issues[prIndexes[b]].CreatedAt)
	})

	if len(prIndexes) > limit {
		prIndexes = prIndexes[:limit]
	}

	for _, idx := range prIndexes {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		pr, _, err := c.api.PullRequests.Get(ctx, owner, name, issues[idx].Number)
		if err != nil {
			return fmt.Errorf("fetch pull request %s/%s#%d: %w", owner, name, issues[idx].Number, err)
		}

		issues[idx].Additions = pr.GetAdditions()
		issues[idx].Deletions = pr.GetDeletions()
	}

	return nil
}
