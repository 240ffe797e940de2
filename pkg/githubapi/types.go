package githubapi

import "time"

// RepositoryData is everything the meta analyzers need, shaped for caching.
type RepositoryData struct {
	Info      RepoInfo  `json:"info"`
	Issues    []Issue   `json:"issues"`
	FetchedAt time.Time `json:"fetched_at"`
}

// RepoInfo is the repository header card.
type RepoInfo struct {
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Watchers      int       `json:"watchers"`
	OpenIssues    int       `json:"open_issues"`
	DefaultBranch string    `json:"default_branch"`
	Language      string    `json:"language"`
	CreatedAt     time.Time `json:"created_at"`
	PushedAt      time.Time `json:"pushed_at"`
}

// Issue is one issue or pull request. Additions and Deletions are only set
// on enriched pull requests.
type Issue struct {
	Number        int        `json:"number"`
	Title         string     `json:"title"`
	State         string     `json:"state"`
	CreatedAt     time.Time  `json:"created_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	User          string     `json:"user"`
	Labels        []string   `json:"labels,omitempty"`
	Comments      int        `json:"comments"`
	IsPullRequest bool       `json:"is_pull_request"`
	BodyLength    int        `json:"body_length"`
	Additions     int        `json:"additions"`
	Deletions     int        `json:"deletions"`
}
