// Package contributors aggregates per-author statistics over a history
// walk: volume, churn, activity span, and arrival of new contributors.
package contributors

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/glowstack/gitglow/pkg/gitmine"
)

const percentScale = 100

// Contributor is one author's aggregate. Authors are identified by
// lowercased email, falling back to the name when the email is empty; the
// display name follows the most recent commit.
type Contributor struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Commits      int       `json:"commits"`
	LinesAdded   int       `json:"lines_added"`
	LinesDeleted int       `json:"lines_deleted"`
	FilesTouched int       `json:"files_touched"`
	FirstCommit  time.Time `json:"first_commit"`
	LastCommit   time.Time `json:"last_commit"`
	ActiveDays   int       `json:"active_days"`
}

// MonthlyCount is one month of the new-contributor series.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// AuthorShare is one author's percentage of all commits.
type AuthorShare struct {
	Name  string  `json:"name"`
	Share float64 `json:"share"`
}

// Metrics is the full contributors report. Contributors are ranked by
// commits descending, ties in first-seen order.
type Metrics struct {
	TotalCommits      int            `json:"total_commits"`
	TotalContributors int            `json:"total_contributors"`
	Contributors      []Contributor  `json:"contributors"`
	NewByMonth        []MonthlyCount `json:"new_by_month"`
	TopShare          []AuthorShare  `json:"top_share"`
	OthersShare       float64        `json:"others_share"`
}

// ledgerEntry carries the per-author working state during the walk.
type ledgerEntry struct {
	Contributor

	activeDays map[string]struct{}
}

// Ledger accumulates per-author aggregates in first-seen order.
type Ledger struct {
	total   int
	order   []string
	entries map[string]*ledgerEntry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*ledgerEntry)}
}

// authorKey is the identity an author aggregates under.
func authorKey(commit *gitmine.CommitRecord) string {
	if commit.AuthorEmail != "" {
		return strings.ToLower(commit.AuthorEmail)
	}

	return strings.ToLower(commit.AuthorName)
}

// Add folds one commit into its author's aggregate.
func (l *Ledger) Add(commit *gitmine.CommitRecord) {
	key := authorKey(commit)

	entry, found := l.entries[key]
	if !found {
		entry = &ledgerEntry{
			Contributor: Contributor{
				Email:       commit.AuthorEmail,
				FirstCommit: commit.AuthorWhen,
				LastCommit:  commit.AuthorWhen,
			},
			activeDays: make(map[string]struct{}),
		}
		l.entries[key] = entry
		l.order = append(l.order, key)
	}

	// The display name follows the most recent commit seen.
	entry.Name = commit.AuthorName
	entry.Commits++
	entry.LinesAdded += commit.Insertions
	entry.LinesDeleted += commit.Deletions
	entry.FilesTouched += commit.FilesChanged
	entry.activeDays[commit.AuthorWhen.Format("2006-01-02")] = struct{}{}

	if commit.AuthorWhen.Before(entry.FirstCommit) {
		entry.FirstCommit = commit.AuthorWhen
	}

	if commit.AuthorWhen.After(entry.LastCommit) {
		entry.LastCommit = commit.AuthorWhen
	}

	l.total++
}

// Result ranks the ledger and derives the report series. topN bounds the
// share list; non-positive means unbounded.
func (l *Ledger) Result(topN int) Metrics {
	metrics := Metrics{
		TotalCommits:      l.total,
		TotalContributors: len(l.order),
		Contributors:      make([]Contributor, 0, len(l.order)),
		NewByMonth:        []MonthlyCount{},
		TopShare:          []AuthorShare{},
	}

	for _, key := range l.order {
		entry := l.entries[key]
		entry.ActiveDays = len(entry.activeDays)
		metrics.Contributors = append(metrics.Contributors, entry.Contributor)
	}

	sort.SliceStable(metrics.Contributors, func(i, j int) bool {
		return metrics.Contributors[i].Commits > metrics.Contributors[j].Commits
	})

	if l.total == 0 {
		return metrics
	}

	metrics.NewByMonth = l.newByMonth()

	shared := 0

	for idx, contributor := range metrics.Contributors {
		if topN > 0 && idx == topN {
			break
		}

		metrics.TopShare = append(metrics.TopShare, AuthorShare{
			Name:  contributor.Name,
			Share: percentOf(contributor.Commits, l.total),
		})
		shared += contributor.Commits
	}

	if rest := l.total - shared; rest > 0 {
		metrics.OthersShare = percentOf(rest, l.total)
	}

	return metrics
}

// newByMonth counts contributors by the month of their first commit.
func (l *Ledger) newByMonth() []MonthlyCount {
	byMonth := make(map[string]int)
	for _, entry := range l.entries {
		byMonth[entry.FirstCommit.Format("2006-01")]++
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}

	sort.Strings(months)

	series := make([]MonthlyCount, 0, len(months))
	for _, month := range months {
		series = append(series, MonthlyCount{Month: month, Count: byMonth[month]})
	}

	return series
}

func percentOf(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*percentScale*10) / 10
}
