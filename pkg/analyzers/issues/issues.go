// Package issues derives issue and pull-request lifecycle statistics from
// fetched repository metadata.
package issues

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/glowstack/gitglow/pkg/githubapi"
)

const (
	// smallPRThreshold and largePRThreshold bucket pull requests by
	// total churn: below small, above large, between is medium.
	smallPRThreshold = 50
	largePRThreshold = 500

	// topLabelsLimit caps the label histogram in the report.
	topLabelsLimit = 15
)

// sizeBuckets lists the pull-request size buckets in display order.
//
//nolint:gochecknoglobals // fixed bucket scale, read-only.
var sizeBuckets = []string{"small", "medium", "large", "unknown"}

// Close-time bucket bounds in hours.
const (
	hoursPerDay  = 24
	weekHours    = 7 * hoursPerDay
	monthHours   = 30 * hoursPerDay
	quarterHours = 90 * hoursPerDay
)

// closeBucketLabels lists the close-time buckets in display order.
//
//nolint:gochecknoglobals // fixed bucket scale, read-only.
var closeBucketLabels = []string{"< 1 day", "1-7 days", "7-30 days", "30-90 days", "90+ days"}

// stateOpen and stateClosed are the GitHub issue states.
const (
	stateOpen   = "open"
	stateClosed = "closed"
)

// DurationStats summarizes a sample of durations in hours.
type DurationStats struct {
	Count       int     `json:"count"`
	MeanHours   float64 `json:"mean_hours"`
	MedianHours float64 `json:"median_hours"`
	MinHours    float64 `json:"min_hours"`
	MaxHours    float64 `json:"max_hours"`
}

// CommentStats summarizes comment engagement over every issue and PR.
type CommentStats struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
	Max     int     `json:"max"`
}

// MonthCount is one month's tally.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// LabelCount is one label's frequency.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BucketCount is one close-time bucket tally.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// RepoCard is the repository header passthrough.
type RepoCard struct {
	FullName string `json:"full_name"`
	Stars    int    `json:"stars"`
	Forks    int    `json:"forks"`
	Watchers int    `json:"watchers"`
}

// Metrics is the full issues report. The month series cover issues only;
// labels and comments cover issues and pull requests alike.
type Metrics struct {
	Repo           RepoCard       `json:"repo"`
	IssuesOpen     int            `json:"issues_open"`
	IssuesClosed   int            `json:"issues_closed"`
	PRsOpen        int            `json:"prs_open"`
	PRsClosed      int            `json:"prs_closed"`
	OpenedByMonth  []MonthCount   `json:"opened_by_month"`
	ClosedByMonth  []MonthCount   `json:"closed_by_month"`
	Labels         []LabelCount   `json:"labels"`
	Comments       CommentStats   `json:"comments"`
	IssueCloseTime DurationStats  `json:"issue_close_time"`
	CloseBuckets   []BucketCount  `json:"close_buckets"`
	PRLifecycle    DurationStats  `json:"pr_lifecycle"`
	PRSizes        map[string]int `json:"pr_sizes"`
}

// Summarize shapes the report from fetched repository data.
func Summarize(data *githubapi.RepositoryData) Metrics {
	metrics := Metrics{
		Repo: RepoCard{
			FullName: data.Info.FullName,
			Stars:    data.Info.Stars,
			Forks:    data.Info.Forks,
			Watchers: data.Info.Watchers,
		},
		OpenedByMonth: []MonthCount{},
		ClosedByMonth: []MonthCount{},
		Labels:        []LabelCount{},
		PRSizes:       make(map[string]int, len(sizeBuckets)),
	}

	for _, bucket := range sizeBuckets {
		metrics.PRSizes[bucket] = 0
	}

	opened := make(map[string]int)
	closed := make(map[string]int)
	labels := make(map[string]int)

	var (
		issueCloseHours []float64
		prCloseHours    []float64
	)

	for _, item := range data.Issues {
		for _, label := range item.Labels {
			labels[label]++
		}

		metrics.Comments.Total += item.Comments
		if item.Comments > metrics.Comments.Max {
			metrics.Comments.Max = item.Comments
		}

		if item.IsPullRequest {
			summarizePR(&metrics, item, &prCloseHours)

			continue
		}

		switch item.State {
		case stateOpen:
			metrics.IssuesOpen++
		case stateClosed:
			metrics.IssuesClosed++
		}

		opened[item.CreatedAt.Format("2006-01")]++

		if item.ClosedAt != nil {
			closed[item.ClosedAt.Format("2006-01")]++
			issueCloseHours = append(issueCloseHours, item.ClosedAt.Sub(item.CreatedAt).Hours())
		}
	}

	if total := len(data.Issues); total > 0 {
		metrics.Comments.Average = float64(metrics.Comments.Total) / float64(total)
	}

	metrics.OpenedByMonth = monthSeries(opened)
	metrics.ClosedByMonth = monthSeries(closed)
	metrics.Labels = topLabels(labels)
	metrics.IssueCloseTime = durationStats(issueCloseHours)
	metrics.CloseBuckets = closeBuckets(issueCloseHours)
	metrics.PRLifecycle = durationStats(prCloseHours)

	return metrics
}

// closeBuckets tallies issue close times into the fixed bucket scale.
// Every bucket is always present.
func closeBuckets(samples []float64) []BucketCount {
	counts := make([]int, len(closeBucketLabels))

	for _, hours := range samples {
		counts[closeBucketIndex(hours)]++
	}

	buckets := make([]BucketCount, len(closeBucketLabels))
	for i, label := range closeBucketLabels {
		buckets[i] = BucketCount{Bucket: label, Count: counts[i]}
	}

	return buckets
}

func closeBucketIndex(hours float64) int {
	switch {
	case hours < hoursPerDay:
		return 0
	case hours < weekHours:
		return 1
	case hours < monthHours:
		return 2
	case hours < quarterHours:
		return 3
	default:
		return 4
	}
}

// summarizePR folds one pull request into the state counts, size buckets,
// and lifecycle sample.
func summarizePR(metrics *Metrics, item githubapi.Issue, closeHours *[]float64) {
	switch item.State {
	case stateOpen:
		metrics.PRsOpen++
	case stateClosed:
		metrics.PRsClosed++
	}

	metrics.PRSizes[sizeBucket(item)]++

	if item.ClosedAt != nil {
		*closeHours = append(*closeHours, item.ClosedAt.Sub(item.CreatedAt).Hours())
	}
}

// sizeBucket buckets a pull request by total churn. Zero churn means the PR
// was never enriched with diff stats, so it lands in "unknown".
func sizeBucket(item githubapi.Issue) string {
	churn := item.Additions + item.Deletions

	switch {
	case churn == 0:
		return "unknown"
	case churn < smallPRThreshold:
		return "small"
	case churn > largePRThreshold:
		return "large"
	default:
		return "medium"
	}
}

// monthSeries flattens a month tally into chronological order.
func monthSeries(tally map[string]int) []MonthCount {
	months := make([]string, 0, len(tally))
	for month := range tally {
		months = append(months, month)
	}

	sort.Strings(months)

	series := make([]MonthCount, 0, len(months))
	for _, month := range months {
		series = append(series, MonthCount{Month: month, Count: tally[month]})
	}

	return series
}

// topLabels ranks labels by count descending, ties by name.
func topLabels(tally map[string]int) []LabelCount {
	names := make([]string, 0, len(tally))
	for name := range tally {
		names = append(names, name)
	}

	sort.Strings(names)

	ranked := make([]LabelCount, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, LabelCount{Label: name, Count: tally[name]})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	if len(ranked) > topLabelsLimit {
		ranked = ranked[:topLabelsLimit]
	}

	return ranked
}

// durationStats summarizes a duration sample. The median interpolates
// between the middle pair on even-sized samples.
func durationStats(samples []float64) DurationStats {
	if len(samples) == 0 {
		return DurationStats{}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	return DurationStats{
		Count:       len(sorted),
		MeanHours:   stat.Mean(sorted, nil),
		MedianHours: stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		MinHours:    sorted[0],
		MaxHours:    sorted[len(sorted)-1],
	}
}
