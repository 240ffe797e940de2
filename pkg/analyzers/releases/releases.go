// Package releases summarizes the tag and branch structure of a repository:
// release cadence, gaps, and branch heads.
package releases

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/glowstack/gitglow/pkg/gitmine"
)

const hoursPerDay = 24

// Release is one tag on the release timeline.
type Release struct {
	Name string    `json:"name"`
	Hash string    `json:"hash"`
	When time.Time `json:"when"`
}

// BranchHead is one local branch tip.
type BranchHead struct {
	Name string    `json:"name"`
	Hash string    `json:"hash"`
	When time.Time `json:"when"`
}

// Metrics is the full releases report. The timeline ascends by tag time;
// gap statistics cover consecutive timeline pairs.
type Metrics struct {
	TagCount          int            `json:"tag_count"`
	Timeline          []Release      `json:"timeline"`
	DaysBetween       []float64      `json:"days_between"`
	MeanDaysBetween   float64        `json:"mean_days_between"`
	MedianDaysBetween float64        `json:"median_days_between"`
	DaysSinceLast     float64        `json:"days_since_last"`
	PerYear           map[string]int `json:"per_year"`
	LatestTag         string         `json:"latest_tag"`
	BranchCount       int            `json:"branch_count"`
	Branches          []BranchHead   `json:"branches"`
}

// Summarize derives release cadence statistics from refs. Tags are expected
// in ascending time order, the way the miner returns them; now anchors the
// days-since-last measure.
func Summarize(tags []gitmine.TagRef, branches []gitmine.BranchRef, now time.Time) Metrics {
	metrics := Metrics{
		TagCount:    len(tags),
		Timeline:    make([]Release, 0, len(tags)),
		DaysBetween: []float64{},
		PerYear:     make(map[string]int, len(tags)),
		BranchCount: len(branches),
		Branches:    make([]BranchHead, 0, len(branches)),
	}

	for _, tag := range tags {
		metrics.Timeline = append(metrics.Timeline, Release{
			Name: tag.Name,
			Hash: tag.Hash,
			When: tag.When,
		})
		metrics.PerYear[tag.When.Format("2006")]++
	}

	for _, branch := range branches {
		metrics.Branches = append(metrics.Branches, BranchHead{
			Name: branch.Name,
			Hash: branch.Hash,
			When: branch.When,
		})
	}

	if len(tags) == 0 {
		return metrics
	}

	latest := tags[len(tags)-1]
	metrics.LatestTag = latest.Name
	metrics.DaysSinceLast = daysBetween(latest.When, now)

	for i := 1; i < len(tags); i++ {
		metrics.DaysBetween = append(metrics.DaysBetween,
			daysBetween(tags[i-1].When, tags[i].When))
	}

	if len(metrics.DaysBetween) > 0 {
		samples := make([]float64, len(metrics.DaysBetween))
		copy(samples, metrics.DaysBetween)
		sort.Float64s(samples)

		metrics.MeanDaysBetween = stat.Mean(samples, nil)
		metrics.MedianDaysBetween = stat.Quantile(0.5, stat.LinInterp, samples, nil)
	}

	return metrics
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / hoursPerDay
}
