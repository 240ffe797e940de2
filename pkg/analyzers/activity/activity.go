// Package activity buckets commit history along calendar dimensions: years,
// months, hours, weekdays, and message lengths.
package activity

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/glowstack/gitglow/pkg/gitmine"
)

const (
	hoursPerDay = 24
	daysPerWeek = 7
)

// weekdayLabels orders the week Monday-first for bucketing and display.
//
//nolint:gochecknoglobals // fixed label set, read-only.
var weekdayLabels = [daysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayLabels returns the Monday-first weekday names.
func WeekdayLabels() []string {
	labels := make([]string, daysPerWeek)
	copy(labels, weekdayLabels[:])

	return labels
}

// lengthBinBounds are the lower bounds of the message-length histogram.
// Each bin is left-closed; the last bin is open-ended.
//
//nolint:gochecknoglobals // fixed histogram shape, read-only.
var lengthBinBounds = []int{0, 20, 50, 100, 200, 500, 1000}

//nolint:gochecknoglobals // fixed histogram shape, read-only.
var lengthBinLabels = []string{"0-19", "20-49", "50-99", "100-199", "200-499", "500-999", "1000+"}

// MonthCount is one month of the cumulative commit series.
type MonthCount struct {
	Month   string `json:"month"`
	Commits int    `json:"commits"`
}

// MonthChurn is one month of insertion/deletion churn.
type MonthChurn struct {
	Month      string `json:"month"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}

// LengthBin is one message-length histogram bucket.
type LengthBin struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Metrics is the full activity report. Buckets use the committer timestamp;
// maps are always non-nil and the length histogram always carries every bin.
type Metrics struct {
	TotalCommits      int                           `json:"total_commits"`
	FirstCommit       *time.Time                    `json:"first_commit,omitempty"`
	LastCommit        *time.Time                    `json:"last_commit,omitempty"`
	PerYear           map[string]int                `json:"per_year"`
	PerMonth          map[string]int                `json:"per_month"`
	PerHour           [hoursPerDay]int              `json:"per_hour"`
	PerWeekday        map[string]int                `json:"per_weekday"`
	WeekdayHour       [daysPerWeek][hoursPerDay]int `json:"weekday_hour"`
	CumulativeByMonth []MonthCount                  `json:"cumulative_by_month"`
	ChurnByMonth      []MonthChurn                  `json:"churn_by_month"`
	BusiestDay        string                        `json:"busiest_day"`
	BusiestHour       int                           `json:"busiest_hour"`
	MessageLengths    []LengthBin                   `json:"message_lengths"`
}

// Tally accumulates commits into calendar buckets.
type Tally struct {
	total       int
	first       time.Time
	last        time.Time
	perYear     map[string]int
	perMonth    map[string]int
	perHour     [hoursPerDay]int
	perWeekday  [daysPerWeek]int
	weekdayHour [daysPerWeek][hoursPerDay]int
	insertions  map[string]int
	deletions   map[string]int
	lengthBins  []int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{
		perYear:    make(map[string]int),
		perMonth:   make(map[string]int),
		insertions: make(map[string]int),
		deletions:  make(map[string]int),
		lengthBins: make([]int, len(lengthBinBounds)),
	}
}

// Add buckets one commit.
func (t *Tally) Add(commit *gitmine.CommitRecord) {
	when := commit.CommitterWhen

	if t.total == 0 || when.Before(t.first) {
		t.first = when
	}

	if t.total == 0 || when.After(t.last) {
		t.last = when
	}

	t.total++

	month := when.Format("2006-01")
	t.perYear[when.Format("2006")]++
	t.perMonth[month]++
	t.perHour[when.Hour()]++

	day := mondayFirst(when.Weekday())
	t.perWeekday[day]++
	t.weekdayHour[day][when.Hour()]++

	t.insertions[month] += commit.Insertions
	t.deletions[month] += commit.Deletions

	t.lengthBins[lengthBin(utf8.RuneCountInString(commit.Message))]++
}

// Result shapes the accumulated buckets into the report.
func (t *Tally) Result() Metrics {
	metrics := Metrics{
		TotalCommits:      t.total,
		PerYear:           make(map[string]int, len(t.perYear)),
		PerMonth:          make(map[string]int, len(t.perMonth)),
		PerHour:           t.perHour,
		PerWeekday:        make(map[string]int, daysPerWeek),
		WeekdayHour:       t.weekdayHour,
		CumulativeByMonth: []MonthCount{},
		ChurnByMonth:      []MonthChurn{},
		MessageLengths:    make([]LengthBin, len(lengthBinBounds)),
	}

	for year, count := range t.perYear {
		metrics.PerYear[year] = count
	}

	for month, count := range t.perMonth {
		metrics.PerMonth[month] = count
	}

	for day, count := range t.perWeekday {
		if count > 0 {
			metrics.PerWeekday[weekdayLabels[day]] = count
		}
	}

	for idx, label := range lengthBinLabels {
		metrics.MessageLengths[idx] = LengthBin{Label: label, Count: t.lengthBins[idx]}
	}

	if t.total == 0 {
		return metrics
	}

	first, last := t.first, t.last
	metrics.FirstCommit = &first
	metrics.LastCommit = &last
	metrics.BusiestDay = t.busiestDay()
	metrics.BusiestHour = t.busiestHour()

	months := sortedKeys(t.perMonth)

	running := 0
	for _, month := range months {
		running += t.perMonth[month]
		metrics.CumulativeByMonth = append(metrics.CumulativeByMonth,
			MonthCount{Month: month, Commits: running})
		metrics.ChurnByMonth = append(metrics.ChurnByMonth, MonthChurn{
			Month:      month,
			Insertions: t.insertions[month],
			Deletions:  t.deletions[month],
		})
	}

	return metrics
}

// busiestDay picks the weekday with the most commits, earliest weekday on
// ties.
func (t *Tally) busiestDay() string {
	best := 0
	for day := 1; day < daysPerWeek; day++ {
		if t.perWeekday[day] > t.perWeekday[best] {
			best = day
		}
	}

	return weekdayLabels[best]
}

// busiestHour picks the hour with the most commits, earliest hour on ties.
func (t *Tally) busiestHour() int {
	best := 0
	for hour := 1; hour < hoursPerDay; hour++ {
		if t.perHour[hour] > t.perHour[best] {
			best = hour
		}
	}

	return best
}

// mondayFirst maps time.Weekday (Sunday-first) to a Monday-first index.
func mondayFirst(day time.Weekday) int {
	return (int(day) + daysPerWeek - 1) % daysPerWeek
}

// lengthBin returns the histogram bucket index for a message length.
func lengthBin(length int) int {
	for idx := len(lengthBinBounds) - 1; idx > 0; idx-- {
		if length >= lengthBinBounds[idx] {
			return idx
		}
	}

	return 0
}

// sortedKeys returns bucket keys in ascending order. Both YYYY and YYYY-MM
// keys sort chronologically.
func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
