package classify

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// VADER compound thresholds for calling a message positive or negative.
const (
	positiveCompound = 0.05
	negativeCompound = -0.05
)

var (
	conventionalRE = regexp.MustCompile(`^(feat|fix|docs|chore|refactor|test|style)[:(]`)
	imperativeRE   = regexp.MustCompile(`^(Add|Fix|Update|Remove|Improve|Implement)\s`)
	pastTenseRE    = regexp.MustCompile(`^(Added|Fixed|Updated|Removed|Improved|Implemented)\s`)
	issueRefRE     = regexp.MustCompile(`#(\d+)`)
)

// PatternCounts tallies message conventions across a batch. The buckets are
// exclusive and checked in struct field order, so every message lands in
// exactly one and the counts sum to the batch size.
type PatternCounts struct {
	Conventional int `json:"conventional"`
	Imperative   int `json:"imperative"`
	PastTense    int `json:"past_tense"`
	WithIssue    int `json:"with_issue"`
	Merge        int `json:"merge"`
	Other        int `json:"other"`
}

// MessagePatterns buckets each message by the first convention it matches.
// The imperative and past-tense checks are case-sensitive on purpose: they
// detect the capitalized opening word of a conventional English subject
// line, not arbitrary mid-sentence verbs.
func MessagePatterns(messages []string) PatternCounts {
	var patterns PatternCounts

	for _, msg := range messages {
		switch {
		case conventionalRE.MatchString(strings.ToLower(msg)):
			patterns.Conventional++
		case imperativeRE.MatchString(msg):
			patterns.Imperative++
		case pastTenseRE.MatchString(msg):
			patterns.PastTense++
		case issueRefRE.MatchString(msg):
			patterns.WithIssue++
		case strings.HasPrefix(strings.ToLower(msg), "merge"):
			patterns.Merge++
		default:
			patterns.Other++
		}
	}

	return patterns
}

// ReferencedIssues extracts every "#123"-style issue number across the
// batch, deduplicated and sorted ascending.
func ReferencedIssues(messages []string) []int {
	seen := make(map[int]struct{})

	for _, msg := range messages {
		for _, match := range issueRefRE.FindAllStringSubmatch(msg, -1) {
			number, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}

			seen[number] = struct{}{}
		}
	}

	issues := make([]int, 0, len(seen))
	for number := range seen {
		issues = append(issues, number)
	}

	sort.Ints(issues)

	return issues
}

// SentimentSummary is the batch-level VADER outcome over commit messages.
type SentimentSummary struct {
	Positive     int     `json:"positive"`
	Negative     int     `json:"negative"`
	Neutral      int     `json:"neutral"`
	MeanCompound float64 `json:"mean_compound"`
}

// The lexicon build is expensive, so one analyzer serves the process.
//
//nolint:gochecknoglobals // lazily built shared lexicon.
var (
	vaderOnce     sync.Once
	vaderAnalyzer *govader.SentimentIntensityAnalyzer
)

func getVaderAnalyzer() *govader.SentimentIntensityAnalyzer {
	vaderOnce.Do(func() {
		vaderAnalyzer = govader.NewSentimentIntensityAnalyzer()
	})

	return vaderAnalyzer
}

// MessageSentiment scores each message's VADER compound and buckets it as
// positive (>= 0.05), negative (<= -0.05), or neutral. MeanCompound averages
// over all messages; an empty batch yields the zero summary.
func MessageSentiment(messages []string) SentimentSummary {
	var summary SentimentSummary

	if len(messages) == 0 {
		return summary
	}

	analyzer := getVaderAnalyzer()

	var sum float64

	for _, msg := range messages {
		compound := analyzer.PolarityScores(msg).Compound
		sum += compound

		switch {
		case compound >= positiveCompound:
			summary.Positive++
		case compound <= negativeCompound:
			summary.Negative++
		default:
			summary.Neutral++
		}
	}

	summary.MeanCompound = sum / float64(len(messages))

	return summary
}
