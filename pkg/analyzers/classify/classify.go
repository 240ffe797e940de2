// Package classify infers change categories from commit messages and
// aggregates batch statistics: category distribution, message length,
// word frequency, convention patterns, and sentiment.
package classify

import (
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// Category is one commit change category out of a fixed closed set.
type Category string

// The closed category set, in classification table order.
const (
	CategoryFeat     Category = "feat"
	CategoryFix      Category = "fix"
	CategoryDocs     Category = "docs"
	CategoryRefactor Category = "refactor"
	CategoryTest     Category = "test"
	CategoryChore    Category = "chore"
	CategoryStyle    Category = "style"
	CategoryPerf     Category = "perf"
	CategoryOther    Category = "other"
)

// topWordsLimit caps the word-frequency ranking.
const topWordsLimit = 30

// percentScale converts a ratio to a percentage.
const percentScale = 100

// TableEntry binds one category to the tokens that trigger it.
type TableEntry struct {
	Category Category
	Tokens   []string
}

// Table is the ordered classification table. Prefix lookup and keyword
// fallback both walk it top to bottom, so earlier categories win messages
// that carry tokens from several categories. The order is a documented
// contract; changing it changes classification results.
//
//nolint:gochecknoglobals // fixed classification table, read-only.
var Table = []TableEntry{
	{CategoryFeat, []string{"feat", "feature", "add", "new", "implement"}},
	{CategoryFix, []string{"fix", "bug", "hotfix", "patch", "resolve", "repair"}},
	{CategoryDocs, []string{"doc", "docs", "readme", "documentation", "comment"}},
	{CategoryRefactor, []string{"refactor", "restructure", "rewrite", "clean", "simplify"}},
	{CategoryTest, []string{"test", "testing", "spec", "coverage"}},
	{CategoryChore, []string{"chore", "update", "upgrade", "build", "ci", "config"}},
	{CategoryStyle, []string{"style", "format", "lint", "whitespace", "typo"}},
	{CategoryPerf, []string{"perf", "performance", "optimize", "speed"}},
}

var (
	prefixRE = regexp.MustCompile(`^(\w+)[:(]`)
	wordRE   = regexp.MustCompile(`\b[a-z]{3,}\b`)
)

// stopwords are dropped from the word-frequency ranking.
//
//nolint:gochecknoglobals // fixed stopword set, read-only.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {},
	"from": {}, "this": {}, "that": {}, "into": {},
}

// Classify maps one commit message to a category. A structured prefix like
// "feat:" or "fix(scope)" wins when its token is in the table; otherwise the
// first table entry with any token appearing anywhere in the lowercased
// message wins; otherwise the message is "other". Every input classifies,
// including the empty string.
func Classify(message string) Category {
	msg := strings.ToLower(message)

	if match := prefixRE.FindStringSubmatch(msg); match != nil {
		for _, entry := range Table {
			if slices.Contains(entry.Tokens, match[1]) {
				return entry.Category
			}
		}
	}

	for _, entry := range Table {
		for _, token := range entry.Tokens {
			if strings.Contains(msg, token) {
				return entry.Category
			}
		}
	}

	return CategoryOther
}

// WordCount is one ranked word with its frequency across the batch.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ClassificationResult aggregates one batch of classified messages.
type ClassificationResult struct {
	TotalCommits         int                  `json:"total_commits"`
	TypeDistribution     map[Category]int     `json:"type_distribution"`
	TypePercentages      map[Category]float64 `json:"type_percentages"`
	AverageMessageLength float64              `json:"average_message_length"`
	TopWords             []WordCount          `json:"top_words"`
}

// AnalyzeMessages classifies a batch and aggregates its statistics. An empty
// batch yields empty distributions and zero averages, never an error.
func AnalyzeMessages(messages []string) ClassificationResult {
	result := ClassificationResult{
		TotalCommits:     len(messages),
		TypeDistribution: map[Category]int{},
		TypePercentages:  map[Category]float64{},
		TopWords:         []WordCount{},
	}

	if len(messages) == 0 {
		return result
	}

	var (
		totalLength int
		order       []string
	)

	counts := make(map[string]int)

	for _, message := range messages {
		result.TypeDistribution[Classify(message)]++
		totalLength += utf8.RuneCountInString(message)

		for _, word := range wordRE.FindAllString(strings.ToLower(message), -1) {
			if _, stop := stopwords[word]; stop {
				continue
			}

			if counts[word] == 0 {
				order = append(order, word)
			}

			counts[word]++
		}
	}

	total := float64(result.TotalCommits)
	for category, count := range result.TypeDistribution {
		result.TypePercentages[category] = roundOneDecimal(float64(count) / total * percentScale)
	}

	result.AverageMessageLength = float64(totalLength) / total
	result.TopWords = topWords(counts, order, topWordsLimit)

	return result
}

// roundOneDecimal rounds to one decimal place, half away from zero.
func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// topWords ranks distinct words by count descending. The stable sort keeps
// equal counts in first-encounter order.
func topWords(counts map[string]int, order []string, limit int) []WordCount {
	ranked := make([]WordCount, 0, len(order))
	for _, word := range order {
		ranked = append(ranked, WordCount{Word: word, Count: counts[word]})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
