// Package complexity surveys per-function cyclomatic complexity over a
// scanned Python tree and ranks the hot spots.
package complexity

import (
	"context"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/glowstack/gitglow/pkg/pysrc"
	"github.com/glowstack/gitglow/pkg/scanner"
)

// rankOrder lists the complexity ranks from best to worst.
//
//nolint:gochecknoglobals // fixed rank scale, read-only.
var rankOrder = []string{"A", "B", "C", "D", "E", "F"}

// FunctionRecord is one measured function.
type FunctionRecord struct {
	File       string `json:"file"`
	Name       string `json:"name"`
	Line       int    `json:"line"`
	Length     int    `json:"length"`
	Complexity int    `json:"complexity"`
	Rank       string `json:"rank"`
}

// Survey parses every scanned file in parallel and measures its functions.
// Files that cannot be read or parsed are skipped; records keep scan order.
// The second result is the number of files that parsed.
func Survey(ctx context.Context, tree *scanner.Tree) ([]FunctionRecord, int) {
	type fileResult struct {
		functions []pysrc.Function
		analyzed  bool
	}

	results := make([]fileResult, len(tree.Files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for idx, file := range tree.Files {
		group.Go(func() error {
			content, err := os.ReadFile(file.AbsPath)
			if err != nil {
				return nil
			}

			parsed, err := pysrc.Parse(groupCtx, content)
			if err != nil {
				return nil
			}
			defer parsed.Close()

			results[idx] = fileResult{
				functions: pysrc.Functions(parsed.RootNode(), content),
				analyzed:  true,
			}

			return nil
		})
	}

	// Workers never return errors; bad files already degraded to skips.
	_ = group.Wait()

	records := []FunctionRecord{}
	analyzed := 0

	for idx, file := range tree.Files {
		if !results[idx].analyzed {
			continue
		}

		analyzed++

		for _, fn := range results[idx].functions {
			records = append(records, FunctionRecord{
				File:       file.RelPath,
				Name:       fn.Name,
				Line:       fn.Line,
				Length:     fn.EndLine - fn.Line + 1,
				Complexity: fn.Complexity,
				Rank:       pysrc.Rank(fn.Complexity),
			})
		}
	}

	return records, analyzed
}

// Metrics is the full complexity report. The rank histogram always carries
// every rank; top functions rank by complexity descending with ties in scan
// order.
type Metrics struct {
	FilesAnalyzed     int              `json:"files_analyzed"`
	TotalFunctions    int              `json:"total_functions"`
	AverageComplexity float64          `json:"average_complexity"`
	MaxComplexity     int              `json:"max_complexity"`
	RankHistogram     map[string]int   `json:"rank_histogram"`
	TopFunctions      []FunctionRecord `json:"top_functions"`
	Threshold         int              `json:"threshold"`
	AboveThreshold    int              `json:"above_threshold"`
}

// Summarize derives the report from surveyed records. Functions strictly
// above threshold count as hot spots; top caps the most-complex ranking.
func Summarize(records []FunctionRecord, filesAnalyzed, threshold, top int) Metrics {
	metrics := Metrics{
		FilesAnalyzed:  filesAnalyzed,
		TotalFunctions: len(records),
		RankHistogram:  make(map[string]int, len(rankOrder)),
		TopFunctions:   []FunctionRecord{},
		Threshold:      threshold,
	}

	for _, rank := range rankOrder {
		metrics.RankHistogram[rank] = 0
	}

	if len(records) == 0 {
		return metrics
	}

	total := 0

	for _, record := range records {
		total += record.Complexity
		metrics.RankHistogram[record.Rank]++

		if record.Complexity > metrics.MaxComplexity {
			metrics.MaxComplexity = record.Complexity
		}

		if record.Complexity > threshold {
			metrics.AboveThreshold++
		}
	}

	metrics.AverageComplexity = float64(total) / float64(len(records))

	ranked := make([]FunctionRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Complexity > ranked[j].Complexity })

	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	metrics.TopFunctions = ranked

	return metrics
}
