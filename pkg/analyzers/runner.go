package analyzers

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/gitmine"
)

// ErrNoHistoryAnalyzers indicates a selection resolved to analyzers of other
// families only.
var ErrNoHistoryAnalyzers = errors.New("selection matched no history analyzers")

// HistoryRun is the outcome of one commit walk: the per-analyzer reports
// keyed by registry ID, plus the number of commits consumed.
type HistoryRun struct {
	Commits int                       `json:"commits"`
	Reports map[string]analyze.Report `json:"reports"`
}

// RunHistory initializes the analyzers, walks the repository once feeding
// every analyzer each commit, and finalizes the reports. One bad analyzer
// aborts the run: partial history results are worse than none.
func RunHistory(
	ctx context.Context,
	repo *gitmine.Repository,
	opts gitmine.CollectOptions,
	selected []analyze.HistoryAnalyzer,
) (HistoryRun, error) {
	for _, historyAnalyzer := range selected {
		err := historyAnalyzer.Initialize(repo)
		if err != nil {
			return HistoryRun{}, fmt.Errorf("initialize %s: %w", historyAnalyzer.Name(), err)
		}
	}

	run := HistoryRun{Reports: make(map[string]analyze.Report, len(selected))}

	err := repo.Collect(ctx, opts, func(record *gitmine.CommitRecord) error {
		run.Commits++

		for _, historyAnalyzer := range selected {
			consumeErr := historyAnalyzer.Consume(record)
			if consumeErr != nil {
				return fmt.Errorf("consume %s: %w", historyAnalyzer.Name(), consumeErr)
			}
		}

		return nil
	})
	if err != nil {
		return HistoryRun{}, fmt.Errorf("walk history: %w", err)
	}

	for _, historyAnalyzer := range selected {
		report, finalizeErr := historyAnalyzer.Finalize()
		if finalizeErr != nil {
			return HistoryRun{}, fmt.Errorf("finalize %s: %w", historyAnalyzer.Name(), finalizeErr)
		}

		run.Reports[historyAnalyzer.Name()] = report
	}

	return run, nil
}

// SelectHistory resolves selection patterns against the registry and keeps
// the history family, instantiated and ready to run. An empty selection
// means every history analyzer; patterns resolving to no history analyzer
// at all are an error.
func SelectHistory(registry *analyze.Registry, patterns []string) ([]analyze.HistoryAnalyzer, error) {
	regs, err := registry.Select(patterns)
	if err != nil {
		return nil, err
	}

	selected := make([]analyze.HistoryAnalyzer, 0, len(regs))

	for _, reg := range regs {
		if historyAnalyzer, ok := reg.New().(analyze.HistoryAnalyzer); ok {
			selected = append(selected, historyAnalyzer)
		}
	}

	if len(selected) == 0 {
		return nil, ErrNoHistoryAnalyzers
	}

	return selected, nil
}
