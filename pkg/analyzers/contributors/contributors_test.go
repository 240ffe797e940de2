package contributors_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/analyzers/contributors"
	"github.com/glowstack/gitglow/pkg/gitmine"
)

func commitBy(name, email string, when time.Time, insertions, deletions, files int) *gitmine.CommitRecord {
	return &gitmine.CommitRecord{
		Message:       "work",
		AuthorName:    name,
		AuthorEmail:   email,
		AuthorWhen:    when,
		CommitterWhen: when,
		Insertions:    insertions,
		Deletions:     deletions,
		FilesChanged:  files,
	}
}

func TestLedgerMergesEmailCaseVariants(t *testing.T) {
	t.Parallel()

	ledger := contributors.NewLedger()
	ledger.Add(commitBy("Ada", "Ada@example.com", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 5, 1, 2))
	ledger.Add(commitBy("Ada L.", "ada@EXAMPLE.com", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), 3, 0, 1))

	metrics := ledger.Result(contributors.DefaultTopN)

	require.Len(t, metrics.Contributors, 1)
	assert.Equal(t, 2, metrics.Contributors[0].Commits)
	// The display name follows the latest commit.
	assert.Equal(t, "Ada L.", metrics.Contributors[0].Name)
	assert.Equal(t, "Ada@example.com", metrics.Contributors[0].Email)
}

func TestLedgerFallsBackToNameWithoutEmail(t *testing.T) {
	t.Parallel()

	ledger := contributors.NewLedger()
	ledger.Add(commitBy("Bot", "", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 0, 0, 0))
	ledger.Add(commitBy("Bot", "", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), 0, 0, 0))

	metrics := ledger.Result(contributors.DefaultTopN)

	require.Len(t, metrics.Contributors, 1)
	assert.Equal(t, 2, metrics.Contributors[0].Commits)
}

func TestLedgerAggregates(t *testing.T) {
	t.Parallel()

	ledger := contributors.NewLedger()
	// Two commits on the same day count one active day.
	ledger.Add(commitBy("Ada", "ada@example.com", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 10, 2, 3))
	ledger.Add(commitBy("Ada", "ada@example.com", time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC), 5, 1, 1))
	ledger.Add(commitBy("Ada", "ada@example.com", time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), 1, 0, 1))

	metrics := ledger.Result(contributors.DefaultTopN)

	require.Len(t, metrics.Contributors, 1)
	ada := metrics.Contributors[0]

	assert.Equal(t, 3, ada.Commits)
	assert.Equal(t, 16, ada.LinesAdded)
	assert.Equal(t, 3, ada.LinesDeleted)
	assert.Equal(t, 5, ada.FilesTouched)
	assert.Equal(t, 2, ada.ActiveDays)
}

func TestLedgerFirstLastCommitOrderIndependent(t *testing.T) {
	t.Parallel()

	ledger := contributors.NewLedger()
	ledger.Add(commitBy("Ada", "ada@example.com", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 0, 0, 0))
	ledger.Add(commitBy("Ada", "ada@example.com", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0, 0, 0))
	ledger.Add(commitBy("Ada", "ada@example.com", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 0, 0, 0))

	metrics := ledger.Result(contributors.DefaultTopN)

	ada := metrics.Contributors[0]
	assert.Equal(t, time.January, ada.FirstCommit.Month())
	assert.Equal(t, time.June, ada.LastCommit.Month())
}

func TestLedgerRankingBreaksTiesByFirstSeen(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := contributors.NewLedger()
	ledger.Add(commitBy("Bob", "bob@example.com", when, 0, 0, 0))
	ledger.Add(commitBy("Carol", "carol@example.com", when, 0, 0, 0))
	ledger.Add(commitBy("Ada", "ada@example.com", when, 0, 0, 0))
	ledger.Add(commitBy("Ada", "ada@example.com", when, 0, 0, 0))

	metrics := ledger.Result(contributors.DefaultTopN)

	require.Len(t, metrics.Contributors, 3)
	assert.Equal(t, "Ada", metrics.Contributors[0].Name)
	assert.Equal(t, "Bob", metrics.Contributors[1].Name)
	assert.Equal(t, "Carol", metrics.Contributors[2].Name)
}

func TestLedgerShares(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := contributors.NewLedger()
	for range 3 {
		ledger.Add(commitBy("Ada", "ada@example.com", when, 0, 0, 0))
	}

	ledger.Add(commitBy("Bob", "bob@example.com", when, 0, 0, 0))

	metrics := ledger.Result(1)

	require.Len(t, metrics.TopShare, 1)
	assert.Equal(t, "Ada", metrics.TopShare[0].Name)
	assert.InDelta(t, 75.0, metrics.TopShare[0].Share, 1e-9)
	assert.InDelta(t, 25.0, metrics.OthersShare, 1e-9)
}

func TestLedgerSharesUnboundedWhenTopNNonPositive(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := contributors.NewLedger()
	ledger.Add(commitBy("Ada", "ada@example.com", when, 0, 0, 0))
	ledger.Add(commitBy("Bob", "bob@example.com", when, 0, 0, 0))

	metrics := ledger.Result(0)

	assert.Len(t, metrics.TopShare, 2)
	assert.Zero(t, metrics.OthersShare)
}

func TestLedgerNewContributorsByMonth(t *testing.T) {
	t.Parallel()

	ledger := contributors.NewLedger()
	ledger.Add(commitBy("Ada", "ada@example.com", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 0, 0, 0))
	ledger.Add(commitBy("Bob", "bob@example.com", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 0, 0, 0))
	ledger.Add(commitBy("Carol", "carol@example.com", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 0, 0, 0))
	// Ada's later commit must not count her twice.
	ledger.Add(commitBy("Ada", "ada@example.com", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 0, 0, 0))

	metrics := ledger.Result(contributors.DefaultTopN)

	assert.Equal(t, []contributors.MonthlyCount{
		{Month: "2024-01", Count: 2},
		{Month: "2024-02", Count: 1},
	}, metrics.NewByMonth)
}

func TestLedgerEmpty(t *testing.T) {
	t.Parallel()

	metrics := contributors.NewLedger().Result(contributors.DefaultTopN)

	assert.Zero(t, metrics.TotalCommits)
	assert.Zero(t, metrics.TotalContributors)
	require.NotNil(t, metrics.Contributors)
	require.NotNil(t, metrics.NewByMonth)
	require.NotNil(t, metrics.TopShare)
	assert.Empty(t, metrics.Contributors)
	assert.Zero(t, metrics.OthersShare)
}
