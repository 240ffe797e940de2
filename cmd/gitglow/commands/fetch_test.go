package commands

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/internal/config"
	"github.com/glowstack/gitglow/pkg/githubapi"
)

func TestSplitRepoSlug(t *testing.T) {
	t.Parallel()

	owner, name, err := splitRepoSlug("glowstack/gitglow")
	require.NoError(t, err)
	assert.Equal(t, "glowstack", owner)
	assert.Equal(t, "gitglow", name)

	for _, bad := range []string{"gitglow", "glowstack/", "/gitglow", "a/b/c", ""} {
		_, _, err := splitRepoSlug(bad)
		assert.ErrorIs(t, err, ErrBadRepoSlug, "slug %q", bad)
	}
}

func TestGithubCacheKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "github/glowstack/gitglow", githubCacheKey("glowstack/gitglow"))
}

func TestFetchCommand_PrintsSummary(t *testing.T) {
	t.Parallel()

	command := newFetchCommandWithDeps(
		func(_ context.Context, _ *config.Config, slug string) (*githubapi.RepositoryData, error) {
			require.Equal(t, "glowstack/gitglow", slug)

			return &githubapi.RepositoryData{
				Info: githubapi.RepoInfo{
					FullName:    "glowstack/gitglow",
					Description: "repository insight reports",
					Stars:       1234,
				},
				Issues:    []githubapi.Issue{{Number: 1}, {Number: 2}},
				FetchedAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
			}, nil
		},
	)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{"glowstack/gitglow"})

	require.NoError(t, command.Execute())
	assert.Contains(t, out.String(), "glowstack/gitglow - repository insight reports")
	assert.Contains(t, out.String(), "Stars: 1,234")
	assert.Contains(t, out.String(), "Issues and pull requests fetched: 2")
}

func TestFetchCommand_RejectsBadSlug(t *testing.T) {
	t.Parallel()

	command := newFetchCommandWithDeps(
		func(_ context.Context, _ *config.Config, _ string) (*githubapi.RepositoryData, error) {
			t.Fatal("fetcher should not be called")

			return nil, nil
		},
	)

	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	command.SetArgs([]string{"not-a-slug"})

	require.ErrorIs(t, command.Execute(), ErrBadRepoSlug)
}

func TestFetchCommand_ForwardsEnrichFlag(t *testing.T) {
	t.Parallel()

	var seenEnrich int

	command := newFetchCommandWithDeps(
		func(_ context.Context, cfg *config.Config, _ string) (*githubapi.RepositoryData, error) {
			seenEnrich = cfg.GitHub.EnrichPRs

			return &githubapi.RepositoryData{}, nil
		},
	)

	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	command.SetArgs([]string{"glowstack/gitglow", "--enrich-prs", "25"})

	require.NoError(t, command.Execute())
	assert.Equal(t, 25, seenEnrich)
}
