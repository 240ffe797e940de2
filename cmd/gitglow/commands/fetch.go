package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/glowstack/gitglow/internal/config"
	"github.com/glowstack/gitglow/pkg/cache"
	"github.com/glowstack/gitglow/pkg/githubapi"
)

const (
	fetchCmdUse   = "fetch <owner/name>"
	fetchCmdShort = "Fetch and cache hosting metadata for a repository"
	fetchArgCount = 1

	flagEnrichPRs = "enrich-prs"
	flagCacheTTL  = "cache-ttl"

	// repoSlugParts is the owner/name segment count of a repository slug.
	repoSlugParts = 2

	// cacheSubdir is the gitglow directory under the user cache root.
	cacheSubdir = "gitglow"
)

// ErrBadRepoSlug is returned when a repository argument is not owner/name.
var ErrBadRepoSlug = errors.New("repository must be in owner/name form")

// repoDataFetcher retrieves hosting metadata for one repository slug.
type repoDataFetcher func(ctx context.Context, cfg *config.Config, slug string) (*githubapi.RepositoryData, error)

// NewFetchCommand creates the fetch subcommand.
func NewFetchCommand() *cobra.Command {
	return newFetchCommandWithDeps(fetchAndCacheRepoData)
}

func newFetchCommandWithDeps(fetch repoDataFetcher) *cobra.Command {
	var (
		enrichPRs int
		cacheTTL  string
	)

	cmd := &cobra.Command{
		Use:   fetchCmdUse,
		Short: fetchCmdShort,
		Args:  cobra.ExactArgs(fetchArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			if _, _, err := splitRepoSlug(slug); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed(flagEnrichPRs) {
				cfg.GitHub.EnrichPRs = enrichPRs
			}

			if cmd.Flags().Changed(flagCacheTTL) {
				cfg.Cache.TTL = cacheTTL
			}

			data, err := fetch(cmd.Context(), cfg, slug)
			if err != nil {
				return err
			}

			return writeFetchSummary(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().IntVar(&enrichPRs, flagEnrichPRs, 0, "enrich up to N pull requests with line stats")
	cmd.Flags().StringVar(&cacheTTL, flagCacheTTL, "", "cache freshness window (e.g. 1h, 30m)")

	return cmd
}

// splitRepoSlug validates and splits an owner/name repository slug.
func splitRepoSlug(slug string) (string, string, error) {
	parts := strings.Split(slug, "/")
	if len(parts) != repoSlugParts || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadRepoSlug, slug)
	}

	return parts[0], parts[1], nil
}

// githubCacheKey is the cache key holding one repository's hosting metadata.
func githubCacheKey(slug string) string {
	return "github/" + slug
}

// openFetchCache builds the on-disk fetch cache from config, defaulting to
// the user cache directory.
func openFetchCache(cfg *config.Config) (*cache.Cache, error) {
	dir := cfg.Cache.Dir
	if dir == "" {
		userDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}

		dir = filepath.Join(userDir, cacheSubdir)
	}

	ttlRaw := cfg.Cache.TTL
	if ttlRaw == "" {
		ttlRaw = config.DefaultCacheTTL
	}

	ttl, err := time.ParseDuration(ttlRaw)
	if err != nil {
		return nil, fmt.Errorf("parse cache ttl: %w", err)
	}

	return cache.New(dir, ttl)
}

// fetchAndCacheRepoData returns cached metadata when a fresh entry exists,
// otherwise calls the hosting API and stores the result. An empty
// github.token falls back to the GITHUB_TOKEN environment variable.
func fetchAndCacheRepoData(ctx context.Context, cfg *config.Config, slug string) (*githubapi.RepositoryData, error) {
	store, err := openFetchCache(cfg)
	if err != nil {
		return nil, err
	}

	key := githubCacheKey(slug)

	var cached githubapi.RepositoryData
	if store.Get(key, &cached) {
		return &cached, nil
	}

	owner, name, err := splitRepoSlug(slug)
	if err != nil {
		return nil, err
	}

	token := cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	client := githubapi.NewClient(token, cfg.GitHub.RateRPS)

	data, err := client.FetchRepositoryData(ctx, owner, name, githubapi.FetchOptions{
		EnrichPRs: cfg.GitHub.EnrichPRs,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", slug, err)
	}

	cacheErr := store.Set(key, data)
	if cacheErr != nil {
		return nil, fmt.Errorf("cache %s: %w", slug, cacheErr)
	}

	return data, nil
}

func writeFetchSummary(writer io.Writer, data *githubapi.RepositoryData) error {
	heading := color.New(color.FgCyan, color.Bold)

	if _, err := heading.Fprintln(writer, "Fetched repository metadata"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	if data.Info.FullName != "" {
		fmt.Fprintf(writer, "%s", data.Info.FullName)

		if data.Info.Description != "" {
			fmt.Fprintf(writer, " - %s", data.Info.Description)
		}

		fmt.Fprintln(writer)
	}

	fmt.Fprintf(writer, "Stars: %s  Forks: %s  Watchers: %s  Open issues: %s\n",
		humanize.Comma(int64(data.Info.Stars)), humanize.Comma(int64(data.Info.Forks)),
		humanize.Comma(int64(data.Info.Watchers)), humanize.Comma(int64(data.Info.OpenIssues)))
	fmt.Fprintf(writer, "Issues and pull requests fetched: %s\n", humanize.Comma(int64(len(data.Issues))))
	fmt.Fprintf(writer, "Fetched at: %s\n", data.FetchedAt.Format(time.RFC3339))

	return nil
}
