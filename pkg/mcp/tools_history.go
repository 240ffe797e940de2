package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/glowstack/gitglow/pkg/analyzers"
	"github.com/glowstack/gitglow/pkg/gitmine"
)

// DefaultHistoryCommitLimit bounds how many commits a history tool call
// walks when the caller does not pick a limit. MCP callers expect tool
// calls to return promptly, so an uncapped walk of a large repository is
// never the right default.
const DefaultHistoryCommitLimit = 1000

// handleHistory processes gitglow_history tool calls: it opens the
// repository, walks its history once, and returns one report per selected
// history analyzer.
func handleHistory(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input HistoryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateHistoryInput(input)
	if err != nil {
		return errorResult(err)
	}

	registry, err := analyzers.DefaultRegistry()
	if err != nil {
		return errorResult(fmt.Errorf("build registry: %w", err))
	}

	selected, err := analyzers.SelectHistory(registry, input.Analyzers)
	if err != nil {
		return errorResult(err)
	}

	opts, err := collectOptions(input)
	if err != nil {
		return errorResult(err)
	}

	repo, err := gitmine.Open(input.RepoPath)
	if err != nil {
		return errorResult(err)
	}

	run, err := analyzers.RunHistory(ctx, repo, opts, selected)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(run)
}

// validateHistoryInput checks that the repository path points at a git
// checkout before any work starts.
func validateHistoryInput(input HistoryInput) error {
	if input.RepoPath == "" {
		return ErrEmptyRepoPath
	}

	return validateGitRepo(input.RepoPath)
}

// collectOptions translates the tool input into walk bounds.
func collectOptions(input HistoryInput) (gitmine.CollectOptions, error) {
	limit := input.MaxCommits
	if limit <= 0 {
		limit = DefaultHistoryCommitLimit
	}

	opts := gitmine.CollectOptions{
		Branch:      input.Branch,
		MaxCommits:  limit,
		FirstParent: input.FirstParent,
	}

	if input.Since != "" {
		since, err := gitmine.ParseSince(input.Since, time.Now())
		if err != nil {
			return gitmine.CollectOptions{}, err
		}

		opts.Since = since
	}

	return opts, nil
}
