package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameClassify = "gitglow_classify"
	ToolNameHistory  = "gitglow_history"
	ToolNameDepgraph = "gitglow_depgraph"
)

// MaxClassifyMessages is the maximum batch size for inline classification.
const MaxClassifyMessages = 10000

// Sentinel errors for tool input validation.
var (
	// ErrEmptyMessages indicates the messages parameter is empty.
	ErrEmptyMessages = errors.New("messages parameter is required and must not be empty")
	// ErrTooManyMessages indicates the batch exceeds the size limit.
	ErrTooManyMessages = errors.New("messages exceed maximum batch size")
	// ErrEmptyRepoPath indicates the repo_path parameter is empty.
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	// ErrEmptyRoot indicates the root parameter is empty.
	ErrEmptyRoot = errors.New("root parameter is required and must not be empty")
	// ErrPathNotAbsolute indicates a path parameter is not absolute.
	ErrPathNotAbsolute = errors.New("path must be absolute")
	// ErrPathNotFound indicates a path parameter does not exist.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrNotDirectory indicates a path parameter is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")
	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("path is not a git repository")
)

// Input types (auto-generate JSON schemas via struct tags).

// ClassifyInput is the input schema for the gitglow_classify tool.
type ClassifyInput struct {
	Messages []string `json:"messages" jsonschema:"commit messages to classify"`
}

// HistoryInput is the input schema for the gitglow_history tool.
type HistoryInput struct {
	Analyzers   []string `json:"analyzers,omitempty"    jsonschema:"optional history analyzer IDs or globs (default: all)"`
	Branch      string   `json:"branch,omitempty"       jsonschema:"branch or tag or hash to walk (default: HEAD)"`
	FirstParent bool     `json:"first_parent,omitempty" jsonschema:"follow only the first parent of merge commits"`
	MaxCommits  int      `json:"max_commits,omitempty"  jsonschema:"maximum number of commits to analyze (default: 1000)"`
	RepoPath    string   `json:"repo_path"              jsonschema:"absolute path to a Git repository"`
	Since       string   `json:"since,omitempty"        jsonschema:"only analyze commits after this time (e.g. 720h or 2024-01-01)"`
}

// DepgraphInput is the input schema for the gitglow_depgraph tool.
type DepgraphInput struct {
	Root string `json:"root" jsonschema:"absolute path to a Python source tree"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateDir checks that path is an absolute, existing directory.
func validateDir(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", ErrPathNotAbsolute, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	return nil
}

// validateGitRepo checks that path is a directory holding a .git entry.
// Worktrees keep .git as a file, so any stat success passes.
func validateGitRepo(path string) error {
	err := validateDir(path)
	if err != nil {
		return err
	}

	_, err = os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, path)
	}

	return nil
}
