package export_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/export"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, export.WriteJSON(path, map[string]any{"total": 3}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"total\": 3\n}\n", string(content))
}

func TestWriteJSONUnencodableValueFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")

	err := export.WriteJSON(path, map[string]any{"bad": func() {}})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestWriteCSVQuotesSpecialCells(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.csv")

	err := export.WriteCSV(path,
		[]string{"category", "share"},
		[][]string{
			{"feat", "50.0"},
			{"fix, hotfix", "25.0"},
		},
	)
	require.NoError(t, err)

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "category,share\nfeat,50.0\n\"fix, hotfix\",25.0\n", string(content))
}

func TestWriteMarkdown(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.md")

	err := export.WriteMarkdown(path, "History Report", []export.MarkdownSection{
		{
			Heading: "Overview",
			Lines:   []string{"4 commits analyzed."},
		},
		{
			Heading: "Categories",
			Header:  []string{"category", "percent"},
			Rows: [][]string{
				{"feat", "25.0"},
				{"fix | bug", "25.0"},
			},
		},
	})
	require.NoError(t, err)

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)

	want := `# History Report

## Overview

4 commits analyzed.

## Categories

| category | percent |
| --- | --- |
| feat | 25.0 |
| fix \| bug | 25.0 |
`
	assert.Equal(t, want, string(content))
}
