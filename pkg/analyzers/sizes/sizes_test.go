package sizes_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/analyzers/sizes"
	"github.com/glowstack/gitglow/pkg/scanner"
)

// scanFixture writes a tree into a temp dir and scans all of it.
func scanFixture(t *testing.T, files map[string]string) *scanner.Tree {
	t.Helper()

	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	tree, err := scanner.Scan(root, scanner.Options{})
	require.NoError(t, err)

	return tree
}

func TestMeasureTwoFileScenario(t *testing.T) {
	t.Parallel()

	tree := scanFixture(t, map[string]string{
		"README.md":   "# Title\n\nSome words.\n",
		"app/main.py": "import os\n\n# entry\nprint('hi')\n",
	})

	metrics := sizes.Measure(context.Background(), tree, sizes.DefaultLargestFiles)

	assert.Equal(t, 2, metrics.TotalFiles)
	assert.Equal(t, 7, metrics.TotalLines)
	assert.Equal(t, 3, metrics.CodeLines)
	assert.Equal(t, 2, metrics.CommentLines)
	assert.Equal(t, 2, metrics.BlankLines)

	assert.Equal(t, int64(52), metrics.TotalBytes)
	assert.InDelta(t, 26.0, metrics.AverageBytes, 1e-9)
	assert.Equal(t, int64(31), metrics.MaxBytes)

	assert.Equal(t, []sizes.LanguageStat{
		{Language: "Python", Files: 1, Lines: 4},
		{Language: "Markdown", Files: 1, Lines: 3},
	}, metrics.Languages)

	assert.Equal(t, []sizes.ExtensionStat{
		{Extension: ".py", Files: 1, Lines: 4},
		{Extension: ".md", Files: 1, Lines: 3},
	}, metrics.Extensions)

	assert.Equal(t, []sizes.DirectoryStat{
		{Directory: "app", Lines: 4},
		{Directory: "root", Lines: 3},
	}, metrics.Directories)

	assert.Equal(t, []sizes.FileStat{
		{Path: "app/main.py", Bytes: 31, Lines: 4},
		{Path: "README.md", Bytes: 21, Lines: 3},
	}, metrics.LargestFiles)
}

func TestMeasureLineClassification(t *testing.T) {
	t.Parallel()

	tree := scanFixture(t, map[string]string{
		"edge.py": "  # indented comment\n\t\n code\nno_newline_end",
	})

	metrics := sizes.Measure(context.Background(), tree, sizes.DefaultLargestFiles)

	assert.Equal(t, 4, metrics.TotalLines)
	assert.Equal(t, 2, metrics.CodeLines)
	assert.Equal(t, 1, metrics.CommentLines)
	assert.Equal(t, 1, metrics.BlankLines)
}

func TestMeasureBinaryFilesContributeNoLines(t *testing.T) {
	t.Parallel()

	tree := scanFixture(t, map[string]string{
		"blob.bin": "\x00\x01\x02binary payload",
		"code.py":  "x = 1\n",
	})

	metrics := sizes.Measure(context.Background(), tree, sizes.DefaultLargestFiles)

	assert.Equal(t, 2, metrics.TotalFiles)
	assert.Equal(t, 1, metrics.TotalLines)
	assert.Equal(t, int64(17+6), metrics.TotalBytes)

	require.Len(t, metrics.Languages, 2)
	assert.Equal(t, sizes.LanguageStat{Language: "Other", Files: 1, Lines: 0},
		metrics.Languages[1])
}

func TestMeasureSkipsVendoredPaths(t *testing.T) {
	t.Parallel()

	tree := scanFixture(t, map[string]string{
		"app.py":        "x = 1\n",
		"vendor/lib.py": "y = 2\n",
	})

	metrics := sizes.Measure(context.Background(), tree, sizes.DefaultLargestFiles)

	assert.Equal(t, 1, metrics.TotalFiles)
	require.Len(t, metrics.LargestFiles, 1)
	assert.Equal(t, "app.py", metrics.LargestFiles[0].Path)
}

func TestMeasureSkipsUnreadableFiles(t *testing.T) {
	t.Parallel()

	tree := scanFixture(t, map[string]string{
		"gone.py": "x = 1\n",
		"keep.py": "y = 2\n",
	})

	for _, file := range tree.Files {
		if file.RelPath == "gone.py" {
			require.NoError(t, os.Remove(file.AbsPath))
		}
	}

	metrics := sizes.Measure(context.Background(), tree, sizes.DefaultLargestFiles)

	assert.Equal(t, 1, metrics.TotalFiles)
	require.Len(t, metrics.LargestFiles, 1)
	assert.Equal(t, "keep.py", metrics.LargestFiles[0].Path)
}

func TestMeasureLargestFilesTieBreaksByPath(t *testing.T) {
	t.Parallel()

	tree := scanFixture(t, map[string]string{
		"b.txt": "x\n",
		"a.txt": "y\n",
	})

	metrics := sizes.Measure(context.Background(), tree, sizes.DefaultLargestFiles)

	require.Len(t, metrics.LargestFiles, 2)
	assert.Equal(t, "a.txt", metrics.LargestFiles[0].Path)
	assert.Equal(t, "b.txt", metrics.LargestFiles[1].Path)
}

func TestMeasureLargestFilesCapped(t *testing.T) {
	t.Parallel()

	tree := scanFixture(t, map[string]string{
		"small.py": "x = 1\n",
		"big.py":   "value = 'a much longer line than the others'\n",
		"mid.py":   "middle = 12\n",
	})

	metrics := sizes.Measure(context.Background(), tree, 1)

	assert.Equal(t, 3, metrics.TotalFiles)
	require.Len(t, metrics.LargestFiles, 1)
	assert.Equal(t, "big.py", metrics.LargestFiles[0].Path)
}

func TestMeasureEmptyTree(t *testing.T) {
	t.Parallel()

	tree := &scanner.Tree{Root: t.TempDir()}

	metrics := sizes.Measure(context.Background(), tree, sizes.DefaultLargestFiles)

	assert.Zero(t, metrics.TotalFiles)
	assert.Zero(t, metrics.TotalBytes)
	assert.Zero(t, metrics.AverageBytes)
	require.NotNil(t, metrics.Languages)
	assert.Empty(t, metrics.Languages)
	require.NotNil(t, metrics.LargestFiles)
	assert.Empty(t, metrics.LargestFiles)
}
