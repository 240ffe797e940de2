// Package sizes measures line and byte statistics over a scanned tree:
// code/comment/blank splits, language and extension histograms, and the
// largest files.
package sizes

import (
	"bytes"
	"context"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/glowstack/gitglow/pkg/scanner"
)

// LanguageStat is one detected language with its file and line volume.
type LanguageStat struct {
	Language string `json:"language"`
	Files    int    `json:"files"`
	Lines    int    `json:"lines"`
}

// ExtensionStat is one file extension with its file and line volume.
type ExtensionStat struct {
	Extension string `json:"extension"`
	Files     int    `json:"files"`
	Lines     int    `json:"lines"`
}

// DirectoryStat is one top-level directory with its line volume.
type DirectoryStat struct {
	Directory string `json:"directory"`
	Lines     int    `json:"lines"`
}

// FileStat is one measured file.
type FileStat struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	Lines int    `json:"lines"`
}

// Metrics is the full sizes report.
type Metrics struct {
	TotalFiles   int             `json:"total_files"`
	TotalLines   int             `json:"total_lines"`
	CodeLines    int             `json:"code_lines"`
	CommentLines int             `json:"comment_lines"`
	BlankLines   int             `json:"blank_lines"`
	TotalBytes   int64           `json:"total_bytes"`
	AverageBytes float64         `json:"average_bytes"`
	MaxBytes     int64           `json:"max_bytes"`
	Languages    []LanguageStat  `json:"languages"`
	Extensions   []ExtensionStat `json:"extensions"`
	Directories  []DirectoryStat `json:"directories"`
	LargestFiles []FileStat      `json:"largest_files"`
}

// fileMeasure is one worker's result, indexed by scan position.
type fileMeasure struct {
	ok       bool
	bytes    int64
	code     int
	comment  int
	blank    int
	language string
}

// Measure reads every scanned file in parallel and aggregates the
// statistics. Vendored paths and unreadable files are skipped entirely;
// binary files count for bytes and languages but contribute no lines.
// largest caps the largest-files ranking.
func Measure(ctx context.Context, tree *scanner.Tree, largest int) Metrics {
	results := make([]fileMeasure, len(tree.Files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for idx, file := range tree.Files {
		if enry.IsVendor(file.RelPath) {
			continue
		}

		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}

			content, err := os.ReadFile(file.AbsPath)
			if err != nil {
				return nil
			}

			measure := fileMeasure{
				ok:       true,
				bytes:    int64(len(content)),
				language: detectLanguage(file.RelPath, content),
			}

			if !enry.IsBinary(content) {
				measure.code, measure.comment, measure.blank = classifyLines(content)
			}

			results[idx] = measure

			return nil
		})
	}

	// Workers never return errors; bad files already degraded to skips.
	_ = group.Wait()

	return reduce(tree, results, largest)
}

// detectLanguage names the file's language, folding unknowns into "Other".
func detectLanguage(relPath string, content []byte) string {
	if lang := enry.GetLanguage(path.Base(relPath), content); lang != enry.OtherLanguage {
		return lang
	}

	return "Other"
}

// classifyLines splits content into code, comment, and blank counts.
// A comment is any line whose first non-space byte is '#'.
func classifyLines(content []byte) (code, comment, blank int) {
	rest := content
	for len(rest) > 0 {
		line, remainder, _ := bytes.Cut(rest, []byte{'\n'})
		rest = remainder

		trimmed := bytes.TrimSpace(line)

		switch {
		case len(trimmed) == 0:
			blank++
		case trimmed[0] == '#':
			comment++
		default:
			code++
		}
	}

	return code, comment, blank
}

type volume struct {
	files int
	lines int
}

// reduce folds worker results into the report in scan order, so every
// ranking tie-breaks by path.
func reduce(tree *scanner.Tree, results []fileMeasure, largest int) Metrics {
	metrics := Metrics{
		Languages:    []LanguageStat{},
		Extensions:   []ExtensionStat{},
		Directories:  []DirectoryStat{},
		LargestFiles: []FileStat{},
	}

	languages := make(map[string]volume)
	extensions := make(map[string]volume)
	directories := make(map[string]int)
	files := make([]FileStat, 0, len(results))

	for idx, file := range tree.Files {
		measure := results[idx]
		if !measure.ok {
			continue
		}

		lines := measure.code + measure.comment + measure.blank

		metrics.TotalFiles++
		metrics.TotalLines += lines
		metrics.CodeLines += measure.code
		metrics.CommentLines += measure.comment
		metrics.BlankLines += measure.blank
		metrics.TotalBytes += measure.bytes

		if measure.bytes > metrics.MaxBytes {
			metrics.MaxBytes = measure.bytes
		}

		lang := languages[measure.language]
		lang.files++
		lang.lines += lines
		languages[measure.language] = lang

		extension := extensionLabel(file.RelPath)
		ext := extensions[extension]
		ext.files++
		ext.lines += lines
		extensions[extension] = ext

		directories[topDirectory(file.RelPath)] += lines

		files = append(files, FileStat{Path: file.RelPath, Bytes: measure.bytes, Lines: lines})
	}

	if metrics.TotalFiles == 0 {
		return metrics
	}

	metrics.AverageBytes = float64(metrics.TotalBytes) / float64(metrics.TotalFiles)

	for _, name := range sortedKeys(languages) {
		metrics.Languages = append(metrics.Languages, LanguageStat{
			Language: name,
			Files:    languages[name].files,
			Lines:    languages[name].lines,
		})
	}

	sort.SliceStable(metrics.Languages, func(i, j int) bool {
		return metrics.Languages[i].Lines > metrics.Languages[j].Lines
	})

	for _, name := range sortedKeys(extensions) {
		metrics.Extensions = append(metrics.Extensions, ExtensionStat{
			Extension: name,
			Files:     extensions[name].files,
			Lines:     extensions[name].lines,
		})
	}

	sort.SliceStable(metrics.Extensions, func(i, j int) bool {
		return metrics.Extensions[i].Lines > metrics.Extensions[j].Lines
	})

	directoryNames := make([]string, 0, len(directories))
	for name := range directories {
		directoryNames = append(directoryNames, name)
	}

	sort.Strings(directoryNames)

	for _, name := range directoryNames {
		metrics.Directories = append(metrics.Directories, DirectoryStat{
			Directory: name,
			Lines:     directories[name],
		})
	}

	sort.SliceStable(metrics.Directories, func(i, j int) bool {
		return metrics.Directories[i].Lines > metrics.Directories[j].Lines
	})

	// Stable sort over path-ordered input keeps byte ties in path order.
	sort.SliceStable(files, func(i, j int) bool { return files[i].Bytes > files[j].Bytes })

	if largest > 0 && len(files) > largest {
		files = files[:largest]
	}

	metrics.LargestFiles = files

	return metrics
}

// extensionLabel lowercases the file extension, labeling extensionless
// files "(none)".
func extensionLabel(relPath string) string {
	if ext := strings.ToLower(path.Ext(relPath)); ext != "" {
		return ext
	}

	return "(none)"
}

// topDirectory buckets a path by its first segment; root-level files land
// in "root".
func topDirectory(relPath string) string {
	if idx := strings.IndexByte(relPath, '/'); idx > 0 {
		return relPath[:idx]
	}

	return "root"
}

func sortedKeys(stats map[string]volume) []string {
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
