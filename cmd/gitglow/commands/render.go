package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glowstack/gitglow/pkg/analyzers"
	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

const (
	analyzerIDSepOld  = "/"
	analyzerIDSepSafe = "-"
	renderDirPerm     = 0o750
	renderCmdUse      = "render <store-dir>"
	renderCmdShort    = "Render a stored report archive as multi-page HTML"
	renderArgCount    = 1
	renderOutputFlag  = "output"
	renderOutputShort = "o"
	renderOutputUsage = "output directory for HTML files"
	renderPageTitle   = "gitglow"
)

// ErrNoOutputDir is returned when the --output flag is not set.
var ErrNoOutputDir = errors.New("output directory is required (use --output)")

// ErrEmptyStore is returned when the archive contains no analyzer reports.
var ErrEmptyStore = errors.New("no analyzer reports found in store")

// ErrNoSectionRenderer is returned when an analyzer has no dashboard
// sections registered.
var ErrNoSectionRenderer = errors.New("no section renderer registered")

// NewRenderCommand creates the render subcommand. Dashboard section
// renderers register themselves when the analyzer catalog is imported.
func NewRenderCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Args:  cobra.ExactArgs(renderArgCount),
		RunE: func(_ *cobra.Command, args []string) error {
			if outputDir == "" {
				return ErrNoOutputDir
			}

			return runRender(args[0], outputDir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, renderOutputFlag, renderOutputShort, "", renderOutputUsage)

	return cmd
}

func runRender(storeDir, outputDir string) error {
	reports, err := readStoredReports(storeDir)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		return ErrEmptyStore
	}

	mkErr := os.MkdirAll(outputDir, renderDirPerm)
	if mkErr != nil {
		return fmt.Errorf("create output dir: %w", mkErr)
	}

	renderer := &plotpage.MultiPageRenderer{
		OutputDir: outputDir,
		Title:     renderPageTitle,
		Theme:     plotpage.ThemeLight,
	}

	registry, regErr := analyzers.DefaultRegistry()
	if regErr != nil {
		return regErr
	}

	pages := make([]plotpage.PageMeta, 0, len(reports))

	for _, stored := range reports {
		meta, renderErr := renderOneAnalyzer(renderer, registry, stored)
		if renderErr != nil {
			slog.Default().Warn("skipping analyzer", "id", stored.ID, "error", renderErr)

			continue
		}

		pages = append(pages, meta)
	}

	indexErr := renderer.RenderIndex(pages)
	if indexErr != nil {
		return fmt.Errorf("render index: %w", indexErr)
	}

	return nil
}

// readStoredReports opens the archive inside storeDir and decodes every
// report in it.
func readStoredReports(storeDir string) ([]analyze.StoredReport, error) {
	archivePath := filepath.Join(storeDir, analyze.ArchiveFileName)

	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	defer file.Close()

	return analyze.ReadReportArchive(file)
}

func renderOneAnalyzer(
	renderer *plotpage.MultiPageRenderer,
	registry *analyze.Registry,
	stored analyze.StoredReport,
) (plotpage.PageMeta, error) {
	sectionsFn := analyze.PlotSectionsFor(stored.ID)
	if sectionsFn == nil {
		return plotpage.PageMeta{}, fmt.Errorf("%w: %s", ErrNoSectionRenderer, stored.ID)
	}

	sections, sectionErr := sectionsFn(stored.Report)
	if sectionErr != nil {
		return plotpage.PageMeta{}, fmt.Errorf("build sections %s: %w", stored.ID, sectionErr)
	}

	safeID := safeAnalyzerID(stored.ID)

	pageErr := renderer.RenderAnalyzerPage(safeID, stored.ID, sections)
	if pageErr != nil {
		return plotpage.PageMeta{}, fmt.Errorf("render page %s: %w", stored.ID, pageErr)
	}

	meta := plotpage.PageMeta{
		ID:    safeID,
		Title: stored.ID,
	}

	if reg, ok := registry.Get(stored.ID); ok {
		meta.Description = reg.Description
	}

	return meta, nil
}

// safeAnalyzerID converts analyzer IDs like "history/classify" to
// "history-classify" for use as filenames.
func safeAnalyzerID(id string) string {
	return strings.ReplaceAll(id, analyzerIDSepOld, analyzerIDSepSafe)
}
