package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/glowstack/gitglow/internal/config"
	"github.com/glowstack/gitglow/pkg/analyzers"
	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/sizes"
	"github.com/glowstack/gitglow/pkg/gitmine"
	"github.com/glowstack/gitglow/pkg/observability"
	"github.com/glowstack/gitglow/pkg/scanner"
)

const (
	runCmdUse   = "run [path]"
	runCmdShort = "Run analyzers against a repository"

	flagAnalyzers   = "analyzers"
	flagFormat      = "format"
	flagOutput      = "output"
	flagStore       = "store"
	flagExportDir   = "export-dir"
	flagBranch      = "branch"
	flagSince       = "since"
	flagMaxCommits  = "max-commits"
	flagFirstParent = "first-parent"
	flagSourceDir   = "source-dir"
	flagGitHubRepo  = "github-repo"

	storeDirPerm = 0o750
)

// ErrNoGitHubRepo is returned when hosting analyzers are selected explicitly
// without a repository slug to fetch.
var ErrNoGitHubRepo = errors.New("github analyzers need a repository slug (use --github-repo or github.repo)")

// historyExecutor opens a repository and drives one commit walk through the
// selected history analyzers.
type historyExecutor func(
	ctx context.Context,
	repoPath string,
	opts gitmine.CollectOptions,
	selected []analyze.HistoryAnalyzer,
) (analyzers.HistoryRun, error)

// staticExecutor scans a source tree once and feeds it to the selected
// static analyzers, returning reports keyed by analyzer ID.
type staticExecutor func(root string, opts scanner.Options, selected []analyze.StaticAnalyzer) (map[string]analyze.Report, error)

// observabilityInitFunc builds telemetry providers for one CLI run.
type observabilityInitFunc func(cfg observability.Config) (observability.Providers, error)

// runCommand carries the run flags plus injected phase executors.
type runCommand struct {
	analyzerIDs []string
	format      string
	outputPath  string
	storeDir    string
	exportDir   string

	branch      string
	since       string
	maxCommits  int
	firstParent bool

	sourceDir  string
	githubRepo string

	historyExec historyExecutor
	staticExec  staticExecutor
	fetchRepo   repoDataFetcher
	registryFn  func() (*analyze.Registry, error)
	obsInit     observabilityInitFunc
}

// NewRunCommand creates the run subcommand with production executors.
func NewRunCommand() *cobra.Command {
	return newRunCommandWithDeps(
		runHistoryPhase,
		runStaticPhase,
		fetchAndCacheRepoData,
		analyzers.DefaultRegistry,
		observability.Init,
	)
}

func newRunCommandWithDeps(
	historyExec historyExecutor,
	staticExec staticExecutor,
	fetchRepo repoDataFetcher,
	registryFn func() (*analyze.Registry, error),
	obsInit observabilityInitFunc,
) *cobra.Command {
	rc := &runCommand{
		historyExec: historyExec,
		staticExec:  staticExec,
		fetchRepo:   fetchRepo,
		registryFn:  registryFn,
		obsInit:     obsInit,
	}

	cmd := &cobra.Command{
		Use:   runCmdUse,
		Short: runCmdShort,
		Long: `Run history, static, and hosting analyzers against a repository and
serialize their reports.

The positional path defaults to the current directory. Analyzers are
selected with --analyzers by ID ("history/classify"), bare flag
("classify"), or glob ("static/*"); an empty selection runs everything
applicable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: rc.run,
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&rc.analyzerIDs, flagAnalyzers, "a", nil, "analyzers to run (IDs, flags, or globs)")
	flags.StringVarP(&rc.format, flagFormat, "f", analyze.FormatJSON, "output format: json, yaml, bin, text")
	flags.StringVarP(&rc.outputPath, flagOutput, "o", "", "write serialized reports to this file instead of stdout")
	flags.StringVar(&rc.storeDir, flagStore, "", "write a binary report archive into this directory")
	flags.StringVar(&rc.exportDir, flagExportDir, "", "export JSON, CSV, and Markdown summaries into this directory")
	flags.StringVar(&rc.branch, flagBranch, "", "branch to walk (default HEAD)")
	flags.StringVar(&rc.since, flagSince, "", "only commits after this duration (720h) or date (2024-01-02)")
	flags.IntVar(&rc.maxCommits, flagMaxCommits, 0, "walk at most this many commits (0 = no cap)")
	flags.BoolVar(&rc.firstParent, flagFirstParent, false, "follow only first-parent links")
	flags.StringVar(&rc.sourceDir, flagSourceDir, "", "source tree for static analyzers (default repository path)")
	flags.StringVar(&rc.githubRepo, flagGitHubRepo, "", "owner/name slug for hosting analyzers")

	registerAnalyzerFlags(cmd, registryFn)

	return cmd
}

// registerAnalyzerFlags exposes each analyzer configuration option as a
// typed CLI flag. Registry construction failures surface later in run.
func registerAnalyzerFlags(cmd *cobra.Command, registryFn func() (*analyze.Registry, error)) {
	registry, err := registryFn()
	if err != nil {
		return
	}

	seen := make(map[string]struct{})

	for _, id := range registry.IDs() {
		reg, ok := registry.Get(id)
		if !ok {
			continue
		}

		for _, opt := range reg.New().ListConfigurationOptions() {
			if opt.Flag == "" {
				continue
			}

			if _, dup := seen[opt.Flag]; dup {
				continue
			}

			seen[opt.Flag] = struct{}{}

			registerConfigFlag(cmd, opt)
		}
	}
}

func registerConfigFlag(cmd *cobra.Command, opt analyze.ConfigurationOption) {
	switch opt.Type {
	case analyze.BoolConfigurationOption:
		def, _ := opt.Default.(bool)
		cmd.Flags().Bool(opt.Flag, def, opt.Description)
	case analyze.IntConfigurationOption:
		def, _ := opt.Default.(int)
		cmd.Flags().Int(opt.Flag, def, opt.Description)
	case analyze.StringConfigurationOption:
		def, _ := opt.Default.(string)
		cmd.Flags().String(opt.Flag, def, opt.Description)
	case analyze.FloatConfigurationOption:
		def, _ := opt.Default.(float64)
		cmd.Flags().Float64(opt.Flag, def, opt.Description)
	case analyze.StringsConfigurationOption:
		def, _ := opt.Default.([]string)
		cmd.Flags().StringSlice(opt.Flag, def, opt.Description)
	}
}

// loadFlagValue reads one changed analyzer flag into the facts map.
func loadFlagValue(cmd *cobra.Command, opt analyze.ConfigurationOption, facts map[string]any) {
	switch opt.Type {
	case analyze.BoolConfigurationOption:
		if value, err := cmd.Flags().GetBool(opt.Flag); err == nil {
			facts[opt.Name] = value
		}
	case analyze.IntConfigurationOption:
		if value, err := cmd.Flags().GetInt(opt.Flag); err == nil {
			facts[opt.Name] = value
		}
	case analyze.StringConfigurationOption:
		if value, err := cmd.Flags().GetString(opt.Flag); err == nil {
			facts[opt.Name] = value
		}
	case analyze.FloatConfigurationOption:
		if value, err := cmd.Flags().GetFloat64(opt.Flag); err == nil {
			facts[opt.Name] = value
		}
	case analyze.StringsConfigurationOption:
		if value, err := cmd.Flags().GetStringSlice(opt.Flag); err == nil {
			facts[opt.Name] = value
		}
	}
}

// runSession holds the configured analyzer instances and their reports,
// keyed by registry ID, in selection order.
type runSession struct {
	order     []string
	instances map[string]analyze.Analyzer
	reports   map[string]analyze.Report
}

func newRunSession(regs []analyze.Registration) *runSession {
	session := &runSession{
		order:     make([]string, 0, len(regs)),
		instances: make(map[string]analyze.Analyzer, len(regs)),
		reports:   make(map[string]analyze.Report, len(regs)),
	}

	for _, reg := range regs {
		session.order = append(session.order, reg.ID)
		session.instances[reg.ID] = reg.New()
	}

	return session
}

// historyAnalyzers returns the selected history-family instances.
func (s *runSession) historyAnalyzers() []analyze.HistoryAnalyzer {
	selected := make([]analyze.HistoryAnalyzer, 0)

	for _, id := range s.order {
		if analyze.KindOf(id) != analyze.KindHistory {
			continue
		}

		if historyAnalyzer, ok := s.instances[id].(analyze.HistoryAnalyzer); ok {
			selected = append(selected, historyAnalyzer)
		}
	}

	return selected
}

// staticAnalyzers returns the selected static-family instances, splitting
// the whole-tree sizes analyzer from the source-scoped ones.
func (s *runSession) staticAnalyzers() (source, full []analyze.StaticAnalyzer) {
	for _, id := range s.order {
		if analyze.KindOf(id) != analyze.KindStatic {
			continue
		}

		staticAnalyzer, ok := s.instances[id].(analyze.StaticAnalyzer)
		if !ok {
			continue
		}

		if id == sizes.AnalyzerID {
			full = append(full, staticAnalyzer)
		} else {
			source = append(source, staticAnalyzer)
		}
	}

	return source, full
}

// metaAnalyzers returns the selected meta-family instances.
func (s *runSession) metaAnalyzers() []analyze.MetaAnalyzer {
	selected := make([]analyze.MetaAnalyzer, 0)

	for _, id := range s.order {
		if analyze.KindOf(id) != analyze.KindMeta {
			continue
		}

		if metaAnalyzer, ok := s.instances[id].(analyze.MetaAnalyzer); ok {
			selected = append(selected, metaAnalyzer)
		}
	}

	return selected
}

func (rc *runCommand) run(cmd *cobra.Command, args []string) error {
	repoPath, err := resolvePath(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	providers, err := rc.obsInit(cliObservabilityConfig(cfg, rootBoolFlag(cmd, flagQuiet)))
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	logger := providers.Logger

	registry, err := rc.registryFn()
	if err != nil {
		return err
	}

	format, err := analyze.ValidateFormat(rc.format, analyze.UniversalFormats())
	if err != nil {
		return err
	}

	patterns := rc.analyzerIDs
	if len(patterns) == 0 {
		patterns = cfg.Analyzers
	}

	regs, err := registry.Select(patterns)
	if err != nil {
		return err
	}

	session := newRunSession(regs)

	facts := buildFacts(cmd, cfg, session)

	for _, id := range session.order {
		configureErr := session.instances[id].Configure(facts)
		if configureErr != nil {
			return fmt.Errorf("configure %s: %w", id, configureErr)
		}
	}

	ctx, span := providers.Tracer.Start(cmd.Context(), "gitglow.run")
	defer span.End()

	logger.Info("run started", "path", repoPath, "analyzers", len(regs))

	if err := rc.runHistory(ctx, cmd, cfg, repoPath, session, logger); err != nil {
		return err
	}

	if err := rc.runStatic(cmd, cfg, repoPath, session, logger); err != nil {
		return err
	}

	if err := rc.runMeta(ctx, cmd, cfg, session, logger, len(patterns) > 0); err != nil {
		return err
	}

	if err := rc.writeReports(cmd, session, format); err != nil {
		return err
	}

	if rc.storeDir != "" {
		if err := writeStoreArchive(rc.storeDir, session); err != nil {
			return err
		}
	}

	if rc.exportDir != "" {
		if err := writeExports(rc.exportDir, session); err != nil {
			return err
		}
	}

	logger.Info("run completed", "reports", len(session.reports))

	return nil
}

// buildFacts layers analyzer option defaults, config values, and changed
// CLI flags, in that order of precedence.
func buildFacts(cmd *cobra.Command, cfg *config.Config, session *runSession) map[string]any {
	facts := make(map[string]any)
	options := make([]analyze.ConfigurationOption, 0)

	for _, id := range session.order {
		options = append(options, session.instances[id].ListConfigurationOptions()...)
	}

	for _, opt := range options {
		facts[opt.Name] = opt.Default
	}

	cfg.ApplyToFacts(facts)

	for _, opt := range options {
		if opt.Flag != "" && cmd.Flags().Changed(opt.Flag) {
			loadFlagValue(cmd, opt, facts)
		}
	}

	return facts
}

// resolvePath returns the positional repository path, defaulting to the
// current directory.
func resolvePath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	return abs, nil
}

// collectOptions resolves the history walk bounds, flags overriding config.
func (rc *runCommand) collectOptions(cmd *cobra.Command, cfg *config.Config) (gitmine.CollectOptions, error) {
	opts := gitmine.CollectOptions{
		Branch:      cfg.Repo.Branch,
		MaxCommits:  cfg.Repo.MaxCommits,
		FirstParent: cfg.Repo.FirstParent,
	}

	if cmd.Flags().Changed(flagBranch) {
		opts.Branch = rc.branch
	}

	if cmd.Flags().Changed(flagMaxCommits) {
		opts.MaxCommits = rc.maxCommits
	}

	if cmd.Flags().Changed(flagFirstParent) {
		opts.FirstParent = rc.firstParent
	}

	since := cfg.Repo.Since
	if cmd.Flags().Changed(flagSince) {
		since = rc.since
	}

	if since != "" {
		parsed, err := gitmine.ParseSince(since, time.Now())
		if err != nil {
			return gitmine.CollectOptions{}, err
		}

		opts.Since = parsed
	}

	return opts, nil
}

func (rc *runCommand) runHistory(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	repoPath string,
	session *runSession,
	logger *slog.Logger,
) error {
	selected := session.historyAnalyzers()
	if len(selected) == 0 {
		return nil
	}

	opts, err := rc.collectOptions(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Info("history phase started", "analyzers", len(selected))

	run, err := rc.historyExec(ctx, repoPath, opts, selected)
	if err != nil {
		return err
	}

	for id, report := range run.Reports {
		session.reports[id] = report
	}

	logger.Info("history phase completed", "commits", run.Commits)

	return nil
}

func (rc *runCommand) runStatic(
	cmd *cobra.Command,
	cfg *config.Config,
	repoPath string,
	session *runSession,
	logger *slog.Logger,
) error {
	sourceJobs, fullJobs := session.staticAnalyzers()
	if len(sourceJobs) == 0 && len(fullJobs) == 0 {
		return nil
	}

	sourceDir := cfg.Scan.SourceDir
	if cmd.Flags().Changed(flagSourceDir) {
		sourceDir = rc.sourceDir
	}

	if sourceDir == "" {
		sourceDir = repoPath
	}

	extensions := cfg.Scan.Extensions
	if len(extensions) == 0 {
		extensions = config.DefaultScanExtensions()
	}

	ignoreDirs := cfg.Scan.IgnoreDirs
	if len(ignoreDirs) == 0 {
		ignoreDirs = config.DefaultIgnoreDirs()
	}

	logger.Info("static phase started", "root", sourceDir, "analyzers", len(sourceJobs)+len(fullJobs))

	if len(sourceJobs) > 0 {
		reports, err := rc.staticExec(sourceDir, scanner.Options{
			Extensions: extensions,
			IgnoreDirs: ignoreDirs,
		}, sourceJobs)
		if err != nil {
			return err
		}

		mergeReports(session.reports, reports)
	}

	// The sizes analyzer measures the whole tree, not just source files.
	if len(fullJobs) > 0 {
		reports, err := rc.staticExec(sourceDir, scanner.Options{IgnoreDirs: ignoreDirs}, fullJobs)
		if err != nil {
			return err
		}

		mergeReports(session.reports, reports)
	}

	logger.Info("static phase completed")

	return nil
}

func (rc *runCommand) runMeta(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	session *runSession,
	logger *slog.Logger,
	explicit bool,
) error {
	selected := session.metaAnalyzers()
	if len(selected) == 0 {
		return nil
	}

	slug := cfg.GitHub.Repo
	if cmd.Flags().Changed(flagGitHubRepo) {
		slug = rc.githubRepo
	}

	if slug == "" {
		if explicit {
			return ErrNoGitHubRepo
		}

		logger.Warn("skipping github analyzers", "reason", "no repository slug configured")

		return nil
	}

	logger.Info("github phase started", "repo", slug)

	data, err := rc.fetchRepo(ctx, cfg, slug)
	if err != nil {
		return err
	}

	for _, metaAnalyzer := range selected {
		report, analyzeErr := metaAnalyzer.Analyze(data)
		if analyzeErr != nil {
			return fmt.Errorf("analyze %s: %w", metaAnalyzer.Name(), analyzeErr)
		}

		session.reports[metaAnalyzer.Name()] = report
	}

	logger.Info("github phase completed")

	return nil
}

func mergeReports(into, from map[string]analyze.Report) {
	for id, report := range from {
		into[id] = report
	}
}

// reportSerializer is the per-analyzer serialization every family provides.
type reportSerializer interface {
	Serialize(report analyze.Report, format string, writer io.Writer) error
}

// writeReports serializes every produced report in selection order to the
// --output destination, stdout by default.
func (rc *runCommand) writeReports(cmd *cobra.Command, session *runSession, format string) error {
	writer, closeOutput, err := rc.resolveOutput(cmd)
	if err != nil {
		return err
	}

	for _, id := range session.order {
		report, ok := session.reports[id]
		if !ok {
			continue
		}

		serializer, ok := session.instances[id].(reportSerializer)
		if !ok {
			continue
		}

		serializeErr := serializer.Serialize(report, format, writer)
		if serializeErr != nil {
			closeOutput()

			return fmt.Errorf("serialize %s: %w", id, serializeErr)
		}
	}

	return closeOutput()
}

// resolveOutput picks the report destination: a file, or stdout for "-"
// and unset.
func (rc *runCommand) resolveOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if rc.outputPath == "" || rc.outputPath == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	file, err := os.Create(rc.outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return file, file.Close, nil
}

// writeStoreArchive persists every produced report as one binary archive
// render can consume later.
func writeStoreArchive(storeDir string, session *runSession) error {
	mkErr := os.MkdirAll(storeDir, storeDirPerm)
	if mkErr != nil {
		return fmt.Errorf("create store dir: %w", mkErr)
	}

	file, err := os.Create(filepath.Join(storeDir, analyze.ArchiveFileName))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	stored := make([]analyze.StoredReport, 0, len(session.order))
	now := time.Now().UTC()

	for _, id := range session.order {
		report, ok := session.reports[id]
		if !ok {
			continue
		}

		stored = append(stored, analyze.StoredReport{ID: id, CreatedAt: now, Report: report})
	}

	writeErr := analyze.WriteReportArchive(file, stored)
	if writeErr != nil {
		file.Close()

		return writeErr
	}

	return file.Close()
}

// runHistoryPhase is the production history executor.
func runHistoryPhase(
	ctx context.Context,
	repoPath string,
	opts gitmine.CollectOptions,
	selected []analyze.HistoryAnalyzer,
) (analyzers.HistoryRun, error) {
	repo, err := gitmine.Open(repoPath)
	if err != nil {
		return analyzers.HistoryRun{}, err
	}

	return analyzers.RunHistory(ctx, repo, opts, selected)
}

// runStaticPhase is the production static executor: one scan, many
// analyzers.
func runStaticPhase(root string, opts scanner.Options, selected []analyze.StaticAnalyzer) (map[string]analyze.Report, error) {
	tree, err := scanner.Scan(root, opts)
	if err != nil {
		return nil, err
	}

	reports := make(map[string]analyze.Report, len(selected))

	for _, staticAnalyzer := range selected {
		report, analyzeErr := staticAnalyzer.Analyze(tree)
		if analyzeErr != nil {
			return nil, fmt.Errorf("analyze %s: %w", staticAnalyzer.Name(), analyzeErr)
		}

		reports[staticAnalyzer.Name()] = report
	}

	return reports, nil
}
