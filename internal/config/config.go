// Package config loads and validates gitglow configuration from files,
// environment variables, and defaults.
package config

import (
	"errors"
	"strings"
)

// Config is the top-level configuration struct for gitglow.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Analyzers     []string            `mapstructure:"analyzers"`
	Repo          RepoConfig          `mapstructure:"repo"`
	Scan          ScanConfig          `mapstructure:"scan"`
	GitHub        GitHubConfig        `mapstructure:"github"`
	Cache         CacheConfig         `mapstructure:"cache"`
	History       HistoryConfig       `mapstructure:"history"`
	Static        StaticConfig        `mapstructure:"static"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// RepoConfig holds history collection settings.
type RepoConfig struct {
	Branch      string `mapstructure:"branch"`
	Since       string `mapstructure:"since"`
	MaxCommits  int    `mapstructure:"max_commits"`
	FirstParent bool   `mapstructure:"first_parent"`
}

// ScanConfig holds source tree scan settings.
type ScanConfig struct {
	SourceDir  string   `mapstructure:"source_dir"`
	Extensions []string `mapstructure:"extensions"`
	IgnoreDirs []string `mapstructure:"ignore_dirs"`
}

// GitHubConfig holds hosting API fetch settings.
type GitHubConfig struct {
	Repo      string  `mapstructure:"repo"`
	Token     string  `mapstructure:"token"`
	EnrichPRs int     `mapstructure:"enrich_prs"`
	RateRPS   float64 `mapstructure:"rate_rps"`
}

// CacheConfig holds fetch cache settings.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
	TTL string `mapstructure:"ttl"`
}

// HistoryConfig holds per-analyzer configuration for history analyzers.
type HistoryConfig struct {
	Classify     ClassifyConfig     `mapstructure:"classify"`
	Contributors ContributorsConfig `mapstructure:"contributors"`
}

// ClassifyConfig holds commit classification analyzer settings.
type ClassifyConfig struct {
	Sentiment bool `mapstructure:"sentiment"`
}

// ContributorsConfig holds contributor ranking analyzer settings.
type ContributorsConfig struct {
	TopAuthors int `mapstructure:"top_authors"`
}

// StaticConfig holds per-analyzer configuration for static analyzers.
type StaticConfig struct {
	Complexity ComplexityConfig `mapstructure:"complexity"`
	Depgraph   DepgraphConfig   `mapstructure:"depgraph"`
	Sizes      SizesConfig      `mapstructure:"sizes"`
}

// ComplexityConfig holds cyclomatic complexity analyzer settings.
type ComplexityConfig struct {
	Threshold    int `mapstructure:"threshold"`
	TopFunctions int `mapstructure:"top_functions"`
}

// DepgraphConfig holds dependency graph analyzer settings.
type DepgraphConfig struct {
	MaxGraphNodes int `mapstructure:"max_graph_nodes"`
}

// SizesConfig holds line statistics analyzer settings.
type SizesConfig struct {
	LargestFiles int `mapstructure:"largest_files"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	LogJSON      bool    `mapstructure:"log_json"`
	LogLevel     string  `mapstructure:"log_level"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidMaxCommits indicates the max commits value is negative.
	ErrInvalidMaxCommits = errors.New("repo.max_commits must be non-negative")
	// ErrInvalidEnrichPRs indicates the PR enrichment count is negative.
	ErrInvalidEnrichPRs = errors.New("github.enrich_prs must be non-negative")
	// ErrInvalidRateRPS indicates the API rate is negative.
	ErrInvalidRateRPS = errors.New("github.rate_rps must be non-negative")
	// ErrInvalidGitHubRepo indicates the repo slug is not in owner/name form.
	ErrInvalidGitHubRepo = errors.New("github.repo must be in owner/name form")
	// ErrInvalidTopAuthors indicates the top authors count is negative.
	ErrInvalidTopAuthors = errors.New("history.contributors.top_authors must be non-negative")
	// ErrInvalidComplexityThreshold indicates the complexity threshold is negative.
	ErrInvalidComplexityThreshold = errors.New("static.complexity.threshold must be non-negative")
	// ErrInvalidTopFunctions indicates the top functions count is negative.
	ErrInvalidTopFunctions = errors.New("static.complexity.top_functions must be non-negative")
	// ErrInvalidMaxGraphNodes indicates the graph node cap is negative.
	ErrInvalidMaxGraphNodes = errors.New("static.depgraph.max_graph_nodes must be non-negative")
	// ErrInvalidLargestFiles indicates the largest files count is negative.
	ErrInvalidLargestFiles = errors.New("static.sizes.largest_files must be non-negative")
	// ErrInvalidSampleRatio indicates the trace sample ratio is out of range.
	ErrInvalidSampleRatio = errors.New("observability.sample_ratio must be between 0 and 1")
	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("observability.log_level must be one of debug, info, warn, error")
)

// sampleRatioMax is the upper bound for the trace sampling ratio.
const sampleRatioMax = 1.0

// githubSlugParts is the owner/name segment count of a repo slug.
const githubSlugParts = 2

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	collectErr := c.validateCollection()
	if collectErr != nil {
		return collectErr
	}

	analyzerErr := c.validateAnalyzers()
	if analyzerErr != nil {
		return analyzerErr
	}

	return c.validateObservability()
}

func (c *Config) validateCollection() error {
	if c.Repo.MaxCommits < 0 {
		return ErrInvalidMaxCommits
	}

	if c.GitHub.EnrichPRs < 0 {
		return ErrInvalidEnrichPRs
	}

	if c.GitHub.RateRPS < 0 {
		return ErrInvalidRateRPS
	}

	if c.GitHub.Repo != "" {
		parts := strings.Split(c.GitHub.Repo, "/")
		if len(parts) != githubSlugParts || parts[0] == "" || parts[1] == "" {
			return ErrInvalidGitHubRepo
		}
	}

	return nil
}

func (c *Config) validateAnalyzers() error {
	if c.History.Contributors.TopAuthors < 0 {
		return ErrInvalidTopAuthors
	}

	if c.Static.Complexity.Threshold < 0 {
		return ErrInvalidComplexityThreshold
	}

	if c.Static.Complexity.TopFunctions < 0 {
		return ErrInvalidTopFunctions
	}

	if c.Static.Depgraph.MaxGraphNodes < 0 {
		return ErrInvalidMaxGraphNodes
	}

	if c.Static.Sizes.LargestFiles < 0 {
		return ErrInvalidLargestFiles
	}

	return nil
}

func (c *Config) validateObservability() error {
	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > sampleRatioMax {
		return ErrInvalidSampleRatio
	}

	switch c.Observability.LogLevel {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return ErrInvalidLogLevel
	}
}
