package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gitglow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Analyzers)
	assert.Equal(t, []string{".py"}, cfg.Scan.Extensions)
	assert.Contains(t, cfg.Scan.IgnoreDirs, "__pycache__")
	assert.Equal(t, "1h", cfg.Cache.TTL)
	assert.InEpsilon(t, 1.0, cfg.GitHub.RateRPS, 1e-9)
	assert.True(t, cfg.History.Classify.Sentiment)
	assert.Equal(t, 10, cfg.History.Contributors.TopAuthors)
	assert.Equal(t, 10, cfg.Static.Complexity.Threshold)
	assert.Equal(t, 20, cfg.Static.Complexity.TopFunctions)
	assert.Equal(t, 50, cfg.Static.Depgraph.MaxGraphNodes)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
analyzers:
  - history/classify
  - static/*
repo:
  branch: main
  max_commits: 500
github:
  repo: glowstack/gitglow
static:
  complexity:
    threshold: 15
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"history/classify", "static/*"}, cfg.Analyzers)
	assert.Equal(t, "main", cfg.Repo.Branch)
	assert.Equal(t, 500, cfg.Repo.MaxCommits)
	assert.Equal(t, "glowstack/gitglow", cfg.GitHub.Repo)
	assert.Equal(t, 15, cfg.Static.Complexity.Threshold)

	// Untouched keys keep their defaults.
	assert.Equal(t, "1h", cfg.Cache.TTL)
}

func TestLoadConfig_SchemaRejectsUnknownKey(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "analizers: [oops]\n")

	_, err := config.LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrSchemaViolation)
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "github:\n  repo: not-a-slug\n")

	_, err := config.LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidGitHubRepo)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("GITGLOW_CACHE_TTL", "45m")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "45m", cfg.Cache.TTL)
}

func TestValidate_Observability(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	cfg.Observability.SampleRatio = 1.5

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidSampleRatio)

	cfg.Observability.SampleRatio = 0.5
	cfg.Observability.LogLevel = "loud"

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidLogLevel)
}
