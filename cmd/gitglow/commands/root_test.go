package commands

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/internal/config"
	"github.com/glowstack/gitglow/pkg/observability"
)

func TestNewRootCommand_HasSubcommands(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "render", "fetch", "mcp", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestCliObservabilityConfig_QuietRaisesLogFloor(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	loud := cliObservabilityConfig(cfg, false)
	assert.Equal(t, slog.LevelInfo, loud.LogLevel)
	assert.Equal(t, observability.ModeCLI, loud.Mode)

	quiet := cliObservabilityConfig(cfg, true)
	assert.Equal(t, slog.LevelWarn, quiet.LogLevel)
}

func TestRootFlagHelpers_TolerateDetachedCommands(t *testing.T) {
	t.Parallel()

	// Subcommands built without a root have no persistent flags.
	cmd := NewRenderCommand()

	assert.Empty(t, rootStringFlag(cmd, flagConfig))
	assert.False(t, rootBoolFlag(cmd, flagQuiet))
	assert.False(t, rootFlagChanged(cmd, flagLogLevel))
}
