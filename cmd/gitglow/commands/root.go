// Package commands assembles the gitglow command tree.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/glowstack/gitglow/internal/config"
	"github.com/glowstack/gitglow/pkg/observability"
	"github.com/glowstack/gitglow/pkg/version"
)

// Root-level persistent flag names.
const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"
	flagQuiet    = "quiet"
)

// NewRootCommand creates the gitglow root command with every subcommand
// attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gitglow",
		Short: "Git repository insight reports",
		Long: `gitglow mines commit history, source trees, and hosting metadata into
analyzer reports and renders them as multi-page HTML dashboards.

Commands:
  run     Run analyzers against a repository
  render  Render a stored report archive as HTML dashboards
  fetch   Fetch and cache hosting metadata for a repository
  mcp     Serve analyzers over the Model Context Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String(flagConfig, "", "path to a .gitglow config file")
	root.PersistentFlags().String(flagLogLevel, "", "log level: debug, info, warn, error")
	root.PersistentFlags().Bool(flagLogJSON, false, "emit JSON logs")
	root.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress progress logging")

	root.AddCommand(NewRunCommand())
	root.AddCommand(NewRenderCommand())
	root.AddCommand(NewFetchCommand())
	root.AddCommand(NewMCPCommand())
	root.AddCommand(NewVersionCommand())

	return root
}

// rootStringFlag reads a root persistent flag, tolerating commands built
// without a root for tests.
func rootStringFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Root().PersistentFlags().Lookup(name)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}

// rootBoolFlag reads a boolean root persistent flag.
func rootBoolFlag(cmd *cobra.Command, name string) bool {
	flag := cmd.Root().PersistentFlags().Lookup(name)

	return flag != nil && flag.Value.String() == "true"
}

// rootFlagChanged reports whether a root persistent flag was set.
func rootFlagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Root().PersistentFlags().Lookup(name)

	return flag != nil && flag.Changed
}

// loadConfig resolves the effective configuration for one command run. The
// root --log-level and --log-json flags override file and environment values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(rootStringFlag(cmd, flagConfig))
	if err != nil {
		return nil, err
	}

	if rootFlagChanged(cmd, flagLogLevel) {
		cfg.Observability.LogLevel = rootStringFlag(cmd, flagLogLevel)
	}

	if rootFlagChanged(cmd, flagLogJSON) {
		cfg.Observability.LogJSON = rootBoolFlag(cmd, flagLogJSON)
	}

	return cfg, nil
}

// cliObservabilityConfig maps loaded configuration onto telemetry settings
// for a one-shot CLI invocation. Quiet raises the log floor so progress
// lines disappear while warnings survive.
func cliObservabilityConfig(cfg *config.Config, quiet bool) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeCLI
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.LogJSON = cfg.Observability.LogJSON
	obsCfg.LogLevel = parseLogLevel(cfg.Observability.LogLevel)

	if quiet {
		obsCfg.LogLevel = slog.LevelWarn
	}

	return obsCfg
}

// parseLogLevel maps a config level name onto a slog level, defaulting to
// info for unknown names. Config validation rejects those earlier.
func parseLogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
