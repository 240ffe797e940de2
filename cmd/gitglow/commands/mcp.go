package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/glowstack/gitglow/pkg/mcp"
	"github.com/glowstack/gitglow/pkg/observability"
	"github.com/glowstack/gitglow/pkg/version"
)

const (
	flagDebug       = "debug"
	flagMetricsAddr = "metrics-addr"

	// mcpMeterScope names the instrumentation scope for MCP tool metrics.
	mcpMeterScope = "gitglow/mcp"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		debug       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes gitglow analysis as tools that AI agents can discover
and invoke:
  - gitglow_classify: classify commit messages supplied inline
  - gitglow_history:  run history analyzers against a local repository
  - gitglow_depgraph: map import dependencies of a Python source tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			providers, err := initMCPObservability(debug)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			meter := providers.Meter

			var metricsHandler http.Handler

			if metricsAddr != "" {
				promProvider, handler, promErr := observability.NewPrometheusMeterProvider()
				if promErr != nil {
					return promErr
				}

				meter = promProvider.Meter(mcpMeterScope)
				metricsHandler = handler
			}

			red, redErr := observability.NewREDMetrics(meter)
			if redErr != nil {
				return redErr
			}

			deps := mcp.ServerDeps{Logger: providers.Logger, Metrics: red, Tracer: providers.Tracer}

			srv := mcp.NewServer(deps)

			if metricsHandler == nil {
				return srv.Run(cobraCmd.Context())
			}

			return runWithMetrics(cobraCmd.Context(), srv, metricsAddr, metricsHandler)
		},
	}

	cmd.Flags().BoolVar(&debug, flagDebug, false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&metricsAddr, flagMetricsAddr, "", "serve Prometheus metrics on this address (e.g. :9464)")

	return cmd
}

// runWithMetrics serves the MCP session and the metrics endpoint together.
// Either side finishing stops the other.
func runWithMetrics(ctx context.Context, srv *mcp.Server, addr string, handler http.Handler) error {
	group, groupCtx := errgroup.WithContext(ctx)

	serveCtx, stop := context.WithCancel(groupCtx)
	defer stop()

	group.Go(func() error {
		defer stop()

		return srv.Run(serveCtx)
	})

	group.Go(func() error {
		return observability.ServeMetrics(serveCtx, addr, handler)
	})

	return group.Wait()
}

func initMCPObservability(debug bool) (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	cfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	cfg.Mode = observability.ModeMCP
	cfg.LogJSON = true

	if debug {
		cfg.LogLevel = slog.LevelDebug
		cfg.DebugTrace = true
	}

	return observability.Init(cfg)
}
