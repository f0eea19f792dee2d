// Package cli wires the outbreak commands: parse, summary, report, serve and version.
package cli

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/outbreak-etl/internal/config"
	"github.com/couchcryptid/outbreak-etl/internal/observability"
)

// app carries the state shared by every subcommand. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	registerer prometheus.Registerer

	logLevel  string
	logFormat string

	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Execute runs the root command with ctx, which subcommands use for
// cancellation.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree, registering metrics with the
// default Prometheus registry.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{registerer: prometheus.DefaultRegisterer})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "outbreak",
		Short: "Parse and analyze disease outbreak headlines",
		Long: `outbreak turns free-text outbreak headlines into structured records
(date, disease, location, severity, region) and answers aggregate questions
about them for Africa, East Africa and Uganda.

Headlines are read one per line from a file argument or stdin.

Example:
  outbreak parse data/mock/headlines.txt --region uganda
  outbreak summary data/mock/headlines.txt --diseases
  outbreak report data/mock/headlines.txt --region east_africa --window-days 30 --format yaml
  outbreak serve data/mock/headlines.txt`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: json or text (overrides LOG_FORMAT)")

	root.AddCommand(
		newParseCommand(a),
		newSummaryCommand(a),
		newReportCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}

	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	a.metrics = observability.NewMetricsWith(a.registerer)
	return nil
}
