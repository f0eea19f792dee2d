package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outbreak-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/outbreak-etl/internal/adapter/kafka"
	"github.com/couchcryptid/outbreak-etl/internal/analysis"
	"github.com/couchcryptid/outbreak-etl/internal/pipeline"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [file]",
		Short: "Process headlines once, then serve the aggregation API",
		Long: `Serve runs the headline pipeline once (publishing records to Kafka when
KAFKA_ENABLED is set) and then serves /api/* aggregations alongside /healthz,
/readyz and /metrics until interrupted. /readyz reports ready once the
pipeline has completed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd, args)
		},
	}
}

func (a *app) serve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := openSource(cmd, args)
	if err != nil {
		return err
	}
	defer closeQuietly(src)

	var loader pipeline.BatchLoader
	if a.cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(a.cfg, a.logger)
		defer func() {
			if err := writer.Close(); err != nil {
				a.logger.Error("kafka writer close error", "error", err)
			}
		}()
		loader = writer
		a.logger.Info("kafka sink enabled", "brokers", a.cfg.KafkaBrokers, "topic", a.cfg.KafkaTopic)
	}

	p := a.newPipeline(src, loader)
	srv := httpadapter.NewServer(a.cfg.HTTPAddr, p, a.logger)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	records, err := p.Run(ctx)
	switch {
	case err == nil:
		srv.SetAnalyzer(analysis.New(records, nil))
		a.logger.Info("dataset ready", "records", len(records))
	case ctx.Err() == nil:
		a.logger.Error("pipeline error", "error", err)
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			a.logger.Error("http server error", "error", err)
			return err
		}
	}
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}
	a.logger.Info("shutdown complete")
	return nil
}
