package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/return-heatmap/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/return-heatmap/internal/adapter/http"
	"github.com/couchcryptid/return-heatmap/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/return-heatmap/internal/adapter/kafka"
	"github.com/couchcryptid/return-heatmap/internal/adapter/leaflet"
	"github.com/couchcryptid/return-heatmap/internal/config"
	"github.com/couchcryptid/return-heatmap/internal/domain"
	"github.com/couchcryptid/return-heatmap/internal/observability"
	"github.com/couchcryptid/return-heatmap/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reader, err := csvfile.NewReader(cfg, logger)
	if err != nil {
		logger.Error("invalid input settings", "error", err)
		return 1
	}
	buildOpts, projOpts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		logger.Error("invalid build settings", "error", err)
		return 1
	}

	var loaders []pipeline.Loader
	if cfg.OutputHTML != "" {
		loaders = append(loaders, leaflet.NewWriter(cfg.OutputHTML, cfg.TileURL, logger))
	}
	if cfg.OutputJSON != "" {
		loaders = append(loaders, jsonfile.NewWriter(cfg.OutputJSON, logger))
	}
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("layer publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	transformer := pipeline.NewTransformer(buildOpts, projOpts, logger)
	p := pipeline.New(reader, transformer, loaders, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := p.Run(ctx); err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Error("input schema mismatch",
				"variant", schemaErr.Variant,
				"missing", schemaErr.Missing,
			)
		} else {
			logger.Error("pipeline error", "error", err)
		}
		return 1
	}

	if cfg.ServeAddr == "" {
		return 0
	}

	srv := httpadapter.NewServer(cfg.ServeAddr, p, p, cfg.TileURL, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
		return 1
	}

	logger.Info("shutdown complete")
	return 0
}
