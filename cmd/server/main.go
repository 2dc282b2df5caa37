package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mcoot/geochain/internal/api"
	"github.com/mcoot/geochain/internal/config"
	"github.com/mcoot/geochain/internal/factory"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("GEOCHAIN_CONFIG"), "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.Logging)
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(factory.ConfigFrom(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Load gazetteer, preferring a copy already cached in storage unless reload is set
	source, err := app.Places.Load(context.Background(), cfg.Places.Path, cfg.Places.Reload)
	if err != nil {
		logger.Warn("could not load gazetteer", slog.String("error", err.Error()))
	} else {
		logger.Info("gazetteer ready",
			slog.String("source", source),
			slog.Int("places", app.Places.Count()))
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
		Archive:  app.Archive,
		Places:   app.Places,
		Realtime: app.Realtime,
		Metrics:  app.Metrics.Handler(),
		Requests: app.Metrics,
	})

	server := api.NewServer(router, api.ServerConfigFrom(cfg.Server), logger)

	// Serve until SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
