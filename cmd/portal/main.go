package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/app"
	"github.com/prospira/edi-portal/internal/infrastructure/config"
	"github.com/prospira/edi-portal/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "edi-portal",
	})
	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("api_base_url", cfg.Upstream.BaseURL).
		Msg("starting edi portal")

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise portal")
	}

	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("portal stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("edi portal stopped")
}
