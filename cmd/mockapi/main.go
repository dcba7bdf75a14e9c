package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/infrastructure/config"
	"github.com/prospira/edi-portal/internal/infrastructure/mockapi"
	"github.com/prospira/edi-portal/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadMock(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "edi-mockapi"})

	svc := mockapi.NewService(cfg.JWTSecret, cfg.TokenTTL, cfg.OTPCode, log)
	if err := mockapi.Seed(svc, time.Now()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed mock accounts")
	}

	e := mockapi.NewServer(svc, log)
	go func() {
		log.Info().Str("port", cfg.Port).Str("password", mockapi.DevPassword).Msg("mock edi api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("mock server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mock server shutdown error")
	}
}
