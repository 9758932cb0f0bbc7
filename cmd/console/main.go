package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/RubachokBoss/course-admin/internal/app"
	"github.com/RubachokBoss/course-admin/internal/config"
	"github.com/RubachokBoss/course-admin/pkg/logger"
)

func main() {
	// Логгер по умолчанию до загрузки конфигурации
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log = logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	// Контекст для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	go func() {
		if err := application.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to run application")
		}
	}()

	log.Info().
		Str("address", cfg.Server.Address).
		Str("backend", cfg.Backend.BaseURL).
		Msg("Course admin console started")

	<-ctx.Done()
	log.Info().Msg("Shutting down course admin console...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Course admin console stopped")
}
