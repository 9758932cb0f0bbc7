package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-admin/internal/apiclient"
	"github.com/RubachokBoss/course-admin/internal/cache"
	"github.com/RubachokBoss/course-admin/internal/config"
	"github.com/RubachokBoss/course-admin/internal/console"
	"github.com/RubachokBoss/course-admin/internal/coordinator"
	"github.com/RubachokBoss/course-admin/internal/middleware"
	"github.com/RubachokBoss/course-admin/internal/panel"
	"github.com/RubachokBoss/course-admin/internal/server"
	"github.com/RubachokBoss/course-admin/internal/validation"
	"github.com/RubachokBoss/course-admin/internal/view"
)

type App struct {
	server *server.Server
	panel  *panel.Panel
	logger zerolog.Logger
	config *config.Config
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	client := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, log)

	screen := view.NewScreen()
	p := panel.New(coordinator.Shared{
		API:       client,
		Cache:     cache.New(),
		Surface:   screen,
		Validator: validation.New(),
		Logger:    log,
	})

	h, err := console.NewHandler(p, screen, console.Config{
		Title:         cfg.Console.Title,
		MaxUploadSize: cfg.Console.MaxUploadSize,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create console: %w", err)
	}

	srv := server.NewServer(server.ServerConfig{
		Address:         cfg.Server.Address,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, h.GetRouter(), log)

	// Настраиваем middleware
	srv.SetupMiddleware(server.Middlewares{
		CORS:     middleware.NewCORS(cfg.CORS),
		Timeout:  middleware.Timeout(cfg.Console.RequestTimeout),
		Logger:   middleware.RequestLogger(log),
		Metrics:  middleware.Metrics,
		Recovery: middleware.Recovery(log),
	})

	return &App{
		server: srv,
		panel:  p,
		logger: log,
		config: cfg,
	}, nil
}

// Run serves the console until shutdown. When configured to, the initial data load
// runs alongside so a slow backend never delays the listener or the health checks.
func (a *App) Run(ctx context.Context) error {
	if a.config.Console.BootstrapOnStart {
		go func() {
			// бэкенд может быть ещё недоступен; панель стартует с пустыми списками
			if err := a.panel.Bootstrap(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("Initial data load failed")
			}
		}()
	}
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
