package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	server *http.Server
	logger zerolog.Logger
	// appRouter держит маршруты консоли; chi не даёт навешивать Use после регистрации маршрутов
	appRouter chi.Router
	// rootRouter собирает цепочку middleware, appRouter монтируется в него
	rootRouter      *chi.Mux
	mounted         bool
	shutdownTimeout time.Duration
}

type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func NewServer(cfg ServerConfig, router chi.Router, logger zerolog.Logger) *Server {
	s := &Server{
		logger:          logger.With().Str("component", "server").Logger(),
		appRouter:       router,
		rootRouter:      chi.NewRouter(),
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.rootRouter,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler is the full chain, middleware included.
func (s *Server) Handler() http.Handler {
	return s.rootRouter
}

// Start blocks until the server stops. A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("Starting server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	s.logger.Info().Msg("Shutting down server")
	return s.server.Shutdown(ctx)
}

// Middlewares holds the console chain; nil entries are skipped.
type Middlewares struct {
	CORS     func(http.Handler) http.Handler
	Timeout  func(http.Handler) http.Handler
	Logger   func(http.Handler) http.Handler
	Metrics  func(http.Handler) http.Handler
	Recovery func(http.Handler) http.Handler
}

func (s *Server) SetupMiddleware(m Middlewares) {
	s.rootRouter.Use(middleware.RequestID)
	s.rootRouter.Use(middleware.RealIP)
	s.rootRouter.Use(middleware.StripSlashes)
	s.rootRouter.Use(middleware.CleanPath)
	s.rootRouter.Use(middleware.GetHead)
	// xlsx уже сжат, поэтому сжимаем только текстовые ответы
	s.rootRouter.Use(middleware.Compress(5, "text/html", "text/css", "text/csv", "application/json"))

	if m.CORS != nil {
		s.rootRouter.Use(m.CORS)
	}

	if m.Timeout != nil {
		s.rootRouter.Use(m.Timeout) // таймаут перед логированием
	}

	if m.Logger != nil {
		s.rootRouter.Use(m.Logger)
	}

	if m.Metrics != nil {
		s.rootRouter.Use(m.Metrics)
	}

	if m.Recovery != nil {
		s.rootRouter.Use(m.Recovery) // recovery ближе к обработчику
	}

	if !s.mounted {
		// монтируем после навешивания middleware
		s.rootRouter.Mount("/", s.appRouter)
		s.mounted = true
	}
}
