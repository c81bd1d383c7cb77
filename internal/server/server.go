// Package server собирает HTTP сервер: маршруты, цепочку middleware и зависимости.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/notekeeper/internal/crypto"
	"github.com/iudanet/notekeeper/internal/server/config"
	"github.com/iudanet/notekeeper/internal/server/handlers"
	"github.com/iudanet/notekeeper/internal/server/identity"
	"github.com/iudanet/notekeeper/internal/server/jwt"
	"github.com/iudanet/notekeeper/internal/server/metrics"
	"github.com/iudanet/notekeeper/internal/server/middleware"
	"github.com/iudanet/notekeeper/internal/server/notes"
	"github.com/iudanet/notekeeper/internal/server/storage"
)

const healthPath = "/api/health"

// Server HTTP сервер notekeeper
type Server struct {
	logger     *slog.Logger
	store      storage.Storage
	metrics    *metrics.Metrics
	handler    http.Handler
	httpServer *http.Server
	cfg        *config.Config
}

// New wires services, handlers and middleware on top of store.
// Store остается во владении вызывающего кода.
func New(cfg *config.Config, logger *slog.Logger, store storage.Storage, version string) (*Server, error) {
	secret, err := cfg.SecretBytes()
	if err != nil {
		return nil, fmt.Errorf("decode auth secret: %w", err)
	}

	tokens, err := jwt.NewService(secret, time.Duration(cfg.Auth.TokenTTL))
	if err != nil {
		return nil, fmt.Errorf("create token service: %w", err)
	}

	hasher := crypto.NewPasswordHasher(cfg.Argon2Params())

	identitySvc, err := identity.NewService(logger, store, hasher, tokens)
	if err != nil {
		return nil, fmt.Errorf("create identity service: %w", err)
	}

	notesSvc := notes.NewService(logger, store)

	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
	if cfg.Metrics.Enabled {
		s.metrics = metrics.New()
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux,
		handlers.NewAuthHandler(logger, identitySvc),
		handlers.NewNotesHandler(logger, notesSvc),
		handlers.NewHealthHandler(logger, store, version),
	)

	skip := []string{healthPath}
	if cfg.Metrics.Enabled {
		skip = append(skip, cfg.Metrics.Path)
	}

	// порядок применения снаружи внутрь; metrics последним, чтобы видеть r.Pattern от ServeMux
	s.handler = chain(mux,
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingWithSkip(logger, skip),
		middleware.CORSMiddleware(cfg.CORS.AllowedOrigins),
		middleware.AuthMiddleware(logger, tokens, identitySvc, s.metrics),
		middleware.MetricsMiddleware(s.metrics),
	)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout),
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout),
		MaxHeaderBytes:    1 << 20,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return s, nil
}

func (s *Server) registerRoutes(mux *http.ServeMux, auth *handlers.AuthHandler, notesHandler *handlers.NotesHandler, health *handlers.HealthHandler) {
	protect := func(h handlers.IdentityHandlerFunc) http.HandlerFunc {
		return handlers.RequireIdentity(s.logger, h)
	}

	// Public endpoints
	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("GET "+healthPath, health.Health)

	// Protected endpoints
	mux.HandleFunc("GET /api/auth/me", protect(auth.Me))
	mux.HandleFunc("GET /api/notes", protect(notesHandler.List))
	mux.HandleFunc("POST /api/notes", protect(notesHandler.Create))
	mux.HandleFunc("GET /api/notes/{id}", protect(notesHandler.Get))
	mux.HandleFunc("PUT /api/notes/{id}", protect(notesHandler.Update))
	mux.HandleFunc("DELETE /api/notes/{id}", protect(notesHandler.Delete))

	if s.metrics != nil {
		mux.Handle("GET "+s.cfg.Metrics.Path, s.metrics.Handler())
	}
}

// chain оборачивает h в middlewares; первый в списке выполняется первым
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает cfg.Server.Addr и блокируется до отмены ctx или ошибки сервера
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx, затем выполняет graceful shutdown
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.InfoContext(ctx, "server started",
		slog.String("addr", ln.Addr().String()),
		slog.String("driver", s.cfg.Database.Driver),
		slog.Bool("metrics", s.metrics != nil))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("server failed", slog.Any("error", err))
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown failed", slog.Any("error", err))
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
