package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	healthhttp "taxpoint/ms_receipt_core/internal/adapters/http/health"
	receipthttp "taxpoint/ms_receipt_core/internal/adapters/http/receipt"
	"taxpoint/ms_receipt_core/internal/infrastructure/config"
	"taxpoint/ms_receipt_core/internal/infrastructure/http/middleware"
)

// Server owns the HTTP listener and its lifecycle.
type Server struct {
	log        *slog.Logger
	httpServer *http.Server
	auth       *middleware.JWTAuthenticator
}

// Options carries everything the server needs wired in.
type Options struct {
	Config  config.AppConfig
	Logger  *slog.Logger
	Health  *healthhttp.Handler
	Receipt *receipthttp.Handler
}

// New builds the router and configures the underlying http.Server.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Health == nil || opts.Receipt == nil {
		return nil, errors.New("handlers are required")
	}

	auth, err := middleware.NewJWTAuthenticator(opts.Config.Auth, opts.Logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(auth.Middleware)

	r.Get("/health", opts.Health.Status)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RenderTimeout(opts.Config.Render)).
			Post("/receipts/parse", opts.Receipt.Parse)
	})

	srv := &http.Server{
		Addr:         opts.Config.HTTP.Address(),
		Handler:      r,
		ReadTimeout:  opts.Config.HTTP.ReadTimeout,
		WriteTimeout: opts.Config.HTTP.WriteTimeout,
		IdleTimeout:  opts.Config.HTTP.IdleTimeout,
	}

	return &Server{log: opts.Logger, httpServer: srv, auth: auth}, nil
}

// Run serves requests until ctx is cancelled, then drains in-flight
// requests within the configured shutdown window.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown did not drain cleanly", "error", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases background resources held by middleware.
func (s *Server) Close() {
	s.auth.Close()
}
