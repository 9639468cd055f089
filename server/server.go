// Package server implements the editord HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aschepis/backscratcher/editord/normalize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	DefaultAddr     = ":8000"
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

// DefaultAllowedOrigins is the editor's development server.
var DefaultAllowedOrigins = []string{"http://localhost:3000"}

// Converter performs the conversions behind the API routes.
type Converter interface {
	Latex(ctx context.Context, text string) (normalize.LatexOutcome, error)
	LatexBlock(ctx context.Context, englishText string) (normalize.LatexOutcome, error)
	Table(ctx context.Context, prompt string) (normalize.TableOutcome, error)
}

// Config holds server configuration options.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Server is the editord HTTP server.
type Server struct {
	addr      string
	converter Converter
	router    chi.Router
	logger    zerolog.Logger
}

// New creates a new Server.
func New(cfg Config, converter Converter) *Server {
	s := &Server{
		addr:      lo.CoalesceOrEmpty(cfg.Addr, DefaultAddr),
		converter: converter,
		logger:    cfg.Logger.With().Str("component", "http-server").Logger(),
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	s.router = s.buildRouter(origins)
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter(origins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/convert-latex", s.handleConvertLatex)
		r.Post("/convert-latex-block", s.handleConvertLatexBlock)
		r.Post("/convert-table", s.handleConvertTable)
	})

	return r
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve serves HTTP on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info().Msg("Gracefully stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("address", listener.Addr().String()).Msg("Starting HTTP server")
	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown starts; wait for in-flight requests to drain
	if err := <-shutdownErr; err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
