// Package server implements the stateless chat backend: POST /chat relays the
// client's history window to the configured model and GET /health reports
// liveness.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mfateev/chatbox/internal/history"
	"github.com/mfateev/chatbox/internal/llm"
	"github.com/mfateev/chatbox/internal/models"
)

// ServiceName is reported by GET /health.
const ServiceName = "chat-api"

// Options configures a Server.
type Options struct {
	SystemPrompt string
	ModelConfig  models.ModelConfig

	// HistoryLimit bounds the history forwarded to the model.
	// Non-positive means history.MaxEntries.
	HistoryLimit int

	ShutdownTimeout time.Duration
}

// Server serves the chat API.
type Server struct {
	client llm.Client
	opts   Options
	logger zerolog.Logger
	router chi.Router
}

// New creates a Server that answers with client.
func New(client llm.Client, opts Options, logger zerolog.Logger) *Server {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = history.MaxEntries
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		client: client,
		opts:   opts,
		logger: logger.With().Str("component", "server").Logger(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Post("/chat", s.handleChat)
	r.Get("/health", s.handleHealth)
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// Requests outlive ctx so Shutdown can drain them.
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", ln.Addr().String()).
			Str("model", s.opts.ModelConfig.Model).
			Msg("Chat backend listening")
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
