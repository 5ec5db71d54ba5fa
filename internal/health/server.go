// Package health serves liveness, readiness and status endpoints next to the bot.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/subbot/core/buildinfo"
	"github.com/m3rciful/subbot/core/logger"
)

// StatusFunc returns a JSON-encodable snapshot for /statusz.
type StatusFunc func() any

// Server is a small HTTP listener reporting bot health.
type Server struct {
	addr   string
	status StatusFunc
	ready  atomic.Bool
	router *chi.Mux
	srv    *http.Server
	done   chan error
}

// New builds a server on addr. status may be nil.
func New(addr string, status StatusFunc) *Server {
	s := &Server{addr: addr, status: status}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/statusz", s.handleStatus)
	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetReady flips the /readyz answer.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("health: listen %s: %w", s.addr, err)
	}
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.done = make(chan error, 1)
	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	logger.Info(ctx, "health", "listen",
		slog.String("listen", ln.Addr().String()),
	)
	return nil
}

// Shutdown stops the listener, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.SetReady(false)
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("health: shutdown: %w", err)
	}
	if err := <-s.done; err != nil {
		return fmt.Errorf("health: serve: %w", err)
	}
	logger.Info(ctx, "health", "stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"ready":   s.ready.Load(),
	}
	if s.status != nil {
		body["bot"] = s.status()
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
