// Package server exposes the record store API and read views over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/pable/go-hoops-stats/internal/coordinator"
	"github.com/pable/go-hoops-stats/internal/guard"
)

// Options tunes the HTTP surface.
type Options struct {
	RateLimit   float64 // requests per second per client, 0 disables limiting
	RateBurst   int
	CORSOrigins []string
}

// Server serves one Coordinator.
type Server struct {
	coord *coordinator.Coordinator
	log   *slog.Logger
	opts  Options
}

// New returns a Server over c.
func New(c *coordinator.Coordinator, log *slog.Logger, opts Options) *Server {
	if log == nil {
		log = c.Store().Logger()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{coord: c, log: log, opts: opts}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	st := s.coord.Store()
	r := chi.NewRouter()

	r.NotFound(s.notFoundResponse)
	r.MethodNotAllowed(s.methodNotAllowedResponse)

	r.Use(s.recoverPanic)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.rateLimit())

	r.Get("/v1/healthcheck", s.healthcheck)

	r.Route("/v1/records", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) { mountRecords(s, r, st.Players) })
		r.Route("/games", func(r chi.Router) { mountRecords(s, r, st.Games) })
	})

	r.Get("/players", s.listPlayers)
	r.With(guard.RequirePlayer(st.Players)).Get("/players/{id}", s.showPlayer)
	r.Get("/games", s.listGames)
	r.Get("/games/{id}", s.showGame)
	r.Put("/games/{id}/stats", s.recordStats)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
