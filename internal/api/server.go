// Package api exposes the signal engine over HTTP and websocket.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/config"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/feed"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/service"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/sportsdata"
)

// Server is the public HTTP API
type Server struct {
	signals  *service.SignalService
	stats    *service.StatsService
	bankroll *service.BankrollService
	fixtures *sportsdata.Client
	hub      *feed.Hub
	logger   *logrus.Entry
	server   *http.Server
}

// NewServer wires the services into an HTTP server. The fixtures client may
// be nil when no sports-data API is configured.
func NewServer(cfg config.ServerConfig, signals *service.SignalService, stats *service.StatsService, bankroll *service.BankrollService, fixtures *sportsdata.Client, hub *feed.Hub, logger *logrus.Entry) *Server {
	s := &Server{
		signals:  signals,
		stats:    stats,
		bankroll: bankroll,
		fixtures: fixtures,
		hub:      hub,
		logger:   logger,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Router(cfg.AllowedOrigins),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router builds the chi routing tree
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/signals", func(r chi.Router) {
			r.Get("/", s.handleListSignals)
			r.Post("/", s.handleCreateSignal)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSignal)
				r.Delete("/", s.handleDeleteSignal)
				r.Patch("/status", s.handleSettleSignal)
			})
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", s.handleStats)
			r.Get("/units-history", s.handleUnitsHistory)
		})

		r.Get("/fixtures", s.handleFixtures)

		r.Route("/bankroll", func(r chi.Router) {
			r.Post("/preview", s.handleBankrollPreview)
			r.Get("/{userID}", s.handleGetBankroll)
			r.Put("/{userID}", s.handlePutBankroll)
		})
	})

	r.Get("/ws/feed", s.handleFeed)

	return r
}

// Start runs the server until the listener fails or Shutdown is called
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("API server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(r.Context(), w, r)
}
