// Package health serves the container liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger checks a downstream dependency. The database satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type probeStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Server answers /health, /live and /ready on its own port, separate from
// the API router so probes stay up even when the API misbehaves.
type Server struct {
	service string
	version string
	port    int
	db      Pinger
	logger  *logrus.Entry
	ready   atomic.Bool
	server  *http.Server
}

// NewServer creates a probe server. db may be nil when the engine runs
// without a database.
func NewServer(service, version string, port int, db Pinger, logger *logrus.Entry) *Server {
	return &Server{
		service: service,
		version: version,
		port:    port,
		db:      db,
		logger:  logger,
	}
}

// SetReady flips the readiness flag; the engine sets it after wiring is
// complete and clears it at the start of shutdown.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler returns the probe routing mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	return mux
}

// Start serves probes in the background until the context ends
func (s *Server) Start(ctx context.Context) {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.port).Info("Health probe server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Health probe server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
}

// Shutdown stops the probe server
func (s *Server) Shutdown() {
	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.WithError(err).Error("Health probe server shutdown error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.write(w, http.StatusOK, probeStatus{
		Status:    "ok",
		Service:   s.service,
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.write(w, http.StatusOK, probeStatus{Status: "ok", Service: s.service})
}

// handleReady reports not_ready until the engine is wired and, when a
// database is configured, while the database is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"engine": "ok"}
	healthy := true

	if !s.ready.Load() {
		checks["engine"] = "not_ready"
		healthy = false
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = fmt.Sprintf("error: %v", err)
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}

	status := probeStatus{Status: "ok", Service: s.service, Checks: checks}
	code := http.StatusOK
	if !healthy {
		status.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	s.write(w, code, status)
}

func (s *Server) write(w http.ResponseWriter, code int, status probeStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.WithError(err).Error("Failed to encode probe response")
	}
}
