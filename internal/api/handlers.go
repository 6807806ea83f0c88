package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type settleRequest struct {
	Status models.SignalStatus `json:"status"`
}

type bankrollRequest struct {
	Bankroll decimal.Decimal      `json:"bankroll"`
	Profile  models.RiskProfileID `json:"profile"`
}

type previewResponse struct {
	UnitValue decimal.Decimal `json:"unit_value"`
}

func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	freeOnly := r.URL.Query().Get("free") == "true"

	signals, err := s.signals.List(r.Context(), freeOnly)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, signals)
}

func (s *Server) handleCreateSignal(w http.ResponseWriter, r *http.Request) {
	var draft models.SignalDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	signal, err := s.signals.Publish(r.Context(), &draft)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, signal)
}

func (s *Server) handleGetSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.signalID(w, r)
	if !ok {
		return
	}

	signal, err := s.signals.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, signal)
}

func (s *Server) handleSettleSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.signalID(w, r)
	if !ok {
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	signal, err := s.signals.Settle(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, signal)
}

func (s *Server) handleDeleteSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.signalID(w, r)
	if !ok {
		return
	}

	if err := s.signals.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	view, err := s.stats.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUnitsHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.stats.UnitsHistory(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleGetBankroll(w http.ResponseWriter, r *http.Request) {
	view, err := s.bankroll.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePutBankroll(w http.ResponseWriter, r *http.Request) {
	var req bankrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	view, err := s.bankroll.Configure(r.Context(), chi.URLParam(r, "userID"), req.Bankroll, req.Profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleBankrollPreview(w http.ResponseWriter, r *http.Request) {
	var req bankrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	unit, err := s.bankroll.Preview(req.Bankroll, req.Profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, previewResponse{UnitValue: unit})
}

// handleFixtures proxies the sports-data fixture list for the admin panel's
// match picker. Responses are cached per league inside the client.
func (s *Server) handleFixtures(w http.ResponseWriter, r *http.Request) {
	if s.fixtures == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "sports data API not configured"})
		return
	}

	fixtures, err := s.fixtures.UpcomingFixtures(r.Context(), r.URL.Query().Get("league"))
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch fixtures")
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "sports data API unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, fixtures)
}

func (s *Server) signalID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: models.ErrInvalidID.Error()})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps domain errors to HTTP statuses. Validation failures are
// 400, missing records 404, settling a settled signal 409; everything else
// is a 500 with the detail kept in the logs.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrAlreadySettled):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNoLegs),
		errors.Is(err, models.ErrEmptyMarket),
		errors.Is(err, models.ErrEmptyTeams),
		errors.Is(err, models.ErrInvalidOdd),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrBankrollTooLow),
		errors.Is(err, models.ErrMissingProfile),
		errors.Is(err, models.ErrInvalidID):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.WithError(err).Error("Request failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
