// Package service implements the signal engine use cases on top of the
// repository layer.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/betslip"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/feed"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/metrics"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/repository"
)

// SignalService manages the signal lifecycle: publish, settle, delete
type SignalService struct {
	repo   repository.SignalRepository
	hub    *feed.Hub
	logger *logrus.Entry
}

// NewSignalService creates a signal service
func NewSignalService(repo repository.SignalRepository, hub *feed.Hub, logger *logrus.Entry) *SignalService {
	return &SignalService{repo: repo, hub: hub, logger: logger}
}

// Publish validates a draft, composes the combined odd and stores the signal.
// The stored odd is always recomputed from the legs; a client-supplied total
// that disagrees with the product is rejected.
func (s *SignalService) Publish(ctx context.Context, draft *models.SignalDraft) (*models.Signal, error) {
	legs := draft.Legs
	if len(legs) == 0 {
		legs = []models.BetLeg{{
			HomeTeam: draft.HomeTeam,
			AwayTeam: draft.AwayTeam,
			Market:   draft.Market,
			Odd:      draft.Odd,
		}}
	}

	mode := betslip.EntryModeMarket
	if strings.TrimSpace(legs[0].Market) == "" {
		mode = betslip.EntryModeTeams
	}
	if err := betslip.ValidateLegs(legs, mode); err != nil {
		return nil, err
	}

	total := betslip.ComposeTotalOdd(legs)
	if !draft.Odd.IsZero() && !draft.Odd.Equal(total) {
		return nil, fmt.Errorf("declared odd %s does not match leg product %s: %w",
			betslip.FormatOdd(draft.Odd), betslip.FormatOdd(total), models.ErrInvalidOdd)
	}

	signal := &models.Signal{
		ID:         uuid.New(),
		League:     draft.League,
		HomeTeam:   draft.HomeTeam,
		AwayTeam:   draft.AwayTeam,
		Market:     draft.Market,
		Odd:        total,
		Legs:       draft.Legs,
		Status:     models.SignalStatusPending,
		StakeUnits: draft.StakeUnits,
		IsFree:     draft.IsFree,
		CreatedAt:  time.Now().UTC(),
	}
	if signal.Market == "" {
		signal.Market = signal.MarketSummary()
	}
	if signal.HomeTeam == "" && len(draft.Legs) > 0 {
		signal.HomeTeam = draft.Legs[0].HomeTeam
		signal.AwayTeam = draft.Legs[0].AwayTeam
	}

	if err := s.repo.Create(ctx, signal); err != nil {
		return nil, fmt.Errorf("failed to store signal: %w", err)
	}

	metrics.RecordSignalPublished()
	s.hub.Publish(feed.Event{Type: feed.EventInsert, SignalID: signal.ID, Signal: signal})
	s.logger.WithFields(logrus.Fields{
		"signal_id": signal.ID,
		"odd":       betslip.FormatOdd(signal.Odd),
		"legs":      len(legs),
	}).Info("Signal published")

	return signal, nil
}

// Get returns a single signal by ID
func (s *SignalService) Get(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all signals, newest first. When freeOnly is set only signals
// flagged as free are returned.
func (s *SignalService) List(ctx context.Context, freeOnly bool) ([]*models.Signal, error) {
	if freeOnly {
		return s.repo.ListFree(ctx)
	}
	return s.repo.List(ctx)
}

// Settle moves a pending signal to a terminal status. Settled signals are
// immutable; re-settling returns ErrAlreadySettled.
func (s *SignalService) Settle(ctx context.Context, id uuid.UUID, status models.SignalStatus) (*models.Signal, error) {
	if !status.IsSettled() {
		return nil, models.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	signal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.RecordSignalSettled(string(status))
	s.hub.Publish(feed.Event{Type: feed.EventUpdate, SignalID: id, Signal: signal})
	s.logger.WithFields(logrus.Fields{
		"signal_id": id,
		"status":    status,
	}).Info("Signal settled")

	return signal, nil
}

// Delete removes a signal from the collection
func (s *SignalService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.RecordSignalDeleted()
	s.hub.Publish(feed.Event{Type: feed.EventDelete, SignalID: id})
	s.logger.WithField("signal_id", id).Info("Signal deleted")

	return nil
}

// SuggestedStake converts the signal's stake-in-units into currency for the
// given unit value. Signals without an explicit stake default to one unit.
func (s *SignalService) SuggestedStake(signal *models.Signal, unitValue decimal.Decimal) decimal.Decimal {
	stake := signal.StakeUnits
	if stake.IsZero() {
		stake = decimal.NewFromInt(1)
	}
	return unitValue.Mul(stake)
}
