package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/bankroll"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/repository"
)

// BankrollView is a bankroll configuration with its derived unit value
type BankrollView struct {
	models.BankrollConfig
	UnitValue decimal.Decimal `json:"unit_value"`
}

// BankrollService manages user staking configurations. The unit value is
// never stored; every view derives it from the persisted bankroll and
// profile.
type BankrollService struct {
	repo   repository.BankrollRepository
	logger *logrus.Entry
}

// NewBankrollService creates a bankroll service
func NewBankrollService(repo repository.BankrollRepository, logger *logrus.Entry) *BankrollService {
	return &BankrollService{repo: repo, logger: logger}
}

// Get returns the user's configuration with the derived unit value
func (s *BankrollService) Get(ctx context.Context, userID string) (*BankrollView, error) {
	cfg, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(cfg)
}

// Configure runs the setup wizard end to end and persists the result.
// Both values replace the previous configuration atomically.
func (s *BankrollService) Configure(ctx context.Context, userID string, amount decimal.Decimal, profile models.RiskProfileID) (*BankrollView, error) {
	wizard := bankroll.NewWizard(userID)
	if err := wizard.SetCapital(amount); err != nil {
		return nil, err
	}
	if err := wizard.SelectProfile(profile); err != nil {
		return nil, err
	}

	cfg, err := wizard.Confirm()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Put(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to store bankroll config: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"profile": profile,
	}).Info("Bankroll configured")

	return s.view(cfg)
}

// Preview computes the unit value a capital and profile pair would produce
// without persisting anything. Used by the wizard's confirmation step.
func (s *BankrollService) Preview(amount decimal.Decimal, profile models.RiskProfileID) (decimal.Decimal, error) {
	return bankroll.UnitValue(amount, profile)
}

func (s *BankrollService) view(cfg *models.BankrollConfig) (*BankrollView, error) {
	unit, err := cfg.UnitValue()
	if err != nil {
		return nil, err
	}
	return &BankrollView{BankrollConfig: *cfg, UnitValue: unit}, nil
}
