package bankroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// WizardStep identifies the current step of the bankroll setup wizard
type WizardStep string

const (
	StepCapital WizardStep = "capital"
	StepProfile WizardStep = "profile"
	StepConfirm WizardStep = "confirm"
)

// Wizard is the three-step bankroll setup flow. Steps are linear: capital
// entry, profile selection, confirmation. Each forward transition is gated;
// going back discards nothing.
type Wizard struct {
	step     WizardStep
	userID   string
	bankroll decimal.Decimal
	profile  models.RiskProfileID
}

// NewWizard starts a setup flow for a user at the capital entry step
func NewWizard(userID string) *Wizard {
	return &Wizard{step: StepCapital, userID: userID}
}

// Step returns the current wizard step
func (w *Wizard) Step() WizardStep {
	return w.step
}

// SetCapital records the bankroll amount and advances to profile selection.
// Amounts below the minimum leave the wizard where it is.
func (w *Wizard) SetCapital(amount decimal.Decimal) error {
	if w.step != StepCapital {
		return models.ErrInvalidStatus
	}
	if amount.LessThan(models.MinimumBankroll) {
		return models.ErrBankrollTooLow
	}

	w.bankroll = amount
	w.step = StepProfile
	return nil
}

// SelectProfile records the risk profile and advances to confirmation
func (w *Wizard) SelectProfile(id models.RiskProfileID) error {
	if w.step != StepProfile {
		return models.ErrInvalidStatus
	}
	if _, err := models.LookupRiskProfile(id); err != nil {
		return err
	}

	w.profile = id
	w.step = StepConfirm
	return nil
}

// Back returns to the previous step, keeping entered values
func (w *Wizard) Back() {
	switch w.step {
	case StepProfile:
		w.step = StepCapital
	case StepConfirm:
		w.step = StepProfile
	}
}

// PreviewUnitValue shows the unit the current selection would produce.
// Valid from the confirmation step onward.
func (w *Wizard) PreviewUnitValue() (decimal.Decimal, error) {
	if w.step != StepConfirm {
		return decimal.Zero, models.ErrMissingProfile
	}
	return UnitValue(w.bankroll, w.profile)
}

// Confirm finalizes the wizard and emits the resulting configuration
func (w *Wizard) Confirm() (*models.BankrollConfig, error) {
	if w.step != StepConfirm {
		return nil, models.ErrMissingProfile
	}

	return &models.BankrollConfig{
		UserID:          w.userID,
		BankrollInitial: w.bankroll,
		RiskProfile:     w.profile,
		UpdatedAt:       time.Now().UTC(),
	}, nil
}
