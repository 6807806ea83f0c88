package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskProfileID identifies a named staking policy
type RiskProfileID string

const (
	RiskProfileConservador RiskProfileID = "conservador"
	RiskProfileModerado    RiskProfileID = "moderado"
	RiskProfileAgressivo   RiskProfileID = "agressivo"
)

// RiskProfile maps a policy to the number of equal units the bankroll is split into
type RiskProfile struct {
	ID      RiskProfileID `json:"id"`
	Divisor int64         `json:"divisor"`
}

var riskProfiles = map[RiskProfileID]RiskProfile{
	RiskProfileConservador: {ID: RiskProfileConservador, Divisor: 100},
	RiskProfileModerado:    {ID: RiskProfileModerado, Divisor: 50},
	RiskProfileAgressivo:   {ID: RiskProfileAgressivo, Divisor: 30},
}

// LookupRiskProfile resolves a profile by ID
func LookupRiskProfile(id RiskProfileID) (RiskProfile, error) {
	profile, ok := riskProfiles[id]
	if !ok {
		return RiskProfile{}, ErrMissingProfile
	}
	return profile, nil
}

// MinimumBankroll is the smallest bankroll accepted at setup
var MinimumBankroll = decimal.NewFromInt(50)

// BankrollConfig is a user's staking configuration. The unit value is never
// stored; it is derived from the bankroll and profile on every read so the
// two can never desynchronize.
type BankrollConfig struct {
	UserID          string          `db:"user_id" json:"user_id" validate:"required"`
	BankrollInitial decimal.Decimal `db:"bankroll_initial" json:"bankroll_initial"`
	RiskProfile     RiskProfileID   `db:"risk_profile" json:"risk_profile" validate:"required,oneof=conservador moderado agressivo"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// UnitValue derives the monetary value of one staking unit
func (c *BankrollConfig) UnitValue() (decimal.Decimal, error) {
	profile, err := LookupRiskProfile(c.RiskProfile)
	if err != nil {
		return decimal.Zero, err
	}
	return c.BankrollInitial.Div(decimal.NewFromInt(profile.Divisor)), nil
}
