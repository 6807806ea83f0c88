// Package bankroll turns a bankroll and risk profile into concrete stakes.
package bankroll

import (
	"github.com/shopspring/decimal"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// Common stake fractions recommended on signals. Higher-odd signals carry
// fractional units to cap risk.
var (
	FractionFull    = decimal.NewFromInt(1)
	FractionHalf    = decimal.RequireFromString("0.5")
	FractionQuarter = decimal.RequireFromString("0.25")
)

// UnitValue computes the monetary value of one staking unit for the given
// bankroll and profile. It is derived on every call; nothing is cached, so a
// bankroll or profile change can never leave a stale unit behind.
func UnitValue(bankrollInitial decimal.Decimal, profileID models.RiskProfileID) (decimal.Decimal, error) {
	if bankrollInitial.LessThan(models.MinimumBankroll) {
		return decimal.Zero, models.ErrBankrollTooLow
	}

	profile, err := models.LookupRiskProfile(profileID)
	if err != nil {
		return decimal.Zero, err
	}

	return bankrollInitial.Div(decimal.NewFromInt(profile.Divisor)), nil
}

// SuggestStake translates a signal's stake-in-units recommendation into a
// currency amount.
func SuggestStake(unitValue, stakeFraction decimal.Decimal) decimal.Decimal {
	return unitValue.Mul(stakeFraction)
}
