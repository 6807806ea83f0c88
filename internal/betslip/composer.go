// Package betslip composes and validates multi-leg bet slips.
package betslip

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// minOdd is the lowest payable decimal odd. Anything at or below even money
// against the stake is rejected.
var minOdd = decimal.NewFromInt(1)

// EntryMode selects which leg fields the builder collects and therefore
// which fields validation requires.
type EntryMode string

const (
	// EntryModeMarket requires a free-text market description per leg
	EntryModeMarket EntryMode = "market"
	// EntryModeTeams requires home and away team names per leg
	EntryModeTeams EntryMode = "teams"
)

// ComposeTotalOdd multiplies all leg odds into the combined payout
// multiplier. The fold runs at full decimal precision; rounding to two
// places happens only at presentation time. An empty slip yields 1, which
// callers must treat as "no slip yet", not as a valid bet.
func ComposeTotalOdd(legs []models.BetLeg) decimal.Decimal {
	total := decimal.NewFromInt(1)
	for _, leg := range legs {
		total = total.Mul(leg.Odd)
	}
	return total
}

// ValidateLegs checks that every leg on the slip is complete enough to
// submit. It returns the first failure found, walking legs in order.
func ValidateLegs(legs []models.BetLeg, mode EntryMode) error {
	if len(legs) == 0 {
		return models.ErrNoLegs
	}

	for _, leg := range legs {
		switch mode {
		case EntryModeTeams:
			if strings.TrimSpace(leg.HomeTeam) == "" || strings.TrimSpace(leg.AwayTeam) == "" {
				return models.ErrEmptyTeams
			}
		default:
			if strings.TrimSpace(leg.Market) == "" {
				return models.ErrEmptyMarket
			}
		}

		if !validOdd(leg.Odd) {
			return models.ErrInvalidOdd
		}
	}

	return nil
}

// FormatOdd renders an odd for display with two fractional digits
func FormatOdd(odd decimal.Decimal) string {
	return odd.StringFixed(2)
}

func validOdd(odd decimal.Decimal) bool {
	return odd.GreaterThan(minOdd)
}
