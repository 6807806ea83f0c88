package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SignalStatus represents the settlement status of a published signal
type SignalStatus string

const (
	SignalStatusPending SignalStatus = "pending"
	SignalStatusGreen   SignalStatus = "green"
	SignalStatusRed     SignalStatus = "red"
)

// IsValid reports whether the status is one of the known values
func (s SignalStatus) IsValid() bool {
	switch s {
	case SignalStatusPending, SignalStatusGreen, SignalStatusRed:
		return true
	}
	return false
}

// IsSettled reports whether the status is terminal
func (s SignalStatus) IsSettled() bool {
	return s == SignalStatusGreen || s == SignalStatusRed
}

// BetLeg is a single selection inside a (possibly multi-leg) signal
type BetLeg struct {
	HomeTeam string          `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam string          `db:"away_team" json:"away_team" validate:"required"`
	Market   string          `db:"market" json:"market" validate:"required"`
	Odd      decimal.Decimal `db:"odd" json:"odd"`
}

// Signal represents a published betting recommendation (a "tip")
type Signal struct {
	ID         uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	League     string          `db:"league" json:"league"`
	HomeTeam   string          `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam   string          `db:"away_team" json:"away_team" validate:"required"`
	Market     string          `db:"market" json:"market" validate:"required"`
	Odd        decimal.Decimal `db:"odd" json:"odd"`
	Legs       []BetLeg        `db:"legs" json:"legs,omitempty"`
	Status     SignalStatus    `db:"status" json:"status" validate:"required,oneof=pending green red"`
	StakeUnits decimal.Decimal `db:"stake_units" json:"stake_units"`
	IsFree     bool            `db:"is_free" json:"is_free"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	SettledAt  *time.Time      `db:"settled_at" json:"settled_at,omitempty"`
}

// IsMultiLeg reports whether the signal was composed from more than one leg
func (s *Signal) IsMultiLeg() bool {
	return len(s.Legs) > 1
}

// IsSettled checks if the signal has reached a terminal status
func (s *Signal) IsSettled() bool {
	return s.Status.IsSettled()
}

// ProfitUnits returns the odds-based profit of the signal for one unit staked.
// A green signal pays odd-1 units, a red signal loses the unit; pending is 0.
func (s *Signal) ProfitUnits() decimal.Decimal {
	switch s.Status {
	case SignalStatusGreen:
		return s.Odd.Sub(decimal.NewFromInt(1))
	case SignalStatusRed:
		return decimal.NewFromInt(-1)
	}
	return decimal.Zero
}

// MarketSummary joins leg markets for display on multi-leg signals
func (s *Signal) MarketSummary() string {
	if len(s.Legs) == 0 {
		return s.Market
	}
	parts := make([]string, 0, len(s.Legs))
	for _, leg := range s.Legs {
		parts = append(parts, leg.Market)
	}
	return strings.Join(parts, "\n")
}

// SignalDraft carries admin input for creating a new signal
type SignalDraft struct {
	League     string          `json:"league"`
	HomeTeam   string          `json:"home_team"`
	AwayTeam   string          `json:"away_team"`
	Market     string          `json:"market"`
	Odd        decimal.Decimal `json:"odd"`
	Legs       []BetLeg        `json:"legs,omitempty"`
	StakeUnits decimal.Decimal `json:"stake_units"`
	IsFree     bool            `json:"is_free"`
}
