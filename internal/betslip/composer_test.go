package betslip

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

func leg(market string, odd string) models.BetLeg {
	return models.BetLeg{
		HomeTeam: "Flamengo",
		AwayTeam: "Palmeiras",
		Market:   market,
		Odd:      decimal.RequireFromString(odd),
	}
}

func TestComposeTotalOdd(t *testing.T) {
	tests := []struct {
		name     string
		legs     []models.BetLeg
		expected string
	}{
		{
			name:     "single leg passes through",
			legs:     []models.BetLeg{leg("Over 2.5", "1.85")},
			expected: "1.85",
		},
		{
			name:     "two legs multiply",
			legs:     []models.BetLeg{leg("Over 2.5", "1.5"), leg("BTTS", "2.0")},
			expected: "3",
		},
		{
			name:     "three legs keep full precision",
			legs:     []models.BetLeg{leg("1X", "1.33"), leg("Over 1.5", "1.27"), leg("BTTS", "1.91")},
			expected: "3.226181",
		},
		{
			name:     "empty slip yields neutral accumulator",
			legs:     nil,
			expected: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := ComposeTotalOdd(tt.legs)
			assert.True(t, total.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, total.String())
		})
	}
}

func TestComposeTotalOddDoesNotCompoundRounding(t *testing.T) {
	// 1.11^4 = 1.51807041; rounding each intermediate step to 2dp would give
	// a different (wrong) product.
	legs := []models.BetLeg{
		leg("m1", "1.11"), leg("m2", "1.11"), leg("m3", "1.11"), leg("m4", "1.11"),
	}
	total := ComposeTotalOdd(legs)
	require.True(t, total.Equal(decimal.RequireFromString("1.51807041")), "got %s", total.String())
	assert.Equal(t, "1.52", FormatOdd(total))
}

func TestValidateLegs(t *testing.T) {
	tests := []struct {
		name    string
		legs    []models.BetLeg
		mode    EntryMode
		wantErr error
	}{
		{
			name:    "valid slip",
			legs:    []models.BetLeg{leg("Over 2.5", "1.85")},
			mode:    EntryModeMarket,
			wantErr: nil,
		},
		{
			name:    "empty slip",
			legs:    nil,
			mode:    EntryModeMarket,
			wantErr: models.ErrNoLegs,
		},
		{
			name:    "blank market rejected even with valid odd",
			legs:    []models.BetLeg{leg("  ", "1.85")},
			mode:    EntryModeMarket,
			wantErr: models.ErrEmptyMarket,
		},
		{
			name:    "odd below 1.0 rejected",
			legs:    []models.BetLeg{leg("Over 2.5", "0.8")},
			mode:    EntryModeMarket,
			wantErr: models.ErrInvalidOdd,
		},
		{
			name:    "odd exactly 1.0 rejected",
			legs:    []models.BetLeg{leg("Over 2.5", "1.0")},
			mode:    EntryModeMarket,
			wantErr: models.ErrInvalidOdd,
		},
		{
			name: "teams mode requires team names",
			legs: []models.BetLeg{{
				Market: "Over 2.5",
				Odd:    decimal.RequireFromString("1.85"),
			}},
			mode:    EntryModeTeams,
			wantErr: models.ErrEmptyTeams,
		},
		{
			name:    "teams mode accepts slip without market text",
			legs:    []models.BetLeg{leg("", "1.85")},
			mode:    EntryModeTeams,
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLegs(tt.legs, tt.mode)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLegsSecondLegFailure(t *testing.T) {
	legs := []models.BetLeg{
		leg("Over 2.5", "1.85"),
		leg("BTTS", "1.0"),
	}
	assert.ErrorIs(t, ValidateLegs(legs, EntryModeMarket), models.ErrInvalidOdd)
}
