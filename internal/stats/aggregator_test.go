package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// sig builds a settled/pending signal offset minutes after baseTime
func sig(status models.SignalStatus, odd string, minutesAfter int) *models.Signal {
	return &models.Signal{
		ID:        uuid.New(),
		HomeTeam:  "Flamengo",
		AwayTeam:  "Palmeiras",
		Market:    "Over 2.5",
		Odd:       decimal.RequireFromString(odd),
		Status:    status,
		CreatedAt: baseTime.Add(time.Duration(minutesAfter) * time.Minute),
	}
}

func TestSettledOnly(t *testing.T) {
	signals := []*models.Signal{
		sig(models.SignalStatusGreen, "1.8", 0),
		sig(models.SignalStatusPending, "2.1", 1),
		sig(models.SignalStatusRed, "1.5", 2),
	}

	settled := SettledOnly(signals)
	require.Len(t, settled, 2)
	for _, s := range settled {
		assert.True(t, s.IsSettled())
	}
}

func TestAssertivity(t *testing.T) {
	assert.Equal(t, 0.0, Assertivity(nil))

	settled := []*models.Signal{
		sig(models.SignalStatusGreen, "1.8", 0),
		sig(models.SignalStatusGreen, "1.6", 1),
		sig(models.SignalStatusRed, "2.0", 2),
		sig(models.SignalStatusGreen, "1.9", 3),
	}
	assert.Equal(t, 75.0, Assertivity(settled))
}

func TestROI(t *testing.T) {
	assert.Equal(t, 0.0, ROI(nil))

	// (2.0-1) - 1 = 0 over 2 signals
	settled := []*models.Signal{
		sig(models.SignalStatusGreen, "2.0", 0),
		sig(models.SignalStatusRed, "1.7", 1),
	}
	assert.Equal(t, 0.0, ROI(settled))

	// (1.5-1) + (2.0-1) - 1 = 0.5 over 3 signals -> 16.66..%
	settled = append(settled, sig(models.SignalStatusGreen, "1.5", 2))
	assert.InDelta(t, 100.0/6.0, ROI(settled), 1e-9)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.SignalStatus
		expected Streak
	}{
		{
			name:     "empty",
			statuses: nil,
			expected: Streak{},
		},
		{
			name: "win streak stops at first red",
			statuses: []models.SignalStatus{
				models.SignalStatusGreen, models.SignalStatusGreen,
				models.SignalStatusRed, models.SignalStatusGreen,
			},
			expected: Streak{Wins: 2},
		},
		{
			name: "loss streak stops at first green",
			statuses: []models.SignalStatus{
				models.SignalStatusRed, models.SignalStatusRed, models.SignalStatusGreen,
			},
			expected: Streak{Losses: 2},
		},
		{
			name:     "all wins",
			statuses: []models.SignalStatus{models.SignalStatusGreen, models.SignalStatusGreen},
			expected: Streak{Wins: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// statuses are listed most-recent-first; build accordingly
			signals := make([]*models.Signal, 0, len(tt.statuses))
			for i, status := range tt.statuses {
				signals = append(signals, sig(status, "1.8", -i))
			}
			assert.Equal(t, tt.expected, CurrentStreak(signals))
		})
	}
}

func TestCurrentStreakIgnoresInputOrder(t *testing.T) {
	// Shuffled input: the streak walk must order by timestamp, not position.
	signals := []*models.Signal{
		sig(models.SignalStatusRed, "2.0", 2),
		sig(models.SignalStatusGreen, "1.9", 3),
		sig(models.SignalStatusGreen, "1.8", 0),
		sig(models.SignalStatusGreen, "1.6", 1),
	}
	// Chronological order: green, green, red, green -> head of the
	// most-recent-first walk is one green, broken by the red.
	assert.Equal(t, Streak{Wins: 1}, CurrentStreak(signals))
}

func TestComputeSnapshot(t *testing.T) {
	signals := []*models.Signal{
		sig(models.SignalStatusGreen, "2.0", 0),
		sig(models.SignalStatusRed, "1.7", 1),
		sig(models.SignalStatusPending, "1.9", 2),
	}

	snap := Compute(signals)
	assert.Equal(t, 50.0, snap.Assertivity)
	assert.Equal(t, 0.0, snap.ROI)
	assert.Equal(t, Streak{Losses: 1}, snap.Streak)
	assert.Equal(t, 2, snap.Sample)
	assert.Equal(t, 1, snap.Pending)
}

func TestComputeEmptyCollection(t *testing.T) {
	snap := Compute(nil)
	assert.Zero(t, snap.Assertivity)
	assert.Zero(t, snap.ROI)
	assert.Equal(t, Streak{}, snap.Streak)
	assert.Zero(t, snap.Sample, "zero sample marks the percentages as no-data, not computed zeros")
}

func TestComputeIdempotent(t *testing.T) {
	signals := []*models.Signal{
		sig(models.SignalStatusGreen, "1.85", 0),
		sig(models.SignalStatusRed, "2.4", 1),
		sig(models.SignalStatusGreen, "1.5", 2),
	}

	first := Compute(signals)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(signals))
	}
}

func TestUnitsHistoryReplay(t *testing.T) {
	signals := []*models.Signal{
		sig(models.SignalStatusGreen, "1.8", 0), // +0.95
		sig(models.SignalStatusRed, "2.0", 1),   // -1
		sig(models.SignalStatusGreen, "1.6", 2), // +0.95
	}

	points := UnitsHistory(signals, 10, decimal.NewFromInt(100))
	require.Len(t, points, 3)

	assert.True(t, points[0].Units.Equal(decimal.RequireFromString("100.95")), "got %s", points[0].Units)
	assert.True(t, points[1].Units.Equal(decimal.RequireFromString("99.95")), "got %s", points[1].Units)
	assert.True(t, points[2].Units.Equal(decimal.RequireFromString("100.9")), "got %s", points[2].Units)

	// Points come out oldest to newest.
	assert.True(t, points[0].Time.Before(points[1].Time))
	assert.True(t, points[1].Time.Before(points[2].Time))
}

func TestUnitsHistoryWindowBaseline(t *testing.T) {
	signals := []*models.Signal{
		sig(models.SignalStatusGreen, "1.8", 0), // outside window: +0.95
		sig(models.SignalStatusRed, "2.0", 1),   // outside window: -1
		sig(models.SignalStatusGreen, "1.6", 2),
		sig(models.SignalStatusGreen, "1.9", 3),
	}

	points := UnitsHistory(signals, 2, decimal.NewFromInt(100))
	require.Len(t, points, 2)

	// Baseline absorbs the truncated signals: 100 + 0.95 - 1 = 99.95.
	assert.True(t, points[0].Units.Equal(decimal.RequireFromString("100.9")), "got %s", points[0].Units)
	assert.True(t, points[1].Units.Equal(decimal.RequireFromString("101.85")), "got %s", points[1].Units)
}

func TestUnitsHistoryFractionalStakes(t *testing.T) {
	half := sig(models.SignalStatusGreen, "3.5", 0)
	half.StakeUnits = decimal.RequireFromString("0.5")
	lost := sig(models.SignalStatusRed, "4.0", 1)
	lost.StakeUnits = decimal.RequireFromString("0.25")

	points := UnitsHistory([]*models.Signal{half, lost}, 0, decimal.Zero)
	require.Len(t, points, 2)

	assert.True(t, points[0].Units.Equal(decimal.RequireFromString("0.475")), "got %s", points[0].Units)
	assert.True(t, points[1].Units.Equal(decimal.RequireFromString("0.225")), "got %s", points[1].Units)
}

func TestUnitsHistoryIgnoresPendingAndInputOrder(t *testing.T) {
	shuffled := []*models.Signal{
		sig(models.SignalStatusGreen, "1.6", 2),
		sig(models.SignalStatusPending, "2.2", 3),
		sig(models.SignalStatusGreen, "1.8", 0),
		sig(models.SignalStatusRed, "2.0", 1),
	}

	points := UnitsHistory(shuffled, 10, decimal.Zero)
	require.Len(t, points, 3)
	assert.True(t, points[2].Units.Equal(decimal.RequireFromString("0.9")), "got %s", points[2].Units)
}
