// Package stats derives dashboard metrics from a signal collection.
//
// Two profit conventions coexist on purpose. ROI is odds-based: a green
// signal earns odd-1 units, a red loses one unit. The units history uses the
// flat convention the product displays on its chart: +0.95 units per stake
// on green, -1 per stake on red. They are separate metrics and are never
// merged.
package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// winUnitFactor is the flat per-unit payout used by the units history chart
var winUnitFactor = decimal.RequireFromString("0.95")

// Streak is the trailing run of same-outcome settled signals. At most one
// of the two fields is non-zero.
type Streak struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// UnitsPoint is one point of the cumulative units time series
type UnitsPoint struct {
	Time  time.Time       `json:"time"`
	Units decimal.Decimal `json:"units"`
}

// Snapshot bundles all derived metrics for one read. Sample is the number
// of settled signals behind the percentages; callers use it to tell a real
// zero from "no data yet".
type Snapshot struct {
	Assertivity float64 `json:"assertivity"`
	ROI         float64 `json:"roi"`
	Streak      Streak  `json:"streak"`
	Sample      int     `json:"sample"`
	Pending     int     `json:"pending"`
}

// SettledOnly returns the subsequence of signals with a terminal status
func SettledOnly(signals []*models.Signal) []*models.Signal {
	settled := make([]*models.Signal, 0, len(signals))
	for _, s := range signals {
		if s.IsSettled() {
			settled = append(settled, s)
		}
	}
	return settled
}

// Assertivity is the green rate over settled signals, as a percentage.
// Zero when nothing has settled.
func Assertivity(settled []*models.Signal) float64 {
	if len(settled) == 0 {
		return 0
	}

	greens := 0
	for _, s := range settled {
		if s.Status == models.SignalStatusGreen {
			greens++
		}
	}
	return float64(greens) / float64(len(settled)) * 100
}

// ROI is the odds-based return over settled signals, as a percentage,
// modelling one unit staked per signal.
func ROI(settled []*models.Signal) float64 {
	if len(settled) == 0 {
		return 0
	}

	net := decimal.Zero
	for _, s := range settled {
		net = net.Add(s.ProfitUnits())
	}
	roi, _ := net.Div(decimal.NewFromInt(int64(len(settled)))).Mul(decimal.NewFromInt(100)).Float64()
	return roi
}

// CurrentStreak walks settled signals from the most recent backward and
// counts the run of identical outcomes at the head. Input order does not
// matter; signals are sorted by creation time internally.
func CurrentStreak(settled []*models.Signal) Streak {
	sorted := sortedByTimeDesc(settled)

	var streak Streak
	for _, s := range sorted {
		switch s.Status {
		case models.SignalStatusGreen:
			if streak.Losses > 0 {
				return streak
			}
			streak.Wins++
		case models.SignalStatusRed:
			if streak.Wins > 0 {
				return streak
			}
			streak.Losses++
		}
	}
	return streak
}

// Compute derives a full snapshot from an arbitrary signal collection
func Compute(signals []*models.Signal) Snapshot {
	settled := SettledOnly(signals)
	return Snapshot{
		Assertivity: Assertivity(settled),
		ROI:         ROI(settled),
		Streak:      CurrentStreak(settled),
		Sample:      len(settled),
		Pending:     len(signals) - len(settled),
	}
}

// UnitsHistory replays the trailing windowSize settled signals in
// chronological order into a cumulative units series. The running balance
// starts at initialBalance plus the net units of every settled signal older
// than the window, so truncation never shifts the curve.
func UnitsHistory(signals []*models.Signal, windowSize int, initialBalance decimal.Decimal) []UnitsPoint {
	settled := sortedByTimeAsc(SettledOnly(signals))

	start := 0
	if windowSize > 0 && len(settled) > windowSize {
		start = len(settled) - windowSize
	}

	balance := initialBalance
	for _, s := range settled[:start] {
		balance = balance.Add(flatUnits(s))
	}

	points := make([]UnitsPoint, 0, len(settled)-start)
	for _, s := range settled[start:] {
		balance = balance.Add(flatUnits(s))
		points = append(points, UnitsPoint{Time: s.CreatedAt, Units: balance})
	}
	return points
}

// flatUnits is the chart profit convention: +0.95 per staked unit on green,
// -1 per staked unit on red.
func flatUnits(s *models.Signal) decimal.Decimal {
	stake := s.StakeUnits
	if stake.IsZero() {
		stake = decimal.NewFromInt(1)
	}

	switch s.Status {
	case models.SignalStatusGreen:
		return stake.Mul(winUnitFactor)
	case models.SignalStatusRed:
		return stake.Neg()
	}
	return decimal.Zero
}

func sortedByTimeDesc(signals []*models.Signal) []*models.Signal {
	sorted := append([]*models.Signal(nil), signals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

func sortedByTimeAsc(signals []*models.Signal) []*models.Signal {
	sorted := append([]*models.Signal(nil), signals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}
