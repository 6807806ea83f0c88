package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/config"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/metrics"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/repository"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/stats"
)

// StatsView is the snapshot the API serves. Fallback reports whether the
// percentages are configured display baselines rather than computed values.
type StatsView struct {
	stats.Snapshot
	Fallback bool `json:"fallback"`
}

// StatsService derives aggregate metrics from the signal collection. Nothing
// is persisted; every read recomputes from the repository.
type StatsService struct {
	repo           repository.SignalRepository
	windowSize     int
	initialBalance decimal.Decimal
	fallback       stats.Snapshot
	logger         *logrus.Entry
}

// NewStatsService creates a stats service from feed configuration
func NewStatsService(repo repository.SignalRepository, cfg config.FeedConfig, logger *logrus.Entry) *StatsService {
	return &StatsService{
		repo:           repo,
		windowSize:     cfg.UnitsWindowSize,
		initialBalance: decimal.NewFromFloat(cfg.InitialUnitsBalance),
		fallback: stats.Snapshot{
			Assertivity: cfg.FallbackAssertivity,
			ROI:         cfg.FallbackROI,
		},
		logger: logger,
	}
}

// Snapshot computes the current dashboard metrics. With no settled signals
// the configured fallback baselines are returned and flagged as such.
func (s *StatsService) Snapshot(ctx context.Context) (*StatsView, error) {
	signals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load signals for stats: %w", err)
	}

	snapshot := stats.Compute(signals)
	if snapshot.Sample == 0 {
		view := &StatsView{Snapshot: s.fallback, Fallback: true}
		view.Pending = snapshot.Pending
		return view, nil
	}
	return &StatsView{Snapshot: snapshot}, nil
}

// UnitsHistory computes the windowed cumulative units series
func (s *StatsService) UnitsHistory(ctx context.Context) ([]stats.UnitsPoint, error) {
	signals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load signals for units history: %w", err)
	}
	return stats.UnitsHistory(signals, s.windowSize, s.initialBalance), nil
}

// Refresh recomputes all aggregates and pushes them to the Prometheus
// gauges. The feed poller calls this on its interval.
func (s *StatsService) Refresh(ctx context.Context) error {
	start := time.Now()

	signals, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("stats refresh failed: %w", err)
	}

	snapshot := stats.Compute(signals)
	metrics.UpdateAggregates(snapshot.Assertivity, snapshot.ROI, snapshot.Pending)

	history := stats.UnitsHistory(signals, s.windowSize, s.initialBalance)
	if len(history) > 0 {
		balance, _ := history[len(history)-1].Units.Float64()
		metrics.UpdateUnitsBalance(balance)
	}

	metrics.RecordStatsRecompute(time.Since(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"sample":  snapshot.Sample,
		"pending": snapshot.Pending,
	}).Debug("Stats refreshed")

	return nil
}
