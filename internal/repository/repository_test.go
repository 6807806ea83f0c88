package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

func newSignal(minutesAgo int, free bool) *models.Signal {
	return &models.Signal{
		ID:        uuid.New(),
		League:    "Brasileirao",
		HomeTeam:  "Flamengo",
		AwayTeam:  "Palmeiras",
		Market:    "Over 2.5",
		Odd:       decimal.RequireFromString("1.85"),
		Status:    models.SignalStatusPending,
		IsFree:    free,
		CreatedAt: time.Now().UTC().Add(-time.Duration(minutesAgo) * time.Minute),
	}
}

func TestMemorySignalRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySignalRepository()

	signal := newSignal(0, false)
	require.NoError(t, repo.Create(ctx, signal))

	// Duplicate IDs are rejected
	assert.ErrorIs(t, repo.Create(ctx, signal), models.ErrDuplicateKey)

	got, err := repo.GetByID(ctx, signal.ID)
	require.NoError(t, err)
	assert.Equal(t, signal.ID, got.ID)
	assert.True(t, got.Odd.Equal(signal.Odd))

	require.NoError(t, repo.Delete(ctx, signal.ID))
	_, err = repo.GetByID(ctx, signal.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, signal.ID), models.ErrNotFound)
}

func TestMemorySignalRepositoryListOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySignalRepository()

	oldest := newSignal(30, false)
	middle := newSignal(20, true)
	newest := newSignal(10, false)
	for _, s := range []*models.Signal{middle, newest, oldest} {
		require.NoError(t, repo.Create(ctx, s))
	}

	signals, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, signals, 3)
	assert.Equal(t, newest.ID, signals[0].ID)
	assert.Equal(t, middle.ID, signals[1].ID)
	assert.Equal(t, oldest.ID, signals[2].ID)

	free, err := repo.ListFree(ctx)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, middle.ID, free[0].ID)
}

func TestMemorySignalRepositoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySignalRepository()

	signal := newSignal(0, false)
	require.NoError(t, repo.Create(ctx, signal))

	require.NoError(t, repo.UpdateStatus(ctx, signal.ID, models.SignalStatusGreen))

	got, err := repo.GetByID(ctx, signal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SignalStatusGreen, got.Status)
	require.NotNil(t, got.SettledAt)

	// Terminal transitions cannot be repeated
	assert.ErrorIs(t, repo.UpdateStatus(ctx, signal.ID, models.SignalStatusRed), models.ErrAlreadySettled)

	// Unknown signal
	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), models.SignalStatusGreen), models.ErrNotFound)
}

func TestMemorySignalRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySignalRepository()

	signal := newSignal(0, false)
	require.NoError(t, repo.Create(ctx, signal))

	got, err := repo.GetByID(ctx, signal.ID)
	require.NoError(t, err)
	got.Status = models.SignalStatusRed

	again, err := repo.GetByID(ctx, signal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SignalStatusPending, again.Status, "mutating a returned signal must not affect the store")
}

func TestMemoryBankrollRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBankrollRepository()

	_, err := repo.Get(ctx, "user-1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	cfg := &models.BankrollConfig{
		UserID:          "user-1",
		BankrollInitial: decimal.NewFromInt(1000),
		RiskProfile:     models.RiskProfileModerado,
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, repo.Put(ctx, cfg))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RiskProfileModerado, got.RiskProfile)

	// Reconfigure replaces the record wholesale
	cfg.RiskProfile = models.RiskProfileAgressivo
	cfg.BankrollInitial = decimal.NewFromInt(3000)
	require.NoError(t, repo.Put(ctx, cfg))

	got, err = repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RiskProfileAgressivo, got.RiskProfile)

	unit, err := got.UnitValue()
	require.NoError(t, err)
	assert.True(t, unit.Equal(decimal.NewFromInt(100)))
}
