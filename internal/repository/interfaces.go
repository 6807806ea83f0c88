package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// SignalRepository defines the interface for signal data access
type SignalRepository interface {
	Create(ctx context.Context, signal *models.Signal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error)
	List(ctx context.Context) ([]*models.Signal, error)
	ListFree(ctx context.Context) ([]*models.Signal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SignalStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BankrollRepository defines the interface for bankroll configuration access
type BankrollRepository interface {
	Get(ctx context.Context, userID string) (*models.BankrollConfig, error)
	Put(ctx context.Context, cfg *models.BankrollConfig) error
}
