package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/database"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// PostgresBankrollRepository implements BankrollRepository for PostgreSQL
type PostgresBankrollRepository struct {
	db *database.DB
}

// NewPostgresBankrollRepository creates a new bankroll repository
func NewPostgresBankrollRepository(db *database.DB) BankrollRepository {
	return &PostgresBankrollRepository{db: db}
}

// Get retrieves a user's bankroll configuration
func (r *PostgresBankrollRepository) Get(ctx context.Context, userID string) (*models.BankrollConfig, error) {
	query := `
		SELECT user_id, bankroll_initial, risk_profile, updated_at
		FROM bankroll_configs WHERE user_id = $1
	`

	cfg := &models.BankrollConfig{}
	err := r.db.GetPool().QueryRow(ctx, query, userID).Scan(
		&cfg.UserID, &cfg.BankrollInitial, &cfg.RiskProfile, &cfg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bankroll config: %w", err)
	}

	return cfg, nil
}

// Put stores a user's bankroll configuration wholesale. The config is one
// atomic record; there are no partial updates.
func (r *PostgresBankrollRepository) Put(ctx context.Context, cfg *models.BankrollConfig) error {
	query := `
		INSERT INTO bankroll_configs (user_id, bankroll_initial, risk_profile, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			bankroll_initial = EXCLUDED.bankroll_initial,
			risk_profile = EXCLUDED.risk_profile,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		cfg.UserID, cfg.BankrollInitial, cfg.RiskProfile, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put bankroll config: %w", err)
	}

	return nil
}
