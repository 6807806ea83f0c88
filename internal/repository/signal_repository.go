package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/database"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// PostgresSignalRepository implements SignalRepository for PostgreSQL
type PostgresSignalRepository struct {
	db *database.DB
}

// NewPostgresSignalRepository creates a new signal repository
func NewPostgresSignalRepository(db *database.DB) SignalRepository {
	return &PostgresSignalRepository{db: db}
}

const signalColumns = `id, league, home_team, away_team, market, odd, legs, status, stake_units, is_free, created_at, settled_at`

// Create inserts a new signal
func (r *PostgresSignalRepository) Create(ctx context.Context, signal *models.Signal) error {
	legs, err := json.Marshal(signal.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}

	query := `
		INSERT INTO signals (id, league, home_team, away_team, market, odd, legs, status, stake_units, is_free, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		signal.ID, signal.League, signal.HomeTeam, signal.AwayTeam, signal.Market,
		signal.Odd, legs, signal.Status, signal.StakeUnits, signal.IsFree, signal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create signal: %w", err)
	}

	return nil
}

// GetByID retrieves a signal by ID
func (r *PostgresSignalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE id = $1`

	signal, err := scanSignal(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}

	return signal, nil
}

// List retrieves all signals, most recent first
func (r *PostgresSignalRepository) List(ctx context.Context) ([]*models.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

// ListFree retrieves signals visible to non-paying users, most recent first
func (r *PostgresSignalRepository) ListFree(ctx context.Context) ([]*models.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE is_free ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

// UpdateStatus settles a pending signal. The WHERE clause guards the
// pending -> terminal transition at the database level as well.
func (r *PostgresSignalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SignalStatus) error {
	query := `
		UPDATE signals SET status = $2, settled_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update signal status: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		// Distinguish a missing signal from one already settled
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return models.ErrAlreadySettled
	}

	return nil
}

// Delete removes a signal
func (r *PostgresSignalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.GetPool().Exec(ctx, `DELETE FROM signals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete signal: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostgresSignalRepository) queryMany(ctx context.Context, query string) ([]*models.Signal, error) {
	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []*models.Signal
	for rows.Next() {
		signal, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		signals = append(signals, signal)
	}

	return signals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignal(row rowScanner) (*models.Signal, error) {
	signal := &models.Signal{}
	var legs []byte

	err := row.Scan(
		&signal.ID, &signal.League, &signal.HomeTeam, &signal.AwayTeam, &signal.Market,
		&signal.Odd, &legs, &signal.Status, &signal.StakeUnits, &signal.IsFree,
		&signal.CreatedAt, &signal.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	if len(legs) > 0 {
		if err := json.Unmarshal(legs, &signal.Legs); err != nil {
			return nil, fmt.Errorf("failed to decode legs: %w", err)
		}
	}

	return signal, nil
}
