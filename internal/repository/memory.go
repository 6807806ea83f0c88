package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// MemorySignalRepository is an in-memory SignalRepository used in tests and
// local runs without a database. It is injected explicitly at construction,
// never selected through ambient global state.
type MemorySignalRepository struct {
	mu      sync.RWMutex
	signals map[uuid.UUID]*models.Signal
}

// NewMemorySignalRepository creates an empty in-memory signal repository
func NewMemorySignalRepository() *MemorySignalRepository {
	return &MemorySignalRepository{signals: make(map[uuid.UUID]*models.Signal)}
}

// Create stores a copy of the signal
func (r *MemorySignalRepository) Create(ctx context.Context, signal *models.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.signals[signal.ID]; exists {
		return models.ErrDuplicateKey
	}

	clone := *signal
	r.signals[signal.ID] = &clone
	return nil
}

// GetByID retrieves a signal by ID
func (r *MemorySignalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	signal, ok := r.signals[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	clone := *signal
	return &clone, nil
}

// List returns all signals, most recent first
func (r *MemorySignalRepository) List(ctx context.Context) ([]*models.Signal, error) {
	return r.list(func(*models.Signal) bool { return true }), nil
}

// ListFree returns free signals, most recent first
func (r *MemorySignalRepository) ListFree(ctx context.Context) ([]*models.Signal, error) {
	return r.list(func(s *models.Signal) bool { return s.IsFree }), nil
}

// UpdateStatus settles a pending signal
func (r *MemorySignalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SignalStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	signal, ok := r.signals[id]
	if !ok {
		return models.ErrNotFound
	}
	if signal.Status.IsSettled() {
		return models.ErrAlreadySettled
	}

	now := time.Now().UTC()
	signal.Status = status
	signal.SettledAt = &now
	return nil
}

// Delete removes a signal
func (r *MemorySignalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.signals[id]; !ok {
		return models.ErrNotFound
	}

	delete(r.signals, id)
	return nil
}

func (r *MemorySignalRepository) list(keep func(*models.Signal) bool) []*models.Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	signals := make([]*models.Signal, 0, len(r.signals))
	for _, s := range r.signals {
		if keep(s) {
			clone := *s
			signals = append(signals, &clone)
		}
	}

	sort.Slice(signals, func(i, j int) bool {
		return signals[i].CreatedAt.After(signals[j].CreatedAt)
	})
	return signals
}

// MemoryBankrollRepository is an in-memory BankrollRepository for tests
type MemoryBankrollRepository struct {
	mu      sync.RWMutex
	configs map[string]*models.BankrollConfig
}

// NewMemoryBankrollRepository creates an empty in-memory bankroll repository
func NewMemoryBankrollRepository() *MemoryBankrollRepository {
	return &MemoryBankrollRepository{configs: make(map[string]*models.BankrollConfig)}
}

// Get retrieves a user's bankroll configuration
func (r *MemoryBankrollRepository) Get(ctx context.Context, userID string) (*models.BankrollConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[userID]
	if !ok {
		return nil, models.ErrNotFound
	}

	clone := *cfg
	return &clone, nil
}

// Put stores a user's bankroll configuration wholesale
func (r *MemoryBankrollRepository) Put(ctx context.Context, cfg *models.BankrollConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *cfg
	r.configs[cfg.UserID] = &clone
	return nil
}
