package transactions

import (
	"context"
	"sync"
	"time"

	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/server/models"
)

// InMemoryRepository keeps transactions in a mutex-guarded map. The claim
// in ClaimConfirmation is atomic under the same mutex, matching the
// postgres contract.
type InMemoryRepository struct {
	mu  sync.Mutex
	txs map[string]models.Transaction
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{txs: make(map[string]models.Transaction)}
}

func (r *InMemoryRepository) Create(ctx context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.txs[tx.ID] = *tx
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copy := tx
	return &copy, nil
}

func (r *InMemoryRepository) ClaimConfirmation(ctx context.Context, id, email, trackURI string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok {
		return common.ErrNotFound
	}
	if tx.ConfirmedAt != nil {
		return common.ErrConflict
	}

	if tx.Email == "" {
		tx.Email = email
	}
	if trackURI != "" {
		tx.TrackURI = trackURI
	}
	tx.ConfirmedAt = &at

	r.txs[id] = tx
	return nil
}
