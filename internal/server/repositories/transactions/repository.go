package transactions

import (
	"context"
	"time"

	"github.com/gramolapp/gramola/internal/server/models"
)

// Repository is the transaction ledger. Transactions are created on
// prepay and never deleted; the only mutation is the confirmation claim.
type Repository interface {
	Create(ctx context.Context, tx *models.Transaction) error

	// GetByID returns the transaction or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Transaction, error)

	// ClaimConfirmation is an atomic compare-and-swap on the confirmation
	// flag. It attaches the owner email (first-writer-wins: only if no
	// email is attached yet), attaches trackURI if non-blank, and sets the
	// confirmation timestamp — all only if the transaction is not yet
	// confirmed. A second claim returns common.ErrConflict; a missing
	// transaction returns common.ErrNotFound. No partial mutation occurs
	// on failure.
	ClaimConfirmation(ctx context.Context, id, email, trackURI string, at time.Time) error
}
