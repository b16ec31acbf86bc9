// Package repomanager wires repository implementations to a storage
// backend and exposes the transactional seam used by services.
package repomanager

import (
	"context"

	"github.com/gramolapp/gramola/internal/server/repositories/transactions"
	"github.com/gramolapp/gramola/internal/server/repositories/users"
)

// Manager vends repositories bound to one storage backend.
type Manager interface {
	Users() users.Repository
	Transactions() transactions.Repository

	// InTransaction runs fn with a Manager whose repositories share a
	// single storage transaction: all writes inside fn are committed
	// together or not at all. The entity store itself guarantees no
	// cross-entity atomicity outside this seam.
	InTransaction(ctx context.Context, fn func(m Manager) error) error

	// RunMigrations brings the schema up to date. A no-op for backends
	// without a schema.
	RunMigrations(ctx context.Context) error

	Close() error
}
