package repomanager

import (
	"context"
	"sync"

	"github.com/gramolapp/gramola/internal/server/repositories/transactions"
	"github.com/gramolapp/gramola/internal/server/repositories/users"
)

// InMemoryManager backs the repositories with in-process maps. Used by
// service tests and the "inmemory" dev mode. InTransaction serializes
// the whole function under one mutex; there is no rollback, matching
// the entity store's own "no cross-entity transactions" contract as the
// weakest backend.
type InMemoryManager struct {
	mu  sync.Mutex
	u   *users.InMemoryRepository
	txs *transactions.InMemoryRepository
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		u:   users.NewInMemoryRepository(),
		txs: transactions.NewInMemoryRepository(),
	}
}

func (m *InMemoryManager) Users() users.Repository {
	return m.u
}

func (m *InMemoryManager) Transactions() transactions.Repository {
	return m.txs
}

func (m *InMemoryManager) InTransaction(ctx context.Context, fn func(tm Manager) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

func (m *InMemoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryManager) Close() error { return nil }
