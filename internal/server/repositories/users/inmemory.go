package users

import (
	"context"
	"sync"

	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/server/models"
)

// InMemoryRepository keeps users in a mutex-guarded map. Used by tests
// and the "inmemory" dev mode; implements the same contract as the
// postgres repository, individual writes serialized.
type InMemoryRepository struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return common.ErrConflict
	}
	r.users[user.Email] = *user
	return nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	copy := u
	return &copy, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; !ok {
		return common.ErrNotFound
	}
	r.users[user.Email] = *user
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[email]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, email)
	return nil
}
