// Package memory holds the process-local credential store.
package memory

import (
	"context"
	"sync"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

// UserRepository keeps users in insertion order for the lifetime of the
// process.
type UserRepository struct {
	mu    sync.RWMutex
	users []domain.User
}

var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository returns a repository seeded with the given users.
func NewUserRepository(seed ...domain.User) *UserRepository {
	users := make([]domain.User, len(seed))
	copy(users, seed)
	return &UserRepository{users: users}
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if match(&r.users[i]) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Add appends user unless its id, username or email is already taken.
func (r *UserRepository) Add(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == user.ID || u.Username == user.Username || u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users = append(r.users, *user)
	return nil
}
