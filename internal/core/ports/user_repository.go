package ports

import (
	"context"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

// UserRepository is the credential store. Lookups of an unknown user return
// domain.ErrUserNotFound; Add returns domain.ErrUserExists on a duplicate
// id, username or email.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Add(ctx context.Context, user *domain.User) error
}
