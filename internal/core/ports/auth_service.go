package ports

import (
	"context"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
}

// TokenVerifier decodes bearer tokens. Any failure is domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	Role  string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
