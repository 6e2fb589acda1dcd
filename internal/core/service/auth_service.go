package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

// AuthService implements login against the credential store.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login checks the password of the user registered under email and issues a
// token. Unknown users and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}
	return &ports.LoginResult{Token: token, Role: user.Role}, nil
}

// HashPassword returns the bcrypt hash stored for a user's password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// SeedAdmin registers the bootstrap admin account unless a user with the same
// id, username or email is already stored. It reports whether a user was added.
func SeedAdmin(ctx context.Context, users ports.UserRepository, id, username, email, password string) (bool, error) {
	if id == "" || email == "" || password == "" {
		return false, domain.ErrValidation
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	err = users.Add(ctx, &domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}
