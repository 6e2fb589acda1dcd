package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

type tokenClaims struct {
	domain.Identity
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs identity with an expiry of ttl from now.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify decodes a token. Malformed, tampered and expired tokens all yield
// domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*domain.Identity, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	identity := claims.Identity
	return &identity, nil
}
