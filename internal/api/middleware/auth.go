package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

// IdentityKey is the echo context key holding the caller's *domain.Identity.
const IdentityKey = "user"

const bearerPrefix = "Bearer "

// Auth validates the bearer token and injects the caller identity into context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing or invalid token"})
			}

			identity, err := verifier.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// Identity returns the identity stored by Auth, or nil when the request was
// not authenticated.
func Identity(c echo.Context) *domain.Identity {
	identity, _ := c.Get(IdentityKey).(*domain.Identity)
	return identity
}
