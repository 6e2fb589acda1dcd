package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rgtools/partner-admin/internal/core/ports"
)

// RBAC enforces role-based access control.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := Identity(c)
			if identity == nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
			}
			if _, ok := allowed[identity.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
			}
			return next(c)
		}
	}
}

// Require authenticates the request and, when roles are given, checks the
// caller holds one of them.
func Require(verifier ports.TokenVerifier, roles ...string) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{Auth(verifier)}
	if len(roles) > 0 {
		chain = append(chain, RBAC(roles...))
	}
	return chain
}
