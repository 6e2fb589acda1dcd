package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rgtools/partner-admin/internal/api/middleware"
	"github.com/rgtools/partner-admin/internal/core/domain"
)

// caller extracts the identity injected by the Auth middleware. Its absence
// means the route was mounted without the guard; reject with 401.
func caller(c echo.Context) (*domain.Identity, error) {
	identity := middleware.Identity(c)
	if identity == nil || identity.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing or invalid token")
	}
	return identity, nil
}
