package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/rgtools/partner-admin/internal/api/metrics"
	"github.com/rgtools/partner-admin/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// fail renders msg with the cause as details. Upstream failures are counted
// per provider.
func fail(c echo.Context, status int, msg string, cause error) error {
	resp := errorResponse{Error: msg}
	if cause != nil {
		resp.Details = cause.Error()

		var upstream *domain.UpstreamError
		if errors.As(cause, &upstream) {
			metrics.UpstreamErrorsTotal.WithLabelValues(upstream.Provider).Inc()
		}
	}
	return c.JSON(status, resp)
}
