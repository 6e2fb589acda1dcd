package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rgtools/partner-admin/internal/api/metrics"
	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

const kindPartner = "partner"

// PartnerHandler serves the admin partner endpoints.
type PartnerHandler struct {
	service ports.PartnerService
}

func NewPartnerHandler(service ports.PartnerService) *PartnerHandler {
	return &PartnerHandler{service: service}
}

type createPartnerRequest struct {
	PartnerName string `json:"partnername" validate:"required,dnslabel"`
	Username    string `json:"username"    validate:"required"`
	Email       string `json:"email"       validate:"required"`
	Password    string `json:"password"    validate:"required"`
	Whitelabel  bool   `json:"whitelabel"`
	Color       string `json:"color"`
}

type createPartnerResponse struct {
	Message   string `json:"message"`
	Subdomain string `json:"subdomain"`
}

type listPartnersResponse struct {
	Partners []json.RawMessage `json:"partners"`
}

type dnsValidationResponse struct {
	Valid     bool     `json:"valid"`
	Addresses []string `json:"addresses,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Create provisions a partner subdomain and registers the partner user.
//
// @Summary      Create partner
// @Tags         partners
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPartnerRequest  true  "Partner details"
// @Success      200   {object}  createPartnerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /admin/api/partners [post]
func (h *PartnerHandler) Create(c echo.Context) error {
	var req createPartnerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		if isMalformed(err) {
			return fail(c, http.StatusBadRequest, "Invalid partner name", err)
		}
		return fail(c, http.StatusBadRequest, "Missing required fields", err)
	}

	subdomain, err := h.service.Create(c.Request().Context(), ports.CreatePartnerInput{
		PartnerName: req.PartnerName,
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Whitelabel:  req.Whitelabel,
		Color:       req.Color,
	})
	metrics.ObserveRecordOp(kindPartner, "create", err)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return fail(c, http.StatusBadRequest, "Missing required fields", nil)
		case errors.Is(err, domain.ErrInvalidPartnerName):
			return fail(c, http.StatusBadRequest, "Invalid partner name", nil)
		case errors.Is(err, domain.ErrUserExists):
			return fail(c, http.StatusConflict, "User already exists", nil)
		case errors.Is(err, domain.ErrPartnerExists):
			return fail(c, http.StatusConflict, "Partner already exists", nil)
		}
		return fail(c, http.StatusInternalServerError, "Failed to create partner", err)
	}

	return c.JSON(http.StatusOK, createPartnerResponse{Message: "Partner created", Subdomain: subdomain})
}

// List returns every stored partner config.
//
// @Summary      List partners
// @Tags         partners
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listPartnersResponse
// @Failure      500  {object}  errorResponse
// @Router       /admin/api/partners [get]
func (h *PartnerHandler) List(c echo.Context) error {
	partners, err := h.service.List(c.Request().Context())
	metrics.ObserveRecordOp(kindPartner, "list", err)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch partners", err)
	}
	return c.JSON(http.StatusOK, listPartnersResponse{Partners: nonNil(partners)})
}

// ValidateDNS checks that the partner's subdomain resolves.
//
// @Summary      Validate partner DNS
// @Tags         partners
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Partner id"
// @Success      200  {object}  dnsValidationResponse
// @Failure      500  {object}  dnsValidationResponse
// @Router       /admin/api/partners/{id}/validate-dns [post]
func (h *PartnerHandler) ValidateDNS(c echo.Context) error {
	result, err := h.service.ValidateDNS(c.Request().Context(), c.Param("id"))
	metrics.ObserveRecordOp(kindPartner, "validate_dns", err)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dnsValidationResponse{Valid: false, Error: err.Error()})
	}

	return c.JSON(http.StatusOK, dnsValidationResponse{
		Valid:     result.Valid,
		Addresses: result.Addresses,
		Error:     result.Error,
	})
}

func nonNil(records []json.RawMessage) []json.RawMessage {
	if records == nil {
		return []json.RawMessage{}
	}
	return records
}
