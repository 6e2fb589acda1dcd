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

const kindDomain = "domain"

// DomainHandler serves the admin custom domain endpoints.
type DomainHandler struct {
	service ports.DomainService
}

func NewDomainHandler(service ports.DomainService) *DomainHandler {
	return &DomainHandler{service: service}
}

type createDomainRequest struct {
	DomainName     string `json:"domainName"     validate:"required"`
	PartnerName    string `json:"partnerName"    validate:"required"`
	CustomHostname string `json:"customHostname"`
}

type domainResponse struct {
	Domain any `json:"domain"`
}

type listDomainsResponse struct {
	Domains []json.RawMessage `json:"domains"`
}

// Create provisions <domainName>.<suffix> and stores the domain record.
//
// @Summary      Create domain
// @Tags         domains
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDomainRequest  true  "Domain"
// @Success      200   {object}  domainResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /admin/api/domains [post]
func (h *DomainHandler) Create(c echo.Context) error {
	var req createDomainRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Missing required fields", err)
	}

	record, err := h.service.Create(c.Request().Context(), ports.CreateDomainInput{
		DomainName:     req.DomainName,
		PartnerName:    req.PartnerName,
		CustomHostname: req.CustomHostname,
	})
	metrics.ObserveRecordOp(kindDomain, "create", err)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return fail(c, http.StatusBadRequest, "Missing required fields", nil)
		}
		return fail(c, http.StatusInternalServerError, "Failed to create domain", err)
	}

	return c.JSON(http.StatusOK, domainResponse{Domain: record})
}

// List returns the stored domain listing.
//
// @Summary      List domains
// @Tags         domains
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listDomainsResponse
// @Failure      500  {object}  errorResponse
// @Router       /admin/api/domains [get]
func (h *DomainHandler) List(c echo.Context) error {
	domains, err := h.service.List(c.Request().Context())
	metrics.ObserveRecordOp(kindDomain, "list", err)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch domains", err)
	}
	return c.JSON(http.StatusOK, listDomainsResponse{Domains: nonNil(domains)})
}

// Update merges the request body into a stored domain record.
//
// @Summary      Update domain
// @Tags         domains
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Domain id"
// @Param        body  body      map[string]any  true  "Fields to overwrite"
// @Success      200   {object}  domainResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/domains/{id} [put]
func (h *DomainHandler) Update(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	record, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	metrics.ObserveRecordOp(kindDomain, "update", err)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Domain not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "Failed to update domain", err)
	}

	return c.JSON(http.StatusOK, domainResponse{Domain: record})
}

// Delete removes the edge hostname and soft-deletes the domain record.
//
// @Summary      Delete domain
// @Tags         domains
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Domain id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/domains/{id} [delete]
func (h *DomainHandler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), c.Param("id"))
	metrics.ObserveRecordOp(kindDomain, "delete", err)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Domain not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "Failed to delete domain", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Domain deleted"})
}
