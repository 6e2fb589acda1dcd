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

const kindToplist = "toplist"

// ToplistHandler serves a partner's own toplists. The partner id always comes
// from the caller's token.
type ToplistHandler struct {
	service ports.ToplistService
}

func NewToplistHandler(service ports.ToplistService) *ToplistHandler {
	return &ToplistHandler{service: service}
}

type createToplistRequest struct {
	Type        string `json:"type"        validate:"required"`
	Departure   string `json:"departure"   validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Layout      string `json:"layout"`
	Color       string `json:"color"`
	Columns     *int   `json:"columns"`
}

type toplistResponse struct {
	Message string `json:"message"`
	Toplist any    `json:"toplist"`
}

type listToplistsResponse struct {
	Toplists []json.RawMessage `json:"toplists"`
}

// Create stores a new toplist for the calling partner.
//
// @Summary      Create toplist
// @Tags         toplists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createToplistRequest  true  "Toplist"
// @Success      200   {object}  toplistResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /partner/toplists [post]
func (h *ToplistHandler) Create(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}

	var req createToplistRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Missing required fields", err)
	}

	toplist, err := h.service.Create(c.Request().Context(), ports.CreateToplistInput{
		PartnerID:   identity.ID,
		Type:        req.Type,
		Departure:   req.Departure,
		Destination: req.Destination,
		Layout:      req.Layout,
		Color:       req.Color,
		Columns:     req.Columns,
	})
	metrics.ObserveRecordOp(kindToplist, "create", err)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return fail(c, http.StatusBadRequest, "Missing required fields", nil)
		}
		return fail(c, http.StatusInternalServerError, "Failed to create toplist", err)
	}

	return c.JSON(http.StatusOK, toplistResponse{Message: "Toplist created", Toplist: toplist})
}

// List returns the calling partner's live toplists.
//
// @Summary      List toplists
// @Tags         toplists
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listToplistsResponse
// @Failure      500  {object}  errorResponse
// @Router       /partner/toplists [get]
func (h *ToplistHandler) List(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}

	toplists, err := h.service.List(c.Request().Context(), identity.ID)
	metrics.ObserveRecordOp(kindToplist, "list", err)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch toplists", err)
	}
	return c.JSON(http.StatusOK, listToplistsResponse{Toplists: nonNil(toplists)})
}

// Update merges the request body into a stored toplist.
//
// @Summary      Update toplist
// @Tags         toplists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Toplist id"
// @Param        body  body      map[string]any  true  "Fields to overwrite"
// @Success      200   {object}  toplistResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /partner/toplists/{id} [put]
func (h *ToplistHandler) Update(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}

	patch, err := bindPatch(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	toplist, err := h.service.Update(c.Request().Context(), identity.ID, c.Param("id"), patch)
	metrics.ObserveRecordOp(kindToplist, "update", err)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Toplist not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "Failed to update toplist", err)
	}

	return c.JSON(http.StatusOK, toplistResponse{Message: "Toplist updated", Toplist: toplist})
}

// Delete soft-deletes a toplist.
//
// @Summary      Delete toplist
// @Tags         toplists
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Toplist id"
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  errorResponse
// @Router       /partner/toplists/{id} [delete]
func (h *ToplistHandler) Delete(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), identity.ID, c.Param("id"))
	metrics.ObserveRecordOp(kindToplist, "delete", err)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to delete toplist", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Toplist deleted"})
}

// bindPatch decodes the JSON body only. Path parameters must not leak into
// the merged record.
func bindPatch(c echo.Context) (map[string]any, error) {
	patch := map[string]any{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &patch); err != nil {
		return nil, err
	}
	return patch, nil
}
