package v1

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imoveisai/leadhub/internal/domain"
	authmw "github.com/imoveisai/leadhub/internal/transport/http/middleware"
)

// ListLeads returns recently updated leads.
// GET /v1/leads
func (h *Handler) ListLeads(c echo.Context) error {
	limit := pageLimit(c, 50, 200)

	leads, err := h.service.ListLeads(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"leads": leads})
}

// CreateLead registers a new lead.
// POST /v1/leads
func (h *Handler) CreateLead(c echo.Context) error {
	var req struct {
		Name       string          `json:"name"`
		Phone      string          `json:"phone"`
		CustomData json.RawMessage `json:"custom_data"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	lead, err := h.service.CreateLead(c.Request().Context(), req.Name, req.Phone, req.CustomData)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, lead)
}

// GetLead returns one lead.
// GET /v1/leads/:lead_id
func (h *Handler) GetLead(c echo.Context) error {
	lead, err := h.service.GetLead(c.Request().Context(), c.Param("lead_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// PatchLead applies a partial update to a lead.
// PATCH /v1/leads/:lead_id
func (h *Handler) PatchLead(c echo.Context) error {
	var patch domain.LeadPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	lead, err := h.service.PatchLead(c.Request().Context(), c.Param("lead_id"), patch, authmw.SellerName(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// GetLeadEvents returns the lead's field-change history.
// GET /v1/leads/:lead_id/events
func (h *Handler) GetLeadEvents(c echo.Context) error {
	limit := pageLimit(c, 100, 500)

	events, err := h.service.GetLeadEvents(c.Request().Context(), c.Param("lead_id"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": events})
}
