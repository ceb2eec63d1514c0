package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/imoveisai/leadhub/internal/transport/http/middleware"
)

// GetSession returns the lead's conversation session (current owner).
// GET /v1/leads/:lead_id/session
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetOwner(c.Request().Context(), c.Param("lead_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// TakeOver transfers the lead's conversation to the calling seller.
// POST /v1/leads/:lead_id/take-over
func (h *Handler) TakeOver(c echo.Context) error {
	session, err := h.service.TakeOver(c.Request().Context(), c.Param("lead_id"),
		authmw.SellerID(c), authmw.SellerName(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// ReturnToAI hands the lead's conversation back to the assistant.
// POST /v1/leads/:lead_id/return-to-ai
func (h *Handler) ReturnToAI(c echo.Context) error {
	session, err := h.service.ReturnToAI(c.Request().Context(), c.Param("lead_id"), authmw.SellerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}
