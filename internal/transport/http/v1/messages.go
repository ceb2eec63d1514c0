package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/imoveisai/leadhub/internal/transport/http/middleware"
)

// GetMessages retrieves a lead's message history.
// GET /v1/leads/:lead_id/messages
func (h *Handler) GetMessages(c echo.Context) error {
	leadID := c.Param("lead_id")
	limit := pageLimit(c, 50, 200)
	before := c.QueryParam("before")

	messages, err := h.service.GetMessages(c.Request().Context(), leadID, limit, before)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"has_more": len(messages) == limit, // Approximate
	})
}

// SendMessage sends an outbound message to the lead. Only valid while the
// calling seller holds the conversation.
// POST /v1/leads/:lead_id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	msg, err := h.service.SendMessage(c.Request().Context(), c.Param("lead_id"),
		authmw.SellerID(c), authmw.SellerName(c), req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// Typing broadcasts the calling seller's typing signal.
// POST /v1/leads/:lead_id/typing
func (h *Handler) Typing(c echo.Context) error {
	var req struct {
		IsTyping bool `json:"is_typing"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	err := h.service.SellerTyping(c.Request().Context(), c.Param("lead_id"),
		authmw.SellerID(c), authmw.SellerName(c), req.IsTyping)
	if err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
