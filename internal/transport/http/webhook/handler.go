// Package webhook provides the provider-facing callbacks: inbound lead
// messages, delivery receipts and typing signals pushed by the messaging
// provider or the AI assistant.
package webhook

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imoveisai/leadhub/internal/domain"
	"github.com/imoveisai/leadhub/internal/service"
)

// Handler handles provider callbacks.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new webhook handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers webhook routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/webhook", auth)
	g.POST("/messages", h.InboundMessage)
	g.POST("/receipts", h.DeliveryReceipt)
	g.POST("/typing", h.Typing)
}

// InboundMessage ingests a message from the lead. The lead's conversation
// session is created implicitly, AI-owned, on the first message.
// POST /webhook/messages
func (h *Handler) InboundMessage(c echo.Context) error {
	var req struct {
		LeadID     string `json:"lead_id"`
		SenderName string `json:"sender_name"`
		Content    string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || req.LeadID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "lead_id is required"})
	}

	msg, err := h.service.ReceiveInbound(c.Request().Context(), req.LeadID, req.SenderName, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, msg)
}

// DeliveryReceipt applies a provider delivery status to one message.
// Regressions are acknowledged and ignored; status only moves forward.
// POST /webhook/receipts
func (h *Handler) DeliveryReceipt(c echo.Context) error {
	var req struct {
		LeadID    string               `json:"lead_id"`
		MessageID string               `json:"message_id"`
		Status    domain.MessageStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.LeadID == "" || req.MessageID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "lead_id and message_id are required"})
	}
	if !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown status"})
	}

	err := h.service.ApplyMessageStatus(c.Request().Context(), req.LeadID, req.MessageID, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Typing relays a typing signal from the lead or the AI assistant.
// POST /webhook/typing
func (h *Handler) Typing(c echo.Context) error {
	var req struct {
		LeadID     string `json:"lead_id"`
		SenderName string `json:"sender_name"`
		IsTyping   bool   `json:"is_typing"`
	}
	if err := c.Bind(&req); err != nil || req.LeadID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "lead_id is required"})
	}

	err := h.service.NotifyTyping(c.Request().Context(), req.LeadID, req.SenderName, req.IsTyping)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
