// Package v1 provides the seller-facing HTTP handlers.
package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/imoveisai/leadhub/internal/domain"
	"github.com/imoveisai/leadhub/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the seller-facing routes with the echo server.
// Every /v1 route requires a seller bearer token.
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/v1", auth)

	// Leads
	g.GET("/leads", h.ListLeads)
	g.POST("/leads", h.CreateLead)
	g.GET("/leads/:lead_id", h.GetLead)
	g.PATCH("/leads/:lead_id", h.PatchLead)
	g.GET("/leads/:lead_id/events", h.GetLeadEvents)

	// Conversation
	g.GET("/leads/:lead_id/messages", h.GetMessages)
	g.POST("/leads/:lead_id/messages", h.SendMessage)
	g.GET("/leads/:lead_id/session", h.GetSession)
	g.POST("/leads/:lead_id/take-over", h.TakeOver)
	g.POST("/leads/:lead_id/return-to-ai", h.ReturnToAI)
	g.POST("/leads/:lead_id/typing", h.Typing)
	g.GET("/leads/:lead_id/stream", h.StreamLead)

	// Notes, tags, attachments, templates
	g.GET("/leads/:lead_id/notes", h.GetNotes)
	g.POST("/leads/:lead_id/notes", h.AddNote)
	g.DELETE("/leads/:lead_id/notes/:note_id", h.DeleteNote)
	g.GET("/leads/:lead_id/tags", h.GetTags)
	g.POST("/leads/:lead_id/tags", h.AddTag)
	g.DELETE("/leads/:lead_id/tags/:tag_id", h.DeleteTag)
	g.GET("/leads/:lead_id/attachments", h.GetAttachments)
	g.POST("/leads/:lead_id/attachments", h.AddAttachment)
	g.DELETE("/leads/:lead_id/attachments/:attachment_id", h.DeleteAttachment)
	g.GET("/templates", h.GetTemplates)
	g.POST("/templates", h.AddTemplate)
	g.DELETE("/templates/:template_id", h.DeleteTemplate)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// pageLimit parses the limit query param. Malformed and non-positive
// values fall back to def; anything above max is capped, so a crafted
// limit can never reach the store as an unbounded query.
func pageLimit(c echo.Context, def, max int) int {
	l := c.QueryParam("limit")
	if l == "" {
		return def
	}
	val, err := strconv.Atoi(l)
	if err != nil || val <= 0 {
		return def
	}
	if val > max {
		return max
	}
	return val
}

// writeError maps domain errors to HTTP status codes. All failures surface
// as JSON bodies the client renders as recoverable notices.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyOwned):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyMessage):
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
