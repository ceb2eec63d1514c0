package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/imoveisai/leadhub/internal/transport/http/middleware"
)

func (h *Handler) GetNotes(c echo.Context) error {
	notes, err := h.service.GetNotes(c.Request().Context(), c.Param("lead_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notes": notes})
}

func (h *Handler) AddNote(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	note, err := h.service.AddNote(c.Request().Context(), c.Param("lead_id"), authmw.SellerID(c), req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

func (h *Handler) DeleteNote(c echo.Context) error {
	if err := h.service.DeleteNote(c.Request().Context(), c.Param("note_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetTags(c echo.Context) error {
	tags, err := h.service.GetTags(c.Request().Context(), c.Param("lead_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tags": tags})
}

func (h *Handler) AddTag(c echo.Context) error {
	var req struct {
		Label string `json:"label"`
	}
	if err := c.Bind(&req); err != nil || req.Label == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "label is required"})
	}

	tag, err := h.service.AddTag(c.Request().Context(), c.Param("lead_id"), req.Label)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *Handler) DeleteTag(c echo.Context) error {
	if err := h.service.DeleteTag(c.Request().Context(), c.Param("tag_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetAttachments(c echo.Context) error {
	atts, err := h.service.GetAttachments(c.Request().Context(), c.Param("lead_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"attachments": atts})
}

func (h *Handler) AddAttachment(c echo.Context) error {
	var req struct {
		FileName string `json:"file_name"`
		URL      string `json:"url"`
	}
	if err := c.Bind(&req); err != nil || req.FileName == "" || req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file_name and url are required"})
	}

	att, err := h.service.AddAttachment(c.Request().Context(), c.Param("lead_id"),
		req.FileName, req.URL, authmw.SellerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, att)
}

func (h *Handler) DeleteAttachment(c echo.Context) error {
	if err := h.service.DeleteAttachment(c.Request().Context(), c.Param("attachment_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetTemplates(c echo.Context) error {
	tpls, err := h.service.GetTemplates(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"templates": tpls})
}

func (h *Handler) AddTemplate(c echo.Context) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || req.Title == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title and content are required"})
	}

	tpl, err := h.service.AddTemplate(c.Request().Context(), req.Title, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, tpl)
}

func (h *Handler) DeleteTemplate(c echo.Context) error {
	if err := h.service.DeleteTemplate(c.Request().Context(), c.Param("template_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
