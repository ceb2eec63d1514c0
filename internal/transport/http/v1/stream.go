package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StreamLead serves the per-lead SSE stream. The subscription lives until
// the client disconnects; events are never replayed after teardown.
// GET /v1/leads/:lead_id/stream
func (h *Handler) StreamLead(c echo.Context) error {
	leadID := c.Param("lead_id")

	// 404 before committing to the stream so clients can render a
	// not-found state instead of a silent dead connection.
	if _, err := h.service.GetLead(c.Request().Context(), leadID); err != nil {
		return writeError(c, err)
	}

	sub := h.service.Broker().Subscribe(leadID)
	defer sub.Close()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			data := "{}"
			if ev.Data != nil {
				data = string(ev.Data)
			}
			if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
