package handler

import (
	"fmt"
	"net/http"
	"time"

	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const heartbeatInterval = 30 * time.Second

// StreamEvents godoc
// @Summary      Stream catalog changes
// @Description  Server-sent events announcing added, updated and removed games and tags. Clients re-read the affected collection.
// @Tags         events
// @Produce      text/event-stream
// @Success      200  {string}  string  "event stream"
// @Router       /events [get]
func (h *Handler) StreamEvents(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respondError(c, http.StatusInternalServerError, codeInternal, "streaming not supported")
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := make(hub.Client, 16)
	h.events.Subscribe(catalog.EventsTopic, client)
	defer h.events.Unsubscribe(catalog.EventsTopic, client)

	subscriberID := uuid.NewString()
	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"subscriber_id\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case message, ok := <-client:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: catalog\ndata: %s\n\n", message)
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			flusher.Flush()

		case <-c.Request.Context().Done():
			// Client disconnected
			return
		}
	}
}
