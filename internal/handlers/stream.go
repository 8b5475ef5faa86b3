package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/firezonehub/backend/internal/feed"
)

// StreamHandler exposes the per-room change feed over SSE. One subscription
// per connected client, scoped to the room, torn down when the client goes
// away. The payload carries no row data on purpose: consumers refetch the
// room, exactly like the original change-feed wiring.
type StreamHandler struct {
	Brokers  []string
	Debounce time.Duration
}

func (h *StreamHandler) Events(c echo.Context) error {
	if len(h.Brokers) == 0 {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "change feed is not configured")
	}

	roomID := c.Param("id")

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ctx := c.Request().Context()

	notify := make(chan struct{}, 1)
	sub := feed.Subscribe(ctx, h.Brokers, roomID, h.Debounce, func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	defer sub.Close()

	fmt.Fprintf(w, "event: ready\ndata: {\"room_id\":%q}\n\n", roomID)
	w.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-notify:
			fmt.Fprintf(w, "event: changed\ndata: {\"room_id\":%q}\n\n", roomID)
			w.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": ping\n\n")
			w.Flush()
		}
	}
}
