package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ebhcs/bulletin-board/internal/api/metrics"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

const streamKeepAlive = 25 * time.Second

// StreamHandler serves the live bulletin feed over Server-Sent Events.
// Every store change delivers the complete active collection as one event;
// clients replace their state wholesale, never patch it.
type StreamHandler struct {
	source ports.SnapshotSource
}

func NewStreamHandler(source ports.SnapshotSource) *StreamHandler {
	return &StreamHandler{source: source}
}

// Stream handles GET /v1/stream.
//
// @Summary      Subscribe to live bulletin snapshots
// @Description  Server-Sent Events; each "snapshot" event carries the full active collection as JSON.
// @Tags         stream
// @Produce      text/event-stream
// @Success      200  {string}  string
// @Router       /v1/stream [get]
func (h *StreamHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	snapshots, cancel := h.source.Subscribe()
	defer cancel()

	metrics.StreamSubscribers.Inc()
	defer metrics.StreamSubscribers.Dec()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-keepAlive.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case snapshot, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err := writeSnapshotEvent(res, snapshot); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeSnapshotEvent(res *echo.Response, snapshot ports.Snapshot) error {
	now := time.Now()
	items := make([]bulletinResponse, len(snapshot))
	for i, b := range snapshot {
		items[i] = toBulletinResponse(b, now)
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(res, "event: snapshot\ndata: %s\n\n", payload)
	return err
}
