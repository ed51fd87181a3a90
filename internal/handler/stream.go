package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"tradedash/internal/state"
)

// streamSendBuffer bounds the per-client queue; slow readers drop frames
// rather than stalling the reducers.
const streamSendBuffer = 64

const streamWriteTimeout = 5 * time.Second

// StreamHandler relays store events to dashboard clients over websocket.
type StreamHandler struct {
	Store  *state.Store
	Logger *zap.Logger
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/stream", h.stream)
}

// @Summary Live event stream
// @Tags stream
// @Router /api/v1/stream [get]
func (h *StreamHandler) stream(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusServiceUnavailable, "stream unavailable", nil)
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	ctx := c.Request.Context()
	events := h.Store.Subscribe(streamSendBuffer)
	defer h.Store.Unsubscribe(events)

	// Reads are only consumed to surface client disconnects.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err = conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
