// Package ws exposes the broadcast hub over a websocket endpoint.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openscore/scorenight/internal/adapters/broadcast"
	"github.com/openscore/scorenight/internal/domain/display"
	"github.com/openscore/scorenight/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub is the subset of the broadcast hub the handler needs.
type Hub interface {
	Subscribe() (*broadcast.Subscriber, display.Message)
	Unsubscribe(id string)
}

// Handler upgrades display connections and streams hub messages to
// them. The connection is one-way: client frames are read only to keep
// pong handling alive.
type Handler struct {
	hub      Hub
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewHandler creates a websocket handler over the hub.
func NewHandler(hub Hub, opts ...Option) *Handler {
	h := &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Displays are served from anywhere on the venue network.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.Get().Named("ws"),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// ServeHTTP upgrades the request and runs the connection until the
// client goes away or the hub disconnects it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	sub, snapshot := h.hub.Subscribe()
	h.logger.Info(r.Context(), "display connected", logger.String("subscriber", sub.ID))

	go h.readPump(r.Context(), conn, sub.ID)
	h.writePump(r.Context(), conn, sub, snapshot)
}

// readPump discards inbound frames and keeps the read deadline fresh.
func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn, subID string) {
	defer h.hub.Unsubscribe(subID)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug(ctx, "display read error", logger.Error(err))
			}
			return
		}
	}
}

// writePump sends the snapshot, then relays broadcasts and pings until
// the subscription ends.
func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, sub *broadcast.Subscriber, snapshot display.Message) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Unsubscribe(sub.ID)
		_ = conn.Close()
		h.logger.Info(ctx, "display disconnected", logger.String("subscriber", sub.ID))
	}()

	if err := h.writeMessage(conn, snapshot); err != nil {
		return
	}

	for {
		select {
		case m, ok := <-sub.C:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "hub closed"))
				return
			}
			if err := h.writeMessage(conn, m); err != nil {
				h.logger.Debug(ctx, "display write error",
					logger.String("subscriber", sub.ID),
					logger.Error(err),
				)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeMessage(conn *websocket.Conn, m display.Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(m)
}
