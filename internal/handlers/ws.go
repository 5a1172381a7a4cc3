package handlers

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/linedeck/linedeck/internal/distribute"
)

// WSHandler exposes the push-distribution websocket endpoint. It is only
// mounted when push distribution is configured; in poll mode the hub is nil
// and the route does not exist.
type WSHandler struct {
	hub    *distribute.Hub
	logger *slog.Logger
}

// NewWSHandler creates the websocket handler. A nil hub disables the route.
func NewWSHandler(log *slog.Logger, hub *distribute.Hub) *WSHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WSHandler{
		hub:    hub,
		logger: log.With(slog.String("handler", "ws")),
	}
}

// Register registers the websocket route when push mode is active.
func (h *WSHandler) Register(e *echo.Echo) {
	if h.hub == nil {
		return
	}
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection and hands it to the hub.
func (h *WSHandler) Serve(c echo.Context) error {
	return h.hub.ServeWS(c.Response(), c.Request())
}
