package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/linedeck/linedeck/internal/config"
	"github.com/linedeck/linedeck/internal/content"
)

// HealthHandler reports configuration presence flags. Credential values are
// never included, only booleans.
type HealthHandler struct {
	cfg    config.Config
	store  *content.Store
	logger *slog.Logger
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(log *slog.Logger, cfg config.Config, store *content.Store) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{
		cfg:    cfg,
		store:  store,
		logger: log.With(slog.String("handler", "health")),
	}
}

// Register registers health routes.
func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/", h.Root)
}

// Health reports which credentials are configured and the current queue size.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"ok": true,
		"env": map[string]any{
			"hasLineSecret": h.cfg.Line.ChannelSecret != "",
			"hasLineToken":  h.cfg.Line.ChannelAccessToken != "",
			"hasGeminiKey":  h.cfg.Gemini.APIKey != "",
			"clientOrigin":  h.cfg.Server.ClientOrigin,
		},
		"contentCount": h.store.Len(),
	})
}

// Root serves the server banner.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message":   "LINE Dashboard Backend API",
		"status":    "running",
		"timestamp": time.Now().UTC(),
	})
}
