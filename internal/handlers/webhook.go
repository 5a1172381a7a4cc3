package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linedeck/linedeck/internal/ingest"
	"github.com/linedeck/linedeck/internal/line"
)

const webhookMaxBodyBytes int64 = 1 << 20 // 1 MiB

// WebhookHandler receives LINE webhook deliveries and manual test ingestions.
// It is a thin transport adapter over the ingestion pipeline.
type WebhookHandler struct {
	pipeline *ingest.Pipeline
	logger   *slog.Logger
}

// NewWebhookHandler creates the webhook handler.
func NewWebhookHandler(log *slog.Logger, pipeline *ingest.Pipeline) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		pipeline: pipeline,
		logger:   log.With(slog.String("handler", "webhook")),
	}
}

// Register registers webhook routes.
func (h *WebhookHandler) Register(e *echo.Echo) {
	e.POST("/webhook", h.Handle)
	e.POST("/test-webhook", h.HandleTest)
}

// Handle processes a signed webhook delivery.
func (h *WebhookHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, webhookMaxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(body)) > webhookMaxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("payload too large: max %d bytes", webhookMaxBodyBytes))
	}

	signature := c.Request().Header.Get("x-line-signature")
	items, err := h.pipeline.HandleWebhook(c.Request().Context(), body, signature)
	switch {
	case err == nil:
	case errors.Is(err, line.ErrMissingSignature):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing signature"})
	case errors.Is(err, line.ErrInvalidSignature):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid signature"})
	case errors.Is(err, line.ErrMalformedPayload):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON format"})
	default:
		h.logger.Error("webhook processing failed", slog.Any("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if len(items) > 0 {
		h.logger.Info("webhook processed", slog.Int("items", len(items)))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

type testWebhookRequest struct {
	Type     string `json:"type" validate:"required,oneof=text image"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}

// HandleTest ingests a manual test item, bypassing signature validation.
func (h *WebhookHandler) HandleTest(c echo.Context) error {
	var req testWebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid test type"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid test type"})
	}

	item, err := h.pipeline.HandleTest(c.Request().Context(), ingest.TestInput{
		Type:     req.Type,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedType) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid test type"})
		}
		h.logger.Error("test ingestion failed", slog.Any("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "item": item})
}
