package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/linedeck/linedeck/internal/content"
	"github.com/linedeck/linedeck/internal/image"
)

// SnapshotLimit caps the number of items the snapshot endpoint returns.
const SnapshotLimit = 20

// ContentHandler serves the moderation queue: snapshots for polling
// dashboards, status transitions, deletion, and stored images.
type ContentHandler struct {
	store  *content.Store
	images *image.Store
	logger *slog.Logger
}

// NewContentHandler creates the content handler.
func NewContentHandler(log *slog.Logger, store *content.Store, images *image.Store) *ContentHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ContentHandler{
		store:  store,
		images: images,
		logger: log.With(slog.String("handler", "content")),
	}
}

// Register registers content routes.
func (h *ContentHandler) Register(e *echo.Echo) {
	e.GET("/content", h.Snapshot)
	e.PATCH("/content/:id/status", h.UpdateStatus)
	e.DELETE("/content/:id", h.Delete)
	e.GET("/image/:id", h.ServeImage)
}

type snapshotResponse struct {
	Content   []content.Item `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
}

// Snapshot returns the most recent items sorted newest first, plus the
// server's timestamp. Polling clients use that timestamp as their cursor so
// client clocks never participate in the diff.
func (h *ContentHandler) Snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, snapshotResponse{
		Content:   h.store.Recent(SnapshotLimit),
		Timestamp: time.Now().UTC(),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus applies a moderation decision to one item.
func (h *ContentHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	status, err := content.ParseStatus(req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.store.SetStatus(c.Param("id"), status)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Content not found"})
		}
		return err
	}

	h.logger.Info("content status updated",
		slog.String("id", item.ID),
		slog.String("status", string(status)),
	)
	return c.JSON(http.StatusOK, item)
}

// Delete removes one item from the queue. The referenced image, if any, is
// kept: image ownership stays with the image store.
func (h *ContentHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if !h.store.Delete(id) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Content not found"})
	}
	h.logger.Info("content deleted", slog.String("id", id))
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// ServeImage returns stored image bytes with their recorded content type.
func (h *ContentHandler) ServeImage(c echo.Context) error {
	img, ok := h.images.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Image not found"})
	}
	return c.Blob(http.StatusOK, img.ContentType, img.Bytes)
}
