package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/ui"
)

type synchronizer interface {
	Layout(ctx context.Context, clientID string, elements []ui.Element) (ui.View, error)
	Pointer(ctx context.Context, v domain.Visitor, ev ui.PointerEvent) (ui.View, error)
	View(ctx context.Context, clientID string) (ui.View, error)
}

type UIHandler struct {
	sync   synchronizer
	logger *slog.Logger
}

func NewUIHandler(sync synchronizer, logger *slog.Logger) *UIHandler {
	return &UIHandler{sync: sync, logger: logger.With("component", "ui_handler")}
}

type layoutRequest struct {
	Elements []ui.Element `json:"elements" binding:"required"`
}

// PUT /ui/layout
// Sent by the renderer after every render; replaces the cached layout.
func (h *UIHandler) Layout(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.sync.Layout(c.Request.Context(), c.GetString("clientID"), req.Elements)
	if err != nil {
		respondError(c, h.logger, "layout", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /ui/pointer
func (h *UIHandler) Pointer(c *gin.Context) {
	var ev ui.PointerEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.sync.Pointer(c.Request.Context(), visitorFrom(c), ev)
	if err != nil {
		respondError(c, h.logger, "pointer", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /ui/view
func (h *UIHandler) View(c *gin.Context) {
	view, err := h.sync.View(c.Request.Context(), c.GetString("clientID"))
	if err != nil {
		respondError(c, h.logger, "view", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
