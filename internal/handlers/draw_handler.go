package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spinwin/giveaway-backend/internal/rng"
	"github.com/spinwin/giveaway-backend/internal/services"
)

// DrawHandler handles draw-related HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{drawService: drawService}
}

// GetCurrent handles GET /draws/current, the countdown display view
func (h *DrawHandler) GetCurrent(c *gin.Context) {
	status, err := h.drawService.CurrentStatus(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoActiveWindow) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active draw window"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve draw status: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetResults handles GET /draws/results
func (h *DrawHandler) GetResults(c *gin.Context) {
	results, err := h.drawService.Results(c.Request.Context(), parseLimit(c, 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve draw results: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// ForceDraw handles POST /draws/force, the "Spin Now" control
func (h *DrawHandler) ForceDraw(c *gin.Context) {
	result, err := h.drawService.ForceDraw(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, rng.ErrEmptyPool):
			c.JSON(http.StatusConflict, gin.H{"error": "No entries in the draw pool"})
		case errors.Is(err, services.ErrGamePaused):
			c.JSON(http.StatusConflict, gin.H{"error": "Game is paused"})
		case errors.Is(err, services.ErrNoActiveWindow):
			c.JSON(http.StatusNotFound, gin.H{"error": "No active draw window"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute draw: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw executed successfully", "result": result})
}

// ResetDraw handles POST /draws/reset. Destructive: the admin UI asks for
// confirmation before calling this.
func (h *DrawHandler) ResetDraw(c *gin.Context) {
	window, err := h.drawService.ResetDraw(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset draw: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw reset successfully", "window": window})
}

// VerifyLatest handles GET /draws/results/verify. It replays the latest
// result's recorded roll against its snapshot.
func (h *DrawHandler) VerifyLatest(c *gin.Context) {
	ok, err := h.drawService.VerifyLatest(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoActiveWindow) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No draw results recorded yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify result: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": ok})
}
