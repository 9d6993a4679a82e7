package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/services"
)

// SettingsHandler handles game settings HTTP requests
type SettingsHandler struct {
	settingsService services.GameSettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.GameSettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettingsRequest is the body for PUT /settings
type UpdateSettingsRequest struct {
	PrizeName        string `json:"prizeName" binding:"required"`
	PrizeDescription string `json:"prizeDescription"`
	GameActive       *bool  `json:"gameActive" binding:"required"`
	AutoSpin         *bool  `json:"autoSpin" binding:"required"`
}

// UpdateSettings handles PUT /settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var request UpdateSettingsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updatedBy := ""
	if claims, exists := c.Get("claims"); exists {
		if m, ok := claims.(jwt.MapClaims); ok {
			if sub, ok := m["sub"].(string); ok {
				updatedBy = sub
			}
		}
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &models.GameSettings{
		PrizeName:        request.PrizeName,
		PrizeDescription: request.PrizeDescription,
		GameActive:       *request.GameActive,
		AutoSpin:         *request.AutoSpin,
		UpdatedBy:        updatedBy,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}
