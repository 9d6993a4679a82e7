package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipantHandler handles participant and slot ledger HTTP requests
type ParticipantHandler struct {
	ledgerService services.LedgerService
}

// NewParticipantHandler creates a new ParticipantHandler
func NewParticipantHandler(ledgerService services.LedgerService) *ParticipantHandler {
	return &ParticipantHandler{ledgerService: ledgerService}
}

// RegisterRequest is the body for POST /participants/register
type RegisterRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Country string `json:"country"`
}

// Register handles POST /participants/register
func (h *ParticipantHandler) Register(c *gin.Context) {
	var request RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.ledgerService.Register(c.Request.Context(), request.Name, request.Email, request.Country)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "A participant with this email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register participant: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, participant)
}

// GetParticipants handles GET /participants
func (h *ParticipantHandler) GetParticipants(c *gin.Context) {
	participants, err := h.ledgerService.ListParticipants(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list participants: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, participants)
}

// GetParticipantByID handles GET /participants/:id
func (h *ParticipantHandler) GetParticipantByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	participant, err := h.ledgerService.GetParticipant(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve participant: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, participant)
}

// AdjustSlotsRequest is the body for POST /participants/:id/adjust
type AdjustSlotsRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// AdjustSlots handles POST /participants/:id/adjust
func (h *ParticipantHandler) AdjustSlots(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request AdjustSlotsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reason := models.AdjustmentReason(request.Reason)
	if reason == "" {
		reason = models.ReasonAdminBoost
	}

	slots, err := h.ledgerService.AdjustSlots(c.Request.Context(), id, request.Delta, reason)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust slots: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participantId": id, "slots": slots})
}

// SetSlotsRequest is the body for PUT /participants/:id/slots
type SetSlotsRequest struct {
	Slots *int `json:"slots" binding:"required"`
}

// SetSlots handles PUT /participants/:id/slots
func (h *ParticipantHandler) SetSlots(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request SetSlotsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.ledgerService.SetSlots(c.Request.Context(), id, *request.Slots)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParticipantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		case errors.Is(err, services.ErrInvalidSlotValue):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slot value must be a non-negative integer"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set slots: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"participantId": id, "slots": slots})
}

// BulkAdjustRequest is the body for POST /participants/bulk-adjust
type BulkAdjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// BulkAdjust handles POST /participants/bulk-adjust, applying the delta to
// every participant
func (h *ParticipantHandler) BulkAdjust(c *gin.Context) {
	var request BulkAdjustRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adjusted, err := h.ledgerService.BulkAdjust(c.Request.Context(), request.Delta, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to bulk adjust slots: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"adjusted": adjusted})
}

// PurchaseRequest is the body for POST /purchases
type PurchaseRequest struct {
	ParticipantID string  `json:"participantId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// RecordPurchase handles POST /purchases
func (h *ParticipantHandler) RecordPurchase(c *gin.Context) {
	var request PurchaseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := primitive.ObjectIDFromHex(request.ParticipantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID format"})
		return
	}

	bonus, err := h.ledgerService.RecordPurchase(c.Request.Context(), id, request.Amount)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record purchase: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participantId": id, "bonusSlots": bonus})
}

// GetWinChance handles GET /participants/:id/win-chance
func (h *ParticipantHandler) GetWinChance(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	chance, err := h.ledgerService.WinChance(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute win chance: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participantId": id, "winChance": chance})
}

// GetHistory handles GET /participants/:id/history
func (h *ParticipantHandler) GetHistory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	history, err := h.ledgerService.History(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

// DeleteParticipant handles DELETE /participants/:id
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.ledgerService.RemoveParticipant(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete participant: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Participant deleted successfully"})
}

// GetActivity handles GET /activity
func (h *ParticipantHandler) GetActivity(c *gin.Context) {
	activity, err := h.ledgerService.RecentActivity(c.Request.Context(), parseLimit(c, 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, activity)
}

// GetStats handles GET /stats
func (h *ParticipantHandler) GetStats(c *gin.Context) {
	stats, err := h.ledgerService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetSnapshot handles GET /participants/snapshot. The frontend builds the
// wheel view from these entries.
func (h *ParticipantHandler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.ledgerService.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to snapshot ledger: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// parseLimit reads a ?limit= query parameter with a default
func parseLimit(c *gin.Context, def int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}
