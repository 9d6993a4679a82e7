package services

import (
	"context"

	"github.com/spinwin/giveaway-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerService is the single source of truth for slot counts. Every read and
// write of a participant's entries goes through it.
type LedgerService interface {
	// Register creates a participant with the configured initial slot grant
	Register(ctx context.Context, name, email, country string) (*models.Participant, error)

	// GetParticipant retrieves a participant by ID
	GetParticipant(ctx context.Context, id primitive.ObjectID) (*models.Participant, error)

	// ListParticipants returns all participants in snapshot order
	ListParticipants(ctx context.Context) ([]*models.Participant, error)

	// GetSlots returns the participant's current slot count
	GetSlots(ctx context.Context, id primitive.ObjectID) (int, error)

	// AdjustSlots applies delta to the participant's count, clamped to the
	// configured floor, and appends an audit record. Returns the new count.
	AdjustSlots(ctx context.Context, id primitive.ObjectID, delta int, reason models.AdjustmentReason) (int, error)

	// SetSlots overrides the participant's count with an absolute value >= 0
	SetSlots(ctx context.Context, id primitive.ObjectID, value int) (int, error)

	// BulkAdjust applies delta to every participant matching the predicate,
	// each individually clamped to the floor. Returns the number adjusted.
	BulkAdjust(ctx context.Context, delta int, predicate func(*models.Participant) bool) (int, error)

	// RecordPurchase grants bonus slots for a purchase amount
	RecordPurchase(ctx context.Context, id primitive.ObjectID, amount float64) (int, error)

	// Snapshot returns a consistent, ordered copy of the ledger
	Snapshot(ctx context.Context) (*models.LedgerSnapshot, error)

	// WinChance returns slots/totalWeight for the participant
	WinChance(ctx context.Context, id primitive.ObjectID) (float64, error)

	// Stats summarizes the ledger for the admin dashboard
	Stats(ctx context.Context) (*models.LedgerStats, error)

	// History returns the audit trail for one participant, oldest first
	History(ctx context.Context, id primitive.ObjectID) ([]*models.SlotAdjustment, error)

	// RecentActivity returns the latest audit records across all
	// participants, newest first
	RecentActivity(ctx context.Context, limit int) ([]*models.SlotAdjustment, error)

	// RemoveParticipant deletes a participant and their ledger entries
	RemoveParticipant(ctx context.Context, id primitive.ObjectID) error
}

// DrawService orchestrates the scheduler, ledger and selector into a
// repeatable draw cycle and owns the active draw window
type DrawService interface {
	// Tick advances the draw cycle: promotes the window through
	// PENDING -> URGENT -> DUE and runs the selection once due.
	// Returns the result when a draw completed on this tick.
	Tick(ctx context.Context) (*models.DrawResult, error)

	// ForceDraw runs the selection immediately, bypassing the countdown
	ForceDraw(ctx context.Context) (*models.DrawResult, error)

	// ResetDraw discards the active window and opens a fresh PENDING one
	ResetDraw(ctx context.Context) (*models.DrawWindow, error)

	// CurrentStatus returns the countdown view for the active window
	CurrentStatus(ctx context.Context) (*models.CountdownView, error)

	// Results returns the draw result log, newest first
	Results(ctx context.Context, limit int) ([]*models.DrawResult, error)

	// VerifyLatest replays the most recent result's recorded roll against its
	// snapshot and reports whether the stored winner is reproduced
	VerifyLatest(ctx context.Context) (bool, error)
}

// GameSettingsService manages admin-controlled game configuration
type GameSettingsService interface {
	Get(ctx context.Context) (*models.GameSettings, error)
	Update(ctx context.Context, settings *models.GameSettings) (*models.GameSettings, error)
}

// AuthService handles admin authentication
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)

	// Bootstrap creates the initial admin account if it does not exist
	Bootstrap(ctx context.Context, email, password string) error
}
