package repositories

import (
	"context"

	"github.com/spinwin/giveaway-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipantRepository defines the ledger's backing store: a key-value-like
// store keyed by participant identifier. FindAll must return participants in
// a stable order (join time, then ID) so snapshots are reproducible.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error)
	FindByEmail(ctx context.Context, email string) (*models.Participant, error)
	FindAll(ctx context.Context) ([]*models.Participant, error)
	UpdateSlots(ctx context.Context, id primitive.ObjectID, slots int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// AdjustmentRepository is the append-only audit sink for ledger mutations
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *models.SlotAdjustment) error
	FindByParticipantID(ctx context.Context, participantID primitive.ObjectID) ([]*models.SlotAdjustment, error)
	FindRecent(ctx context.Context, limit int) ([]*models.SlotAdjustment, error)
}

// DrawWindowRepository persists draw windows across restarts
type DrawWindowRepository interface {
	Create(ctx context.Context, window *models.DrawWindow) error
	Update(ctx context.Context, window *models.DrawWindow) error
	FindLatest(ctx context.Context) (*models.DrawWindow, error)
}

// DrawResultRepository is the append-only draw result log
type DrawResultRepository interface {
	Create(ctx context.Context, result *models.DrawResult) error
	FindAll(ctx context.Context, limit int) ([]*models.DrawResult, error)
	FindLatest(ctx context.Context) (*models.DrawResult, error)
}

// GameSettingsRepository stores the single game settings document
type GameSettingsRepository interface {
	Get(ctx context.Context) (*models.GameSettings, error)
	Upsert(ctx context.Context, settings *models.GameSettings) error
}

// AdminUserRepository defines the interface for admin operator accounts
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
