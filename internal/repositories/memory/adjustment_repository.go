package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure AdjustmentRepository implements the interface
var _ repositories.AdjustmentRepository = (*AdjustmentRepository)(nil)

// AdjustmentRepository is an in-memory append-only audit log
type AdjustmentRepository struct {
	mu          sync.RWMutex
	adjustments []*models.SlotAdjustment
}

// NewAdjustmentRepository creates a new in-memory AdjustmentRepository
func NewAdjustmentRepository() *AdjustmentRepository {
	return &AdjustmentRepository{}
}

func (r *AdjustmentRepository) Create(ctx context.Context, adjustment *models.SlotAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	adjustment.ID = primitive.NewObjectID()
	adjustment.CreatedAt = time.Now()
	clone := *adjustment
	r.adjustments = append(r.adjustments, &clone)
	return nil
}

func (r *AdjustmentRepository) FindByParticipantID(ctx context.Context, participantID primitive.ObjectID) ([]*models.SlotAdjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := []*models.SlotAdjustment{}
	for _, adjustment := range r.adjustments {
		if adjustment.ParticipantID == participantID {
			clone := *adjustment
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *AdjustmentRepository) FindRecent(ctx context.Context, limit int) ([]*models.SlotAdjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recent := []*models.SlotAdjustment{}
	for i := len(r.adjustments) - 1; i >= 0 && len(recent) < limit; i-- {
		clone := *r.adjustments[i]
		recent = append(recent, &clone)
	}
	return recent, nil
}
