package mongodb

import (
	"context"
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure AdjustmentRepository implements the interface
var _ repositories.AdjustmentRepository = (*AdjustmentRepository)(nil)

// AdjustmentRepository handles MongoDB operations for the slot audit log
type AdjustmentRepository struct {
	collection *mongo.Collection
}

// NewAdjustmentRepository creates a new AdjustmentRepository
func NewAdjustmentRepository(db *mongo.Database) *AdjustmentRepository {
	return &AdjustmentRepository{
		collection: db.Collection("slot_adjustments"),
	}
}

// Create appends an adjustment record
func (r *AdjustmentRepository) Create(ctx context.Context, adjustment *models.SlotAdjustment) error {
	adjustment.ID = primitive.NewObjectID()
	adjustment.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, adjustment)
	return err
}

// FindByParticipantID returns all adjustments for one participant, oldest first
func (r *AdjustmentRepository) FindByParticipantID(ctx context.Context, participantID primitive.ObjectID) ([]*models.SlotAdjustment, error) {
	var adjustments []*models.SlotAdjustment
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"participantId": participantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &adjustments); err != nil {
		return nil, err
	}
	if adjustments == nil {
		adjustments = []*models.SlotAdjustment{}
	}
	return adjustments, nil
}

// FindRecent returns the most recent adjustments, newest first
func (r *AdjustmentRepository) FindRecent(ctx context.Context, limit int) ([]*models.SlotAdjustment, error) {
	var adjustments []*models.SlotAdjustment
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &adjustments); err != nil {
		return nil, err
	}
	if adjustments == nil {
		adjustments = []*models.SlotAdjustment{}
	}
	return adjustments, nil
}
