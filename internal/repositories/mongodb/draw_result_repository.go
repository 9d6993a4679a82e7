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

// Compile-time check to ensure DrawResultRepository implements the interface
var _ repositories.DrawResultRepository = (*DrawResultRepository)(nil)

// DrawResultRepository handles MongoDB operations for the draw result log.
// Results are only ever inserted; nothing updates or deletes them.
type DrawResultRepository struct {
	collection *mongo.Collection
}

// NewDrawResultRepository creates a new DrawResultRepository
func NewDrawResultRepository(db *mongo.Database) *DrawResultRepository {
	return &DrawResultRepository{
		collection: db.Collection("draw_results"),
	}
}

// Create appends a draw result
func (r *DrawResultRepository) Create(ctx context.Context, result *models.DrawResult) error {
	result.ID = primitive.NewObjectID()
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, result)
	return err
}

// FindAll returns results newest first, up to limit
func (r *DrawResultRepository) FindAll(ctx context.Context, limit int) ([]*models.DrawResult, error) {
	var results []*models.DrawResult
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []*models.DrawResult{}
	}
	return results, nil
}

// FindLatest returns the most recent draw result
func (r *DrawResultRepository) FindLatest(ctx context.Context) (*models.DrawResult, error) {
	var result models.DrawResult
	opts := options.FindOne().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
