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

// Compile-time check to ensure DrawWindowRepository implements the interface
var _ repositories.DrawWindowRepository = (*DrawWindowRepository)(nil)

// DrawWindowRepository handles MongoDB operations for DrawWindow
type DrawWindowRepository struct {
	collection *mongo.Collection
}

// NewDrawWindowRepository creates a new DrawWindowRepository
func NewDrawWindowRepository(db *mongo.Database) *DrawWindowRepository {
	return &DrawWindowRepository{
		collection: db.Collection("draw_windows"),
	}
}

// Create inserts a new draw window
func (r *DrawWindowRepository) Create(ctx context.Context, window *models.DrawWindow) error {
	window.ID = primitive.NewObjectID()
	window.CreatedAt = time.Now()
	window.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, window)
	return err
}

// Update updates an existing draw window
func (r *DrawWindowRepository) Update(ctx context.Context, window *models.DrawWindow) error {
	window.UpdatedAt = time.Now()
	filter := bson.M{"_id": window.ID}
	update := bson.M{"$set": window}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// FindLatest returns the most recently created draw window
func (r *DrawWindowRepository) FindLatest(ctx context.Context) (*models.DrawWindow, error) {
	var window models.DrawWindow
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&window)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &window, nil
}
