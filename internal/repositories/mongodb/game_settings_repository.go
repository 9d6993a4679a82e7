package mongodb

import (
	"context"
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure GameSettingsRepository implements the interface
var _ repositories.GameSettingsRepository = (*GameSettingsRepository)(nil)

// GameSettingsRepository handles MongoDB operations for GameSettings.
// The collection holds a single document.
type GameSettingsRepository struct {
	collection *mongo.Collection
}

// NewGameSettingsRepository creates a new GameSettingsRepository
func NewGameSettingsRepository(db *mongo.Database) *GameSettingsRepository {
	return &GameSettingsRepository{
		collection: db.Collection("game_settings"),
	}
}

// Get returns the settings document
func (r *GameSettingsRepository) Get(ctx context.Context) (*models.GameSettings, error) {
	var settings models.GameSettings
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &settings, nil
}

// Upsert creates or replaces the settings document
func (r *GameSettingsRepository) Upsert(ctx context.Context, settings *models.GameSettings) error {
	settings.UpdatedAt = time.Now()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = settings.UpdatedAt
	}
	filter := bson.M{}
	if !settings.ID.IsZero() {
		filter = bson.M{"_id": settings.ID}
	}
	update := bson.M{"$set": bson.M{
		"prizeName":        settings.PrizeName,
		"prizeDescription": settings.PrizeDescription,
		"gameActive":       settings.GameActive,
		"autoSpin":         settings.AutoSpin,
		"updatedBy":        settings.UpdatedBy,
		"updatedAt":        settings.UpdatedAt,
		"createdAt":        settings.CreatedAt,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}
