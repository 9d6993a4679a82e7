package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure GameSettingsServiceImpl implements GameSettingsService
var _ GameSettingsService = (*GameSettingsServiceImpl)(nil)

// GameSettingsServiceImpl manages the game settings document
type GameSettingsServiceImpl struct {
	settingsRepo repositories.GameSettingsRepository
}

// NewGameSettingsService creates a new GameSettingsServiceImpl
func NewGameSettingsService(settingsRepo repositories.GameSettingsRepository) *GameSettingsServiceImpl {
	return &GameSettingsServiceImpl{settingsRepo: settingsRepo}
}

// Get returns the current settings, falling back to defaults when none have
// been saved yet.
func (s *GameSettingsServiceImpl) Get(ctx context.Context) (*models.GameSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.GameSettings{
				GameActive: true,
				AutoSpin:   true,
			}, nil
		}
		return nil, fmt.Errorf("failed to load game settings: %w", err)
	}
	return settings, nil
}

// Update persists new settings
func (s *GameSettingsServiceImpl) Update(ctx context.Context, settings *models.GameSettings) (*models.GameSettings, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err == nil {
		settings.ID = current.ID
		settings.CreatedAt = current.CreatedAt
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load game settings: %w", err)
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save game settings: %w", err)
	}
	slog.Info("Game settings updated", "gameActive", settings.GameActive,
		"autoSpin", settings.AutoSpin, "prize", settings.PrizeName, "updatedBy", settings.UpdatedBy)
	return settings, nil
}
