package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time checks
var (
	_ repositories.GameSettingsRepository = (*GameSettingsRepository)(nil)
	_ repositories.AdminUserRepository    = (*AdminUserRepository)(nil)
)

// GameSettingsRepository is an in-memory settings store
type GameSettingsRepository struct {
	mu       sync.RWMutex
	settings *models.GameSettings
}

// NewGameSettingsRepository creates a new in-memory GameSettingsRepository
func NewGameSettingsRepository() *GameSettingsRepository {
	return &GameSettingsRepository{}
}

func (r *GameSettingsRepository) Get(ctx context.Context) (*models.GameSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return nil, mongo.ErrNoDocuments
	}
	clone := *r.settings
	return &clone, nil
}

func (r *GameSettingsRepository) Upsert(ctx context.Context, settings *models.GameSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings.UpdatedAt = time.Now()
	if settings.ID.IsZero() {
		settings.ID = primitive.NewObjectID()
		settings.CreatedAt = settings.UpdatedAt
	}
	clone := *settings
	r.settings = &clone
	return nil
}

// AdminUserRepository is an in-memory admin account store
type AdminUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.AdminUser // keyed by email
}

// NewAdminUserRepository creates a new in-memory AdminUserRepository
func NewAdminUserRepository() *AdminUserRepository {
	return &AdminUserRepository{
		users: make(map[string]*models.AdminUser),
	}
}

func (r *AdminUserRepository) Create(ctx context.Context, adminUser *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	adminUser.ID = primitive.NewObjectID()
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = time.Now()
	clone := *adminUser
	r.users[adminUser.Email] = &clone
	return nil
}

func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adminUser, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *adminUser
	return &clone, nil
}
