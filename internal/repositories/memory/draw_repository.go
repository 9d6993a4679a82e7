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
	_ repositories.DrawWindowRepository = (*DrawWindowRepository)(nil)
	_ repositories.DrawResultRepository = (*DrawResultRepository)(nil)
)

// DrawWindowRepository is an in-memory draw window store
type DrawWindowRepository struct {
	mu      sync.RWMutex
	windows []*models.DrawWindow
}

// NewDrawWindowRepository creates a new in-memory DrawWindowRepository
func NewDrawWindowRepository() *DrawWindowRepository {
	return &DrawWindowRepository{}
}

func (r *DrawWindowRepository) Create(ctx context.Context, window *models.DrawWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	window.ID = primitive.NewObjectID()
	window.CreatedAt = time.Now()
	window.UpdatedAt = time.Now()
	clone := *window
	r.windows = append(r.windows, &clone)
	return nil
}

func (r *DrawWindowRepository) Update(ctx context.Context, window *models.DrawWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.windows {
		if existing.ID == window.ID {
			window.UpdatedAt = time.Now()
			clone := *window
			r.windows[i] = &clone
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *DrawWindowRepository) FindLatest(ctx context.Context) (*models.DrawWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.windows) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	clone := *r.windows[len(r.windows)-1]
	return &clone, nil
}

// DrawResultRepository is an in-memory append-only result log
type DrawResultRepository struct {
	mu      sync.RWMutex
	results []*models.DrawResult
}

// NewDrawResultRepository creates a new in-memory DrawResultRepository
func NewDrawResultRepository() *DrawResultRepository {
	return &DrawResultRepository{}
}

func (r *DrawResultRepository) Create(ctx context.Context, result *models.DrawResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	result.ID = primitive.NewObjectID()
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now()
	}
	clone := *result
	r.results = append(r.results, &clone)
	return nil
}

func (r *DrawResultRepository) FindAll(ctx context.Context, limit int) ([]*models.DrawResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := []*models.DrawResult{}
	for i := len(r.results) - 1; i >= 0 && len(results) < limit; i-- {
		clone := *r.results[i]
		results = append(results, &clone)
	}
	return results, nil
}

func (r *DrawResultRepository) FindLatest(ctx context.Context) (*models.DrawResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.results) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	clone := *r.results[len(r.results)-1]
	return &clone, nil
}
