package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure ParticipantRepository implements the interface
var _ repositories.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository is an in-memory participant store used by tests and
// local development. Not-found is reported as mongo.ErrNoDocuments so callers
// behave identically against either backend.
type ParticipantRepository struct {
	mu           sync.RWMutex
	participants map[primitive.ObjectID]*models.Participant
}

// NewParticipantRepository creates a new in-memory ParticipantRepository
func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{
		participants: make(map[primitive.ObjectID]*models.Participant),
	}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	participant.ID = primitive.NewObjectID()
	participant.CreatedAt = time.Now()
	participant.UpdatedAt = time.Now()
	clone := *participant
	r.participants[participant.ID] = &clone
	return nil
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	participant, ok := r.participants[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *participant
	return &clone, nil
}

func (r *ParticipantRepository) FindByEmail(ctx context.Context, email string) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, participant := range r.participants {
		if participant.Email == email {
			clone := *participant
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// FindAll returns participants ordered by join time then ID, matching the
// Mongo implementation's sort so snapshots are reproducible.
func (r *ParticipantRepository) FindAll(ctx context.Context) ([]*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	participants := make([]*models.Participant, 0, len(r.participants))
	for _, participant := range r.participants {
		clone := *participant
		participants = append(participants, &clone)
	}
	sort.Slice(participants, func(i, j int) bool {
		if !participants[i].JoinedAt.Equal(participants[j].JoinedAt) {
			return participants[i].JoinedAt.Before(participants[j].JoinedAt)
		}
		return participants[i].ID.Hex() < participants[j].ID.Hex()
	})
	return participants, nil
}

func (r *ParticipantRepository) UpdateSlots(ctx context.Context, id primitive.ObjectID, slots int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	participant, ok := r.participants[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	participant.Slots = slots
	participant.UpdatedAt = time.Now()
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, id)
	return nil
}

func (r *ParticipantRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.participants)), nil
}
