package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LedgerServiceImpl implements LedgerService
var _ LedgerService = (*LedgerServiceImpl)(nil)

// LedgerOptions configures slot grants and clamping floors
type LedgerOptions struct {
	// InitialSlots is granted on registration
	InitialSlots int
	// MinSlots is the floor a delta adjustment may not push a registered
	// participant below
	MinSlots int
	// PurchaseUnit is the purchase amount worth one bonus slot
	PurchaseUnit float64
}

// LedgerServiceImpl is the authoritative slot ledger. A single mutex
// serializes all mutations and snapshot reads, so writers never interleave
// and snapshots never observe partial updates.
type LedgerServiceImpl struct {
	mu              sync.Mutex
	participantRepo repositories.ParticipantRepository
	adjustmentRepo  repositories.AdjustmentRepository
	opts            LedgerOptions
}

// NewLedgerService creates a new LedgerServiceImpl
func NewLedgerService(participantRepo repositories.ParticipantRepository, adjustmentRepo repositories.AdjustmentRepository, opts LedgerOptions) *LedgerServiceImpl {
	if opts.InitialSlots <= 0 {
		opts.InitialSlots = 1
	}
	if opts.MinSlots < 0 {
		opts.MinSlots = 0
	}
	if opts.PurchaseUnit <= 0 {
		opts.PurchaseUnit = 100
	}
	return &LedgerServiceImpl{
		participantRepo: participantRepo,
		adjustmentRepo:  adjustmentRepo,
		opts:            opts,
	}
}

// Register creates a participant with the initial slot grant
func (s *LedgerServiceImpl) Register(ctx context.Context, name, email, country string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.participantRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Error("Failed to check for existing participant", "error", err, "email", email)
		return nil, fmt.Errorf("failed to check for existing participant: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	participant := &models.Participant{
		Name:     name,
		Email:    email,
		Country:  country,
		Slots:    s.opts.InitialSlots,
		JoinedAt: time.Now(),
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		slog.Error("Failed to create participant", "error", err, "email", email)
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	s.audit(ctx, participant.ID, s.opts.InitialSlots, participant.Slots, models.ReasonRegistration)
	slog.Info("Participant registered", "participantId", participant.ID, "name", name, "slots", participant.Slots)
	return participant, nil
}

// GetParticipant retrieves a participant by ID
func (s *LedgerServiceImpl) GetParticipant(ctx context.Context, id primitive.ObjectID) (*models.Participant, error) {
	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to retrieve participant: %w", err)
	}
	return participant, nil
}

// ListParticipants returns all participants in snapshot order
func (s *LedgerServiceImpl) ListParticipants(ctx context.Context) ([]*models.Participant, error) {
	participants, err := s.participantRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

// GetSlots returns the participant's current slot count
func (s *LedgerServiceImpl) GetSlots(ctx context.Context, id primitive.ObjectID) (int, error) {
	participant, err := s.GetParticipant(ctx, id)
	if err != nil {
		return 0, err
	}
	return participant.Slots, nil
}

// AdjustSlots applies delta clamped to the configured floor and audits the
// applied change. The resulting count is never negative.
func (s *LedgerServiceImpl) AdjustSlots(ctx context.Context, id primitive.ObjectID, delta int, reason models.AdjustmentReason) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustLocked(ctx, id, delta, reason)
}

// adjustLocked is the shared mutation path; callers hold s.mu.
func (s *LedgerServiceImpl) adjustLocked(ctx context.Context, id primitive.ObjectID, delta int, reason models.AdjustmentReason) (int, error) {
	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrParticipantNotFound
		}
		return 0, fmt.Errorf("failed to retrieve participant: %w", err)
	}

	newCount := participant.Slots + delta
	if newCount < s.opts.MinSlots {
		newCount = s.opts.MinSlots
	}
	if err := s.participantRepo.UpdateSlots(ctx, id, newCount); err != nil {
		slog.Error("Failed to update slots", "error", err, "participantId", id)
		return 0, fmt.Errorf("failed to update slots: %w", err)
	}

	s.audit(ctx, id, newCount-participant.Slots, newCount, reason)
	slog.Info("Slots adjusted", "participantId", id, "delta", delta, "applied", newCount-participant.Slots, "slots", newCount, "reason", reason)
	return newCount, nil
}

// SetSlots overrides the count with an absolute value. Negative values are
// rejected with ErrInvalidSlotValue, never clamped.
func (s *LedgerServiceImpl) SetSlots(ctx context.Context, id primitive.ObjectID, value int) (int, error) {
	if value < 0 {
		return 0, ErrInvalidSlotValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrParticipantNotFound
		}
		return 0, fmt.Errorf("failed to retrieve participant: %w", err)
	}
	if err := s.participantRepo.UpdateSlots(ctx, id, value); err != nil {
		return 0, fmt.Errorf("failed to update slots: %w", err)
	}

	s.audit(ctx, id, value-participant.Slots, value, models.ReasonAdminSet)
	slog.Info("Slots set", "participantId", id, "slots", value)
	return value, nil
}

// BulkAdjust applies delta to every matching participant, each clamped
// individually. The whole pass runs under one lock acquisition, so it is
// atomic with respect to snapshots.
func (s *LedgerServiceImpl) BulkAdjust(ctx context.Context, delta int, predicate func(*models.Participant) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := s.participantRepo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list participants: %w", err)
	}

	adjusted := 0
	for _, participant := range participants {
		if predicate != nil && !predicate(participant) {
			continue
		}
		newCount := participant.Slots + delta
		if newCount < s.opts.MinSlots {
			newCount = s.opts.MinSlots
		}
		if newCount == participant.Slots {
			continue
		}
		if err := s.participantRepo.UpdateSlots(ctx, participant.ID, newCount); err != nil {
			slog.Error("BulkAdjust: failed to update slots", "error", err, "participantId", participant.ID)
			return adjusted, fmt.Errorf("failed to update slots for %s: %w", participant.ID.Hex(), err)
		}
		s.audit(ctx, participant.ID, newCount-participant.Slots, newCount, models.ReasonBulkAdjust)
		adjusted++
	}

	slog.Info("Bulk adjustment applied", "delta", delta, "adjusted", adjusted)
	return adjusted, nil
}

// RecordPurchase grants one bonus slot per configured purchase unit.
// Returns the number of slots granted (possibly zero).
func (s *LedgerServiceImpl) RecordPurchase(ctx context.Context, id primitive.ObjectID, amount float64) (int, error) {
	bonus := int(amount / s.opts.PurchaseUnit)
	if bonus <= 0 {
		slog.Info("No slots granted for purchase amount", "participantId", id, "amount", amount)
		// Still verify the participant exists so bad IDs are not silently accepted
		if _, err := s.GetParticipant(ctx, id); err != nil {
			return 0, err
		}
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.adjustLocked(ctx, id, bonus, models.ReasonPurchase); err != nil {
		return 0, err
	}
	slog.Info("Purchase bonus granted", "participantId", id, "amount", amount, "bonusSlots", bonus)
	return bonus, nil
}

// Snapshot returns a consistent, ordered copy of the ledger. It takes the
// ledger lock, so it cannot interleave with an in-flight adjustment.
func (s *LedgerServiceImpl) Snapshot(ctx context.Context) (*models.LedgerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(ctx)
}

func (s *LedgerServiceImpl) snapshotLocked(ctx context.Context) (*models.LedgerSnapshot, error) {
	participants, err := s.participantRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot ledger: %w", err)
	}

	snapshot := &models.LedgerSnapshot{
		TakenAt: time.Now(),
		Entries: make([]models.SlotEntry, 0, len(participants)),
	}
	for _, participant := range participants {
		snapshot.Entries = append(snapshot.Entries, models.SlotEntry{
			ParticipantID: participant.ID,
			Name:          participant.Name,
			Slots:         participant.Slots,
		})
		snapshot.TotalSlots += participant.Slots
	}
	return snapshot, nil
}

// WinChance returns the participant's live probability: slots / totalWeight
func (s *LedgerServiceImpl) WinChance(ctx context.Context, id primitive.ObjectID) (float64, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	for _, entry := range snapshot.Entries {
		if entry.ParticipantID == id {
			if snapshot.TotalSlots == 0 {
				return 0, nil
			}
			return float64(entry.Slots) / float64(snapshot.TotalSlots), nil
		}
	}
	return 0, ErrParticipantNotFound
}

// Stats summarizes the ledger for the admin dashboard
func (s *LedgerServiceImpl) Stats(ctx context.Context) (*models.LedgerStats, error) {
	participants, err := s.participantRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ledger stats: %w", err)
	}
	stats := &models.LedgerStats{TotalParticipants: int64(len(participants))}
	for _, participant := range participants {
		stats.TotalSlots += participant.Slots
		if participant.Slots > 1 {
			stats.BoostedCount++
		}
	}
	return stats, nil
}

// History returns the audit trail for one participant, oldest first
func (s *LedgerServiceImpl) History(ctx context.Context, id primitive.ObjectID) ([]*models.SlotAdjustment, error) {
	if _, err := s.GetParticipant(ctx, id); err != nil {
		return nil, err
	}
	adjustments, err := s.adjustmentRepo.FindByParticipantID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve adjustment history: %w", err)
	}
	return adjustments, nil
}

// RecentActivity returns the latest audit records across all participants,
// newest first. Feeds the admin activity panel.
func (s *LedgerServiceImpl) RecentActivity(ctx context.Context, limit int) ([]*models.SlotAdjustment, error) {
	if limit <= 0 {
		limit = 20
	}
	adjustments, err := s.adjustmentRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent activity: %w", err)
	}
	return adjustments, nil
}

// RemoveParticipant deletes a participant. Their audit records are kept; the
// trail stays append-only.
func (s *LedgerServiceImpl) RemoveParticipant(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.participantRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to retrieve participant: %w", err)
	}
	if err := s.participantRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	slog.Info("Participant removed", "participantId", id)
	return nil
}

// audit appends an adjustment record. Audit failures are logged, not
// propagated: the mutation itself already succeeded.
func (s *LedgerServiceImpl) audit(ctx context.Context, id primitive.ObjectID, delta, resulting int, reason models.AdjustmentReason) {
	record := &models.SlotAdjustment{
		ParticipantID:  id,
		Delta:          delta,
		ResultingSlots: resulting,
		Reason:         reason,
	}
	if err := s.adjustmentRepo.Create(ctx, record); err != nil {
		slog.Error("Failed to append audit record", "error", err, "participantId", id, "reason", reason)
	}
}
