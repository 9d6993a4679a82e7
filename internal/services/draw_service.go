package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	"github.com/spinwin/giveaway-backend/internal/rng"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

const defaultResultLimit = 50

// DrawServiceImpl orchestrates the scheduler, ledger and selector into a
// repeatable draw cycle. A mutex serializes Tick, ForceDraw and ResetDraw so
// a cycle is never processed twice.
//
// The ledger snapshot for a cycle is taken exactly once, at the moment the
// window enters DUE. Adjustments submitted after that point cannot affect the
// cycle's selection.
type DrawServiceImpl struct {
	mu             sync.Mutex
	ledger         LedgerService
	scheduler      *DrawScheduler
	windowRepo     repositories.DrawWindowRepository
	resultRepo     repositories.DrawResultRepository
	settings       GameSettingsService
	windowDuration time.Duration

	pendingSnapshot *models.LedgerSnapshot
	snapshotWindow  primitive.ObjectID
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	ledger LedgerService,
	scheduler *DrawScheduler,
	windowRepo repositories.DrawWindowRepository,
	resultRepo repositories.DrawResultRepository,
	settings GameSettingsService,
	windowDuration time.Duration,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		ledger:         ledger,
		scheduler:      scheduler,
		windowRepo:     windowRepo,
		resultRepo:     resultRepo,
		settings:       settings,
		windowDuration: windowDuration,
	}
}

// Tick advances the draw cycle. It is invoked by an external timer loop and
// is safe to call at any frequency.
func (s *DrawServiceImpl) Tick(ctx context.Context) (*models.DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load game settings: %w", err)
	}
	if !settings.GameActive {
		return nil, nil
	}

	window, err := s.latestWindow(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			_, err = s.startWindowLocked(ctx)
			return nil, err
		}
		return nil, err
	}

	if window.Status == models.DrawStatusCompleted {
		if settings.AutoSpin {
			_, err = s.startWindowLocked(ctx)
			return nil, err
		}
		return nil, nil
	}

	switch s.scheduler.Status(window) {
	case models.DrawStatusPending:
		return nil, nil
	case models.DrawStatusUrgent:
		if window.Status != models.DrawStatusUrgent {
			window.Status = models.DrawStatusUrgent
			if err := s.windowRepo.Update(ctx, window); err != nil {
				return nil, fmt.Errorf("failed to mark window urgent: %w", err)
			}
			slog.Info("Draw window urgent", "windowId", window.ID, "deadline", window.Deadline())
		}
		return nil, nil
	case models.DrawStatusDue:
		if err := s.markDueLocked(ctx, window); err != nil {
			return nil, err
		}
		result, err := s.selectWinnerLocked(ctx, window, false)
		if err != nil {
			if errors.Is(err, rng.ErrEmptyPool) {
				// Stay DUE; the snapshot is discarded so the retry on the
				// next tick sees any entries added in the meantime.
				s.clearSnapshotLocked()
				slog.Warn("Draw due but pool is empty, will retry", "windowId", window.ID)
			}
			return nil, err
		}
		return result, nil
	}
	return nil, nil
}

// ForceDraw runs the selection immediately, bypassing the countdown.
// An empty pool is surfaced to the caller and the window stays DUE.
func (s *DrawServiceImpl) ForceDraw(ctx context.Context) (*models.DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load game settings: %w", err)
	}
	if !settings.GameActive {
		return nil, ErrGamePaused
	}

	window, err := s.latestWindow(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoActiveWindow
		}
		return nil, err
	}
	if window.Status == models.DrawStatusCompleted {
		return nil, ErrNoActiveWindow
	}

	if err := s.markDueLocked(ctx, window); err != nil {
		return nil, err
	}
	result, err := s.selectWinnerLocked(ctx, window, true)
	if err != nil {
		if errors.Is(err, rng.ErrEmptyPool) {
			s.clearSnapshotLocked()
		}
		return nil, err
	}
	slog.Info("Forced draw completed", "windowId", window.ID, "winner", result.WinnerName)
	return result, nil
}

// ResetDraw discards the active window and opens a fresh PENDING one.
// Destructive: confirmation is the caller's responsibility.
func (s *DrawServiceImpl) ResetDraw(ctx context.Context) (*models.DrawWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSnapshotLocked()
	window, err := s.startWindowLocked(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Draw reset", "windowId", window.ID, "deadline", window.Deadline())
	return window, nil
}

// CurrentStatus returns the countdown view for the active window
func (s *DrawServiceImpl) CurrentStatus(ctx context.Context) (*models.CountdownView, error) {
	window, err := s.latestWindow(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoActiveWindow
		}
		return nil, err
	}
	return s.scheduler.Countdown(window), nil
}

// Results returns the draw result log, newest first
func (s *DrawServiceImpl) Results(ctx context.Context, limit int) ([]*models.DrawResult, error) {
	if limit <= 0 {
		limit = defaultResultLimit
	}
	results, err := s.resultRepo.FindAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve draw results: %w", err)
	}
	return results, nil
}

// VerifyLatest replays the most recent result's recorded roll against its
// snapshot and reports whether the stored winner is reproduced.
func (s *DrawServiceImpl) VerifyLatest(ctx context.Context) (bool, error) {
	result, err := s.resultRepo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrNoActiveWindow
		}
		return false, fmt.Errorf("failed to retrieve latest result: %w", err)
	}

	pool, err := rng.BuildPool(snapshotWeights(&result.Snapshot))
	if err != nil {
		return false, fmt.Errorf("failed to rebuild pool from snapshot: %w", err)
	}
	idx, err := pool.Pick(result.Roll)
	if err != nil {
		return false, fmt.Errorf("failed to replay recorded roll: %w", err)
	}
	return result.Snapshot.Entries[idx].ParticipantID == result.WinnerID, nil
}

// --- internal helpers; callers hold s.mu unless noted ---

// latestWindow does not take the mutex; CurrentStatus calls it for a
// read-only view.
func (s *DrawServiceImpl) latestWindow(ctx context.Context) (*models.DrawWindow, error) {
	return s.windowRepo.FindLatest(ctx)
}

func (s *DrawServiceImpl) startWindowLocked(ctx context.Context) (*models.DrawWindow, error) {
	window := &models.DrawWindow{
		StartTime: time.Now(),
		Duration:  s.windowDuration,
		Status:    models.DrawStatusPending,
	}
	if err := s.windowRepo.Create(ctx, window); err != nil {
		return nil, fmt.Errorf("failed to create draw window: %w", err)
	}
	slog.Info("Draw window opened", "windowId", window.ID, "deadline", window.Deadline())
	return window, nil
}

// markDueLocked transitions the window to DUE and takes the cycle's ledger
// snapshot if it has not been taken yet.
func (s *DrawServiceImpl) markDueLocked(ctx context.Context, window *models.DrawWindow) error {
	if window.Status != models.DrawStatusDue {
		window.Status = models.DrawStatusDue
		if err := s.windowRepo.Update(ctx, window); err != nil {
			return fmt.Errorf("failed to mark window due: %w", err)
		}
		slog.Info("Draw window due", "windowId", window.ID)
	}
	if s.pendingSnapshot == nil || s.snapshotWindow != window.ID {
		snapshot, err := s.ledger.Snapshot(ctx)
		if err != nil {
			return err
		}
		s.pendingSnapshot = snapshot
		s.snapshotWindow = window.ID
	}
	return nil
}

// selectWinnerLocked runs the weighted selection over the cycle's snapshot
// and, on success, appends the result and completes the window.
func (s *DrawServiceImpl) selectWinnerLocked(ctx context.Context, window *models.DrawWindow, forced bool) (*models.DrawResult, error) {
	snapshot := s.pendingSnapshot

	pool, err := rng.BuildPool(snapshotWeights(snapshot))
	if err != nil {
		return nil, err
	}
	idx, roll, err := pool.Draw()
	if err != nil {
		return nil, fmt.Errorf("selection failed: %w", err)
	}
	winner := snapshot.Entries[idx]

	result := &models.DrawResult{
		WindowID:    window.ID,
		WinnerID:    winner.ParticipantID,
		WinnerName:  winner.Name,
		Snapshot:    *snapshot,
		Roll:        roll,
		Forced:      forced,
		CompletedAt: time.Now(),
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to record draw result: %w", err)
	}

	window.Status = models.DrawStatusCompleted
	if err := s.windowRepo.Update(ctx, window); err != nil {
		// The result is already recorded; a stuck window is recovered by the
		// next ResetDraw rather than by double-drawing.
		slog.Error("Failed to complete draw window", "error", err, "windowId", window.ID)
		return result, fmt.Errorf("failed to complete draw window: %w", err)
	}
	s.clearSnapshotLocked()

	slog.Info("Draw completed", "windowId", window.ID, "winner", winner.Name,
		"winnerId", winner.ParticipantID, "roll", roll, "totalWeight", pool.TotalWeight())
	return result, nil
}

func (s *DrawServiceImpl) clearSnapshotLocked() {
	s.pendingSnapshot = nil
	s.snapshotWindow = primitive.NilObjectID
}

func snapshotWeights(snapshot *models.LedgerSnapshot) []int {
	weights := make([]int, len(snapshot.Entries))
	for i, entry := range snapshot.Entries {
		weights[i] = entry.Slots
	}
	return weights
}
