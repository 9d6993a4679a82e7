package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories/memory"
	"github.com/spinwin/giveaway-backend/internal/rng"
)

type drawFixture struct {
	ledger   *LedgerServiceImpl
	draws    *DrawServiceImpl
	windows  *memory.DrawWindowRepository
	results  *memory.DrawResultRepository
	settings *GameSettingsServiceImpl
	now      time.Time
}

func newDrawFixture() *drawFixture {
	fx := &drawFixture{now: time.Now()}
	fx.ledger = newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	fx.windows = memory.NewDrawWindowRepository()
	fx.results = memory.NewDrawResultRepository()
	fx.settings = NewGameSettingsService(memory.NewGameSettingsRepository())

	scheduler := NewDrawScheduler(6 * time.Hour)
	scheduler.now = func() time.Time { return fx.now }

	fx.draws = NewDrawService(fx.ledger, scheduler, fx.windows, fx.results, fx.settings, 24*time.Hour)
	return fx
}

func (fx *drawFixture) advance(d time.Duration) {
	fx.now = fx.now.Add(d)
}

func (fx *drawFixture) latestWindow(t *testing.T) *models.DrawWindow {
	t.Helper()
	window, err := fx.windows.FindLatest(context.Background())
	if err != nil {
		t.Fatalf("failed to load latest window: %v", err)
	}
	return window
}

func (fx *drawFixture) pause(t *testing.T) {
	t.Helper()
	if _, err := fx.settings.Update(context.Background(), &models.GameSettings{GameActive: false, AutoSpin: true}); err != nil {
		t.Fatalf("failed to pause game: %v", err)
	}
}

func TestTickLifecycle(t *testing.T) {
	ctx := context.Background()
	fx := newDrawFixture()
	mustRegister(t, fx.ledger, "Atif", 10)
	mustRegister(t, fx.ledger, "Bola", 1)
	mustRegister(t, fx.ledger, "Chidi", 1)

	t.Run("first tick opens a pending window", func(t *testing.T) {
		result, err := fx.draws.Tick(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != nil {
			t.Fatal("no result expected before the deadline")
		}
		if got := fx.latestWindow(t).Status; got != models.DrawStatusPending {
			t.Errorf("window status = %s, want PENDING", got)
		}
	})

	t.Run("pending ticks are no-ops", func(t *testing.T) {
		fx.advance(2 * time.Hour)
		result, err := fx.draws.Tick(ctx)
		if err != nil || result != nil {
			t.Fatalf("Tick() = (%v, %v), want (nil, nil)", result, err)
		}
	})

	t.Run("urgency is persisted when the threshold is crossed", func(t *testing.T) {
		fx.advance(17 * time.Hour) // 19h elapsed, 5h remaining
		result, err := fx.draws.Tick(ctx)
		if err != nil || result != nil {
			t.Fatalf("Tick() = (%v, %v), want (nil, nil)", result, err)
		}
		if got := fx.latestWindow(t).Status; got != models.DrawStatusUrgent {
			t.Errorf("window status = %s, want URGENT", got)
		}
	})

	t.Run("the due tick executes the draw", func(t *testing.T) {
		fx.advance(6 * time.Hour) // past the deadline
		result, err := fx.draws.Tick(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result == nil {
			t.Fatal("expected a draw result")
		}
		if result.Forced {
			t.Error("a scheduled draw should not be marked forced")
		}
		if result.Snapshot.TotalSlots != 12 {
			t.Errorf("snapshot total = %d, want 12", result.Snapshot.TotalSlots)
		}
		if result.Roll < 0 || result.Roll >= 12 {
			t.Errorf("roll %d out of range [0, 12)", result.Roll)
		}
		if got := fx.latestWindow(t).Status; got != models.DrawStatusCompleted {
			t.Errorf("window status = %s, want COMPLETED", got)
		}
		if result.WinnerID.IsZero() {
			t.Error("expected a winner ID")
		}
	})

	t.Run("the next tick rolls over into a fresh window", func(t *testing.T) {
		completed := fx.latestWindow(t)
		result, err := fx.draws.Tick(ctx)
		if err != nil || result != nil {
			t.Fatalf("Tick() = (%v, %v), want (nil, nil)", result, err)
		}
		next := fx.latestWindow(t)
		if next.ID == completed.ID {
			t.Fatal("expected a new window after completion")
		}
		if next.Status != models.DrawStatusPending {
			t.Errorf("window status = %s, want PENDING", next.Status)
		}
	})
}

func TestTickEmptyPool(t *testing.T) {
	ctx := context.Background()
	fx := newDrawFixture()

	if _, err := fx.draws.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fx.advance(25 * time.Hour)

	t.Run("a due draw with no entries fails and stays due", func(t *testing.T) {
		_, err := fx.draws.Tick(ctx)
		if !errors.Is(err, rng.ErrEmptyPool) {
			t.Fatalf("expected ErrEmptyPool, got %v", err)
		}
		if got := fx.latestWindow(t).Status; got != models.DrawStatusDue {
			t.Errorf("window status = %s, want DUE", got)
		}
	})

	t.Run("the retry picks up late entries", func(t *testing.T) {
		p := mustRegister(t, fx.ledger, "Atif", 3)
		result, err := fx.draws.Tick(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result == nil {
			t.Fatal("expected a draw result once the pool is non-empty")
		}
		if result.WinnerID != p.ID {
			t.Errorf("winner = %s, want the only participant", result.WinnerID.Hex())
		}
		if result.Snapshot.TotalSlots != 3 {
			t.Errorf("snapshot total = %d, want 3; stale snapshot reused", result.Snapshot.TotalSlots)
		}
	})
}

func TestTickPaused(t *testing.T) {
	ctx := context.Background()
	fx := newDrawFixture()
	fx.pause(t)

	result, err := fx.draws.Tick(ctx)
	if err != nil || result != nil {
		t.Fatalf("Tick() = (%v, %v), want (nil, nil)", result, err)
	}
	if _, err := fx.windows.FindLatest(ctx); err == nil {
		t.Error("no window should be opened while the game is paused")
	}
}

func TestAutoSpinDisabled(t *testing.T) {
	ctx := context.Background()
	fx := newDrawFixture()
	mustRegister(t, fx.ledger, "Atif", 2)

	if _, err := fx.settings.Update(ctx, &models.GameSettings{GameActive: true, AutoSpin: false}); err != nil {
		t.Fatalf("failed to update settings: %v", err)
	}

	if _, err := fx.draws.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fx.advance(25 * time.Hour)
	if _, err := fx.draws.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed := fx.latestWindow(t)
	if completed.Status != models.DrawStatusCompleted {
		t.Fatalf("window status = %s, want COMPLETED", completed.Status)
	}

	// Without auto-spin the cycle stays parked on the completed window
	result, err := fx.draws.Tick(ctx)
	if err != nil || result != nil {
		t.Fatalf("Tick() = (%v, %v), want (nil, nil)", result, err)
	}
	if fx.latestWindow(t).ID != completed.ID {
		t.Error("no new window should open while auto-spin is off")
	}
}

func TestForceDraw(t *testing.T) {
	ctx := context.Background()

	t.Run("executes immediately during the countdown", func(t *testing.T) {
		fx := newDrawFixture()
		mustRegister(t, fx.ledger, "Atif", 10)
		mustRegister(t, fx.ledger, "Bola", 1)

		if _, err := fx.draws.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		result, err := fx.draws.ForceDraw(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Forced {
			t.Error("result should be marked forced")
		}
		if got := fx.latestWindow(t).Status; got != models.DrawStatusCompleted {
			t.Errorf("window status = %s, want COMPLETED", got)
		}
	})

	t.Run("fails with an empty pool and stays due", func(t *testing.T) {
		fx := newDrawFixture()
		if _, err := fx.draws.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := fx.draws.ForceDraw(ctx)
		if !errors.Is(err, rng.ErrEmptyPool) {
			t.Fatalf("expected ErrEmptyPool, got %v", err)
		}
		if got := fx.latestWindow(t).Status; got != models.DrawStatusDue {
			t.Errorf("window status = %s, want DUE", got)
		}
	})

	t.Run("rejected while the game is paused", func(t *testing.T) {
		fx := newDrawFixture()
		mustRegister(t, fx.ledger, "Atif", 1)
		if _, err := fx.draws.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fx.pause(t)

		if _, err := fx.draws.ForceDraw(ctx); !errors.Is(err, ErrGamePaused) {
			t.Fatalf("expected ErrGamePaused, got %v", err)
		}
	})

	t.Run("rejected without an active window", func(t *testing.T) {
		fx := newDrawFixture()
		if _, err := fx.draws.ForceDraw(ctx); !errors.Is(err, ErrNoActiveWindow) {
			t.Fatalf("expected ErrNoActiveWindow, got %v", err)
		}
	})

	t.Run("rejected after the window is completed", func(t *testing.T) {
		fx := newDrawFixture()
		mustRegister(t, fx.ledger, "Atif", 1)
		if _, err := fx.draws.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := fx.draws.ForceDraw(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := fx.draws.ForceDraw(ctx); !errors.Is(err, ErrNoActiveWindow) {
			t.Fatalf("expected ErrNoActiveWindow, got %v", err)
		}
	})
}

func TestResetDraw(t *testing.T) {
	ctx := context.Background()
	fx := newDrawFixture()
	mustRegister(t, fx.ledger, "Atif", 1)

	if _, err := fx.draws.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := fx.latestWindow(t)

	window, err := fx.draws.ResetDraw(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.ID == first.ID {
		t.Error("reset should open a new window")
	}
	if window.Status != models.DrawStatusPending {
		t.Errorf("window status = %s, want PENDING", window.Status)
	}
}

func TestCurrentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("no window yet", func(t *testing.T) {
		fx := newDrawFixture()
		if _, err := fx.draws.CurrentStatus(ctx); !errors.Is(err, ErrNoActiveWindow) {
			t.Fatalf("expected ErrNoActiveWindow, got %v", err)
		}
	})

	t.Run("reports the countdown view", func(t *testing.T) {
		fx := newDrawFixture()
		if _, err := fx.draws.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fx.advance(20 * time.Hour)

		view, err := fx.draws.CurrentStatus(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Status != models.DrawStatusUrgent {
			t.Errorf("Status = %s, want URGENT", view.Status)
		}
		if !view.Urgent {
			t.Error("Urgent should be true with 4h remaining")
		}
	})
}

func TestVerifyLatest(t *testing.T) {
	ctx := context.Background()

	t.Run("no results yet", func(t *testing.T) {
		fx := newDrawFixture()
		if _, err := fx.draws.VerifyLatest(ctx); !errors.Is(err, ErrNoActiveWindow) {
			t.Fatalf("expected ErrNoActiveWindow, got %v", err)
		}
	})

	t.Run("a recorded draw replays to the stored winner", func(t *testing.T) {
		fx := newDrawFixture()
		mustRegister(t, fx.ledger, "Atif", 10)
		mustRegister(t, fx.ledger, "Bola", 1)
		mustRegister(t, fx.ledger, "Chidi", 1)

		if _, err := fx.draws.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := fx.draws.ForceDraw(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ok, err := fx.draws.VerifyLatest(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Error("replaying the recorded roll should reproduce the winner")
		}
	})
}
