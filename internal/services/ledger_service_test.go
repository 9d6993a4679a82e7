package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spinwin/giveaway-backend/internal/models"
	"github.com/spinwin/giveaway-backend/internal/repositories/memory"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLedger(opts LedgerOptions) *LedgerServiceImpl {
	return NewLedgerService(memory.NewParticipantRepository(), memory.NewAdjustmentRepository(), opts)
}

func mustRegister(t *testing.T, ledger *LedgerServiceImpl, name string, slots int) *models.Participant {
	t.Helper()
	ctx := context.Background()
	participant, err := ledger.Register(ctx, name, name+"@example.com", "NG")
	if err != nil {
		t.Fatalf("failed to register %s: %v", name, err)
	}
	if slots != participant.Slots {
		if _, err := ledger.SetSlots(ctx, participant.ID, slots); err != nil {
			t.Fatalf("failed to set slots for %s: %v", name, err)
		}
		participant.Slots = slots
	}
	return participant
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("grants the initial slot", func(t *testing.T) {
		ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
		participant, err := ledger.Register(ctx, "Atif", "atif@example.com", "PK")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if participant.Slots != 1 {
			t.Errorf("Slots = %d, want 1", participant.Slots)
		}
		if participant.ID.IsZero() {
			t.Error("expected a generated ID")
		}
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
		if _, err := ledger.Register(ctx, "Atif", "atif@example.com", "PK"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := ledger.Register(ctx, "Impostor", "atif@example.com", "PK")
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("records the grant in the audit trail", func(t *testing.T) {
		ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
		participant, err := ledger.Register(ctx, "Atif", "atif@example.com", "PK")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		history, err := ledger.History(ctx, participant.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("expected 1 audit record, got %d", len(history))
		}
		if history[0].Reason != models.ReasonRegistration {
			t.Errorf("Reason = %s, want REGISTRATION", history[0].Reason)
		}
		if history[0].Delta != 1 || history[0].ResultingSlots != 1 {
			t.Errorf("audit record = %+v, want delta 1 resulting 1", history[0])
		}
	})
}

func TestAdjustSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("applies deltas and preserves the ledger total", func(t *testing.T) {
		ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
		a := mustRegister(t, ledger, "Atif", 10)
		b := mustRegister(t, ledger, "Bola", 1)
		c := mustRegister(t, ledger, "Chidi", 1)

		slots, err := ledger.AdjustSlots(ctx, b.ID, 1, models.ReasonAdminBoost)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slots != 2 {
			t.Errorf("AdjustSlots = %d, want 2", slots)
		}

		adjusted, err := ledger.BulkAdjust(ctx, 1, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if adjusted != 3 {
			t.Errorf("BulkAdjust touched %d participants, want 3", adjusted)
		}

		snapshot, err := ledger.Snapshot(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := map[primitive.ObjectID]int{a.ID: 11, b.ID: 3, c.ID: 2}
		for _, entry := range snapshot.Entries {
			if entry.Slots != want[entry.ParticipantID] {
				t.Errorf("%s holds %d slots, want %d", entry.Name, entry.Slots, want[entry.ParticipantID])
			}
		}
		if snapshot.TotalSlots != 16 {
			t.Errorf("TotalSlots = %d, want 16", snapshot.TotalSlots)
		}
	})

	t.Run("clamps a negative delta at the floor", func(t *testing.T) {
		ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
		p := mustRegister(t, ledger, "Atif", 2)

		slots, err := ledger.AdjustSlots(ctx, p.ID, -5, models.ReasonAdminBoost)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slots != 1 {
			t.Errorf("clamped slots = %d, want 1", slots)
		}

		// The audit trail records the applied delta, not the requested one
		history, err := ledger.History(ctx, p.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		last := history[len(history)-1]
		if last.Delta != -1 || last.ResultingSlots != 1 {
			t.Errorf("audit record = delta %d resulting %d, want -1 and 1", last.Delta, last.ResultingSlots)
		}
	})

	t.Run("unknown participant", func(t *testing.T) {
		ledger := newTestLedger(LedgerOptions{})
		_, err := ledger.AdjustSlots(ctx, primitive.NewObjectID(), 1, models.ReasonAdminBoost)
		if !errors.Is(err, ErrParticipantNotFound) {
			t.Fatalf("expected ErrParticipantNotFound, got %v", err)
		}
	})
}

func TestSetSlots(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	p := mustRegister(t, ledger, "Atif", 5)

	t.Run("overrides with an absolute value", func(t *testing.T) {
		slots, err := ledger.SetSlots(ctx, p.ID, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slots != 10 {
			t.Errorf("SetSlots = %d, want 10", slots)
		}
	})

	t.Run("zero bypasses the adjustment floor", func(t *testing.T) {
		slots, err := ledger.SetSlots(ctx, p.ID, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slots != 0 {
			t.Errorf("SetSlots = %d, want 0", slots)
		}
	})

	t.Run("rejects negative values instead of clamping", func(t *testing.T) {
		_, err := ledger.SetSlots(ctx, p.ID, -3)
		if !errors.Is(err, ErrInvalidSlotValue) {
			t.Fatalf("expected ErrInvalidSlotValue, got %v", err)
		}
	})
}

func TestBulkAdjustClamping(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	a := mustRegister(t, ledger, "Atif", 10)
	b := mustRegister(t, ledger, "Bola", 1)

	// B is already at the floor, so only A moves
	adjusted, err := ledger.BulkAdjust(ctx, -3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adjusted != 1 {
		t.Errorf("BulkAdjust touched %d participants, want 1", adjusted)
	}

	aSlots, _ := ledger.GetSlots(ctx, a.ID)
	bSlots, _ := ledger.GetSlots(ctx, b.ID)
	if aSlots != 7 || bSlots != 1 {
		t.Errorf("slots = [%d, %d], want [7, 1]", aSlots, bSlots)
	}
}

func TestRecordPurchase(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1, PurchaseUnit: 100})
	p := mustRegister(t, ledger, "Atif", 1)

	t.Run("grants one slot per purchase unit", func(t *testing.T) {
		bonus, err := ledger.RecordPurchase(ctx, p.ID, 250)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if bonus != 2 {
			t.Errorf("bonus = %d, want 2", bonus)
		}
		slots, _ := ledger.GetSlots(ctx, p.ID)
		if slots != 3 {
			t.Errorf("slots = %d, want 3", slots)
		}
	})

	t.Run("small purchases grant nothing", func(t *testing.T) {
		bonus, err := ledger.RecordPurchase(ctx, p.ID, 50)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if bonus != 0 {
			t.Errorf("bonus = %d, want 0", bonus)
		}
	})

	t.Run("unknown participant is rejected even for a zero bonus", func(t *testing.T) {
		_, err := ledger.RecordPurchase(ctx, primitive.NewObjectID(), 50)
		if !errors.Is(err, ErrParticipantNotFound) {
			t.Fatalf("expected ErrParticipantNotFound, got %v", err)
		}
	})
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	mustRegister(t, ledger, "Atif", 10)
	mustRegister(t, ledger, "Bola", 1)
	mustRegister(t, ledger, "Chidi", 1)

	snapshot, err := ledger.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snapshot.Entries))
	}
	if snapshot.TotalSlots != 12 {
		t.Errorf("TotalSlots = %d, want 12", snapshot.TotalSlots)
	}

	// Snapshot order follows join order
	names := []string{"Atif", "Bola", "Chidi"}
	for i, entry := range snapshot.Entries {
		if entry.Name != names[i] {
			t.Errorf("entry %d is %s, want %s", i, entry.Name, names[i])
		}
	}

	// A snapshot is a copy; later mutations do not leak into it
	if _, err := ledger.AdjustSlots(ctx, snapshot.Entries[0].ParticipantID, 5, models.ReasonAdminBoost); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Entries[0].Slots != 10 {
		t.Errorf("snapshot entry mutated to %d slots", snapshot.Entries[0].Slots)
	}
}

func TestWinChance(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	a := mustRegister(t, ledger, "Atif", 10)
	mustRegister(t, ledger, "Bola", 1)
	mustRegister(t, ledger, "Chidi", 1)

	chance, err := ledger.WinChance(ctx, a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 10.0 / 12.0
	if chance != want {
		t.Errorf("WinChance = %f, want %f", chance, want)
	}

	if _, err := ledger.WinChance(ctx, primitive.NewObjectID()); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	mustRegister(t, ledger, "Atif", 10)
	mustRegister(t, ledger, "Bola", 1)
	mustRegister(t, ledger, "Chidi", 2)

	stats, err := ledger.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalParticipants != 3 {
		t.Errorf("TotalParticipants = %d, want 3", stats.TotalParticipants)
	}
	if stats.TotalSlots != 13 {
		t.Errorf("TotalSlots = %d, want 13", stats.TotalSlots)
	}
	if stats.BoostedCount != 2 {
		t.Errorf("BoostedCount = %d, want 2", stats.BoostedCount)
	}
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	p := mustRegister(t, ledger, "Atif", 3)

	if err := ledger.RemoveParticipant(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ledger.GetParticipant(ctx, p.ID); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound after deletion, got %v", err)
	}
	if err := ledger.RemoveParticipant(ctx, p.ID); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound on double delete, got %v", err)
	}

	snapshot, err := ledger.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.TotalSlots != 0 {
		t.Errorf("TotalSlots = %d, want 0 after deletion", snapshot.TotalSlots)
	}
}

func TestRecentActivity(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	a := mustRegister(t, ledger, "Atif", 1)
	b := mustRegister(t, ledger, "Bola", 1)
	if _, err := ledger.AdjustSlots(ctx, a.ID, 2, models.ReasonAdminBoost); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	activity, err := ledger.RecentActivity(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(activity) != 2 {
		t.Fatalf("expected 2 records, got %d", len(activity))
	}
	// Newest first: the boost, then Bola's registration grant
	if activity[0].Reason != models.ReasonAdminBoost || activity[0].ParticipantID != a.ID {
		t.Errorf("newest record = %+v, want Atif's boost", activity[0])
	}
	if activity[1].ParticipantID != b.ID {
		t.Errorf("second record = %+v, want Bola's registration", activity[1])
	}
}

func TestConcurrentAdjustments(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(LedgerOptions{InitialSlots: 1, MinSlots: 1})
	p := mustRegister(t, ledger, "Atif", 1)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := ledger.AdjustSlots(ctx, p.ID, 1, models.ReasonAdminBoost); err != nil {
				t.Errorf("concurrent adjust failed: %v", err)
			}
		}()
	}
	wg.Wait()

	slots, err := ledger.GetSlots(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots != 1+workers {
		t.Errorf("slots = %d, want %d; adjustments were lost", slots, 1+workers)
	}

	// Every mutation left an audit record
	history, err := ledger.History(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1+workers {
		t.Errorf("audit records = %d, want %d", len(history), 1+workers)
	}
}
