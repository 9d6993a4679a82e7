package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the lifecycle state of a draw window
type DrawStatus string

const (
	DrawStatusPending   DrawStatus = "PENDING"
	DrawStatusUrgent    DrawStatus = "URGENT"
	DrawStatusDue       DrawStatus = "DUE"
	DrawStatusCompleted DrawStatus = "COMPLETED"
)

// DrawWindow represents one draw cycle: it opens PENDING, turns URGENT as the
// deadline approaches, DUE when the countdown expires, and COMPLETED once a
// winner has been produced.
type DrawWindow struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StartTime time.Time          `bson:"startTime" json:"startTime"`
	Duration  time.Duration      `bson:"durationNs" json:"-"`
	Status    DrawStatus         `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Deadline returns the instant the window becomes due.
func (w *DrawWindow) Deadline() time.Time {
	return w.StartTime.Add(w.Duration)
}

// DrawResult records one completed draw. Immutable once created; the result
// log is append-only and ordered by completion time. Roll is the raw random
// value used for selection so the draw can be replayed against Snapshot.
type DrawResult struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	WindowID    primitive.ObjectID `bson:"windowId" json:"windowId"`
	WinnerID    primitive.ObjectID `bson:"winnerId" json:"winnerId"`
	WinnerName  string             `bson:"winnerName" json:"winnerName"`
	Snapshot    LedgerSnapshot     `bson:"snapshot" json:"snapshot"`
	Roll        int64              `bson:"roll" json:"roll"`
	Forced      bool               `bson:"forced" json:"forced"`
	CompletedAt time.Time          `bson:"completedAt" json:"completedAt"`
}

// CountdownView is the read-only state exposed to the countdown display
type CountdownView struct {
	Status           DrawStatus `json:"status"`
	RemainingSeconds int64      `json:"remainingSeconds"`
	Urgent           bool       `json:"urgent"`
	Deadline         time.Time  `json:"deadline"`
}
