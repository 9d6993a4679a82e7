package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdjustmentReason classifies why a participant's slot count changed
type AdjustmentReason string

const (
	ReasonRegistration AdjustmentReason = "REGISTRATION"
	ReasonPurchase     AdjustmentReason = "PURCHASE"
	ReasonAdminBoost   AdjustmentReason = "ADMIN_BOOST"
	ReasonAdminSet     AdjustmentReason = "ADMIN_SET"
	ReasonBulkAdjust   AdjustmentReason = "BULK_ADJUST"
)

// SlotEntry is one participant's weight within a ledger snapshot
type SlotEntry struct {
	ParticipantID primitive.ObjectID `bson:"participantId" json:"participantId"`
	Name          string             `bson:"name" json:"name"`
	Slots         int                `bson:"slots" json:"slots"`
}

// LedgerSnapshot is an immutable, point-in-time copy of the ledger.
// Entries are ordered by join time so a recorded draw replays identically.
type LedgerSnapshot struct {
	TakenAt    time.Time   `bson:"takenAt" json:"takenAt"`
	Entries    []SlotEntry `bson:"entries" json:"entries"`
	TotalSlots int         `bson:"totalSlots" json:"totalSlots"`
}

// LedgerStats summarizes the ledger for the admin dashboard
type LedgerStats struct {
	TotalParticipants int64 `json:"totalParticipants"`
	TotalSlots        int   `json:"totalSlots"`
	BoostedCount      int   `json:"boostedCount"` // participants holding more than one slot
}

// SlotAdjustment is an append-only audit record of a single ledger mutation
type SlotAdjustment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ParticipantID  primitive.ObjectID `bson:"participantId" json:"participantId"`
	Delta          int                `bson:"delta" json:"delta"`
	ResultingSlots int                `bson:"resultingSlots" json:"resultingSlots"`
	Reason         AdjustmentReason   `bson:"reason" json:"reason"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
