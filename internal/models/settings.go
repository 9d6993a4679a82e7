package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameSettings represents admin-controlled game configuration
type GameSettings struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PrizeName        string             `bson:"prizeName" json:"prizeName"`
	PrizeDescription string             `bson:"prizeDescription" json:"prizeDescription"`
	GameActive       bool               `bson:"gameActive" json:"gameActive"`
	AutoSpin         bool               `bson:"autoSpin" json:"autoSpin"`
	UpdatedBy        string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
