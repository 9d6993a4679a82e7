package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant represents a registered giveaway participant
type Participant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Country   string             `bson:"country,omitempty" json:"country,omitempty"`
	Slots     int                `bson:"slots" json:"slots"`
	JoinedAt  time.Time          `bson:"joinedAt" json:"joinedAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
