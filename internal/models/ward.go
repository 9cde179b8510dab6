// server/internal/models/ward.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Ward struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WardNumber       string             `bson:"wardNumber" json:"wardNumber"` // e.g., "WD-03"
	Name             string             `bson:"name" json:"name"`
	Type             string             `bson:"type" json:"type"` // e.g., "GENERAL", "ICU", "DIALYSIS", "MATERNITY"
	Capacity         int                `bson:"capacity" json:"capacity"`
	CurrentOccupancy int                `bson:"currentOccupancy" json:"currentOccupancy"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
