// server/internal/models/patient.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Patient struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID   string             `bson:"patientID" json:"patientID"` // e.g., "PT-1A2B3C4D"
	Name        string             `bson:"name" json:"name"`
	NIC         string             `bson:"nic" json:"nic"`
	DateOfBirth time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender      string             `bson:"gender" json:"gender"`
	Address     string             `bson:"address" json:"address"`
	Phone       string             `bson:"phone" json:"phone"`
	BloodGroup  string             `bson:"bloodGroup" json:"bloodGroup"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
