// server/internal/models/prescription.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrescriptionItem is one prescribed medication line.
type PrescriptionItem struct {
	MedicationID string `bson:"medicationID" json:"medicationID"`
	DrugName     string `bson:"drugName" json:"drugName"`
	Dosage       string `bson:"dosage" json:"dosage"`       // e.g., "500mg"
	Frequency    string `bson:"frequency" json:"frequency"` // e.g., "TDS", "BD", "nocte"
	DurationDays int    `bson:"durationDays" json:"durationDays"`
	Quantity     int    `bson:"quantity" json:"quantity"`
}

type Prescription struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PrescriptionNumber string             `bson:"prescriptionNumber" json:"prescriptionNumber"` // e.g., "RX-1A2B3C4D"
	PatientID          string             `bson:"patientID" json:"patientID"`
	PatientName        string             `bson:"patientName" json:"patientName"`
	PrescribedBy       string             `bson:"prescribedBy" json:"prescribedBy"`
	Items              []PrescriptionItem `bson:"items" json:"items"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}
