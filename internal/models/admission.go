// server/internal/models/admission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admission statuses.
const (
	AdmissionAdmitted    = "ADMITTED"
	AdmissionTransferred = "TRANSFERRED"
	AdmissionDischarged  = "DISCHARGED"
)

// TransferRecord keeps the history of ward-to-ward moves within one admission.
type TransferRecord struct {
	FromWard      string    `bson:"fromWard" json:"fromWard"`
	FromBed       string    `bson:"fromBed" json:"fromBed"`
	ToWard        string    `bson:"toWard" json:"toWard"`
	ToBed         string    `bson:"toBed" json:"toBed"`
	Reason        string    `bson:"reason" json:"reason"`
	TransferredBy string    `bson:"transferredBy" json:"transferredBy"`
	TransferredAt time.Time `bson:"transferredAt" json:"transferredAt"`
}

type Admission struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdmissionID     string             `bson:"admissionID" json:"admissionID"` // e.g., "ADM-1A2B3C4D"
	PatientID       string             `bson:"patientID" json:"patientID"`
	WardNumber      string             `bson:"wardNumber" json:"wardNumber"`
	BedNumber       string             `bson:"bedNumber" json:"bedNumber"`
	AdmittingDoctor string             `bson:"admittingDoctor" json:"admittingDoctor"`
	Diagnosis       string             `bson:"diagnosis" json:"diagnosis"`
	Status          string             `bson:"status" json:"status"`
	Transfers       []TransferRecord   `bson:"transfers" json:"transfers"`
	AdmittedAt      time.Time          `bson:"admittedAt" json:"admittedAt"`
	DischargedAt    *time.Time         `bson:"dischargedAt,omitempty" json:"dischargedAt,omitempty"`
}
