// server/internal/models/appointment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses.
const (
	AppointmentScheduled = "SCHEDULED"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
	AppointmentNoShow    = "NO_SHOW"
)

type Appointment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID string             `bson:"appointmentID" json:"appointmentID"` // e.g., "APT-1A2B3C4D"
	PatientID     string             `bson:"patientID" json:"patientID"`
	DoctorID      string             `bson:"doctorID" json:"doctorID"`
	Department    string             `bson:"department" json:"department"`
	ScheduledAt   time.Time          `bson:"scheduledAt" json:"scheduledAt"`
	Reason        string             `bson:"reason" json:"reason"`
	Status        string             `bson:"status" json:"status"`
	CreatedBy     string             `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
