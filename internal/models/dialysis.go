// server/internal/models/dialysis.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dialysis machine statuses.
const (
	MachineActive      = "ACTIVE"
	MachineMaintenance = "MAINTENANCE"
	MachineOutOfOrder  = "OUT_OF_ORDER"
)

// Dialysis session statuses.
const (
	SessionScheduled  = "SCHEDULED"
	SessionInProgress = "IN_PROGRESS"
	SessionCompleted  = "COMPLETED"
	SessionCancelled  = "CANCELLED"
)

type DialysisMachine struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MachineID      string             `bson:"machineID" json:"machineID"` // e.g., "DM-01"
	Name           string             `bson:"name" json:"name"`
	Location       string             `bson:"location" json:"location"`
	Status         string             `bson:"status" json:"status"`
	LastServicedAt *time.Time         `bson:"lastServicedAt,omitempty" json:"lastServicedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type DialysisSession struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID       string             `bson:"sessionID" json:"sessionID"` // e.g., "DS-1A2B3C4D"
	PatientID       string             `bson:"patientID" json:"patientID"`
	MachineID       string             `bson:"machineID" json:"machineID"`
	ScheduledAt     time.Time          `bson:"scheduledAt" json:"scheduledAt"`
	StartedAt       *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt     *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	DurationMinutes int                `bson:"durationMinutes" json:"durationMinutes"`
	Status          string             `bson:"status" json:"status"`
	Notes           string             `bson:"notes" json:"notes"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
