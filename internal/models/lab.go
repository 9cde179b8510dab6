// server/internal/models/lab.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lab request statuses.
const (
	LabOrdered         = "ORDERED"
	LabSampleCollected = "SAMPLE_COLLECTED"
	LabCompleted       = "COMPLETED"
	LabCancelled       = "CANCELLED"
)

// LabResultValue is one measured parameter within a lab result.
type LabResultValue struct {
	Parameter      string `bson:"parameter" json:"parameter"`
	Value          string `bson:"value" json:"value"`
	Unit           string `bson:"unit" json:"unit"`
	ReferenceRange string `bson:"referenceRange" json:"referenceRange"`
	Flag           string `bson:"flag,omitempty" json:"flag,omitempty"` // e.g., "HIGH", "LOW", "CRITICAL"
}

type LabRequest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID         string             `bson:"requestID" json:"requestID"` // e.g., "LAB-1A2B3C4D"
	PatientID         string             `bson:"patientID" json:"patientID"`
	TestType          string             `bson:"testType" json:"testType"` // e.g., "FBC", "SERUM_CREATININE", "LIPID_PROFILE"
	Priority          string             `bson:"priority" json:"priority"` // "ROUTINE", "URGENT", "STAT"
	OrderedBy         string             `bson:"orderedBy" json:"orderedBy"`
	Status            string             `bson:"status" json:"status"`
	SampleID          string             `bson:"sampleID,omitempty" json:"sampleID,omitempty"`
	SampleCollectedAt *time.Time         `bson:"sampleCollectedAt,omitempty" json:"sampleCollectedAt,omitempty"`
	Results           []LabResultValue   `bson:"results,omitempty" json:"results,omitempty"`
	ReportURL         string             `bson:"reportURL,omitempty" json:"reportURL,omitempty"`
	ResultEnteredBy   string             `bson:"resultEnteredBy,omitempty" json:"resultEnteredBy,omitempty"`
	CompletedAt       *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
