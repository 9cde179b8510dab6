// server/internal/models/medication.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Medication struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MedicationID string             `bson:"medicationID" json:"medicationID"` // e.g., "MED-1A2B3C4D"
	DrugName     string             `bson:"drugName" json:"drugName"`
	Category     string             `bson:"category" json:"category"` // e.g., "ANTIBIOTIC", "ANALGESIC", "ANTIHYPERTENSIVE"
	Unit         string             `bson:"unit" json:"unit"`         // e.g., "tablet", "vial", "ml"
	UnitCost     float64            `bson:"unitCost" json:"unitCost"`
	CurrentStock int                `bson:"currentStock" json:"currentStock"`
	MinimumStock int                `bson:"minimumStock" json:"minimumStock"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StockStatus classifies a medication against its minimum stock threshold.
func (m *Medication) StockStatus() string {
	switch {
	case m.CurrentStock == 0:
		return "OUT_OF_STOCK"
	case m.CurrentStock < m.MinimumStock:
		return "LOW_STOCK"
	default:
		return "IN_STOCK"
	}
}
