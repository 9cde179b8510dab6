// server/internal/models/dispense_request.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dispense request statuses.
const (
	DispensePending            = "PENDING"
	DispenseProcessing         = "PROCESSING"
	DispensePrepared           = "PREPARED"
	DispenseDispatched         = "DISPATCHED"
	DispenseDelivered          = "DELIVERED"
	DispenseCancelled          = "CANCELLED"
	DispensePartiallyDispensed = "PARTIALLY_DISPENSED"
)

// Dispense item statuses.
const (
	ItemPending            = "PENDING"
	ItemAvailable          = "AVAILABLE"
	ItemPartiallyAvailable = "PARTIALLY_AVAILABLE"
	ItemOutOfStock         = "OUT_OF_STOCK"
	ItemDispensed          = "DISPENSED"
	ItemSubstituted        = "SUBSTITUTED"
	ItemCancelled          = "CANCELLED"
)

// Urgency levels.
const (
	UrgencyNormal    = "NORMAL"
	UrgencyUrgent    = "URGENT"
	UrgencyEmergency = "EMERGENCY"
)

// MedicineDispenseItem is one medication line within a dispense request.
// UnitPrice is snapshotted from the medication's unit cost when the request
// is created and never changes afterwards.
type MedicineDispenseItem struct {
	ItemID            string  `bson:"itemID" json:"itemID"`
	MedicationID      string  `bson:"medicationID" json:"medicationID"`
	DrugName          string  `bson:"drugName" json:"drugName"`
	RequestedQuantity int     `bson:"requestedQuantity" json:"requestedQuantity"`
	DispensedQuantity int     `bson:"dispensedQuantity" json:"dispensedQuantity"`
	UnitPrice         float64 `bson:"unitPrice" json:"unitPrice"`
	TotalPrice        float64 `bson:"totalPrice" json:"totalPrice"`
	Status            string  `bson:"status" json:"status"`
}

type MedicineDispenseRequest struct {
	ID                 primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	RequestID          string                 `bson:"requestID" json:"requestID"` // "DR" + YYYYMMDDHHMMSS
	PrescriptionID     string                 `bson:"prescriptionID" json:"prescriptionID"`
	PrescriptionNumber string                 `bson:"prescriptionNumber" json:"prescriptionNumber"`
	PatientID          string                 `bson:"patientID" json:"patientID"`
	PatientName        string                 `bson:"patientName" json:"patientName"`
	RequestedBy        string                 `bson:"requestedBy" json:"requestedBy"`
	WardLocation       string                 `bson:"wardLocation" json:"wardLocation"`
	DeliveryLocation   string                 `bson:"deliveryLocation" json:"deliveryLocation"`
	UrgencyLevel       string                 `bson:"urgencyLevel" json:"urgencyLevel"`
	Status             string                 `bson:"status" json:"status"`
	Notes              string                 `bson:"notes,omitempty" json:"notes,omitempty"`
	PharmacyNotes      string                 `bson:"pharmacyNotes,omitempty" json:"pharmacyNotes,omitempty"`
	Items              []MedicineDispenseItem `bson:"items" json:"items"`
	ProcessedBy        string                 `bson:"processedBy,omitempty" json:"processedBy,omitempty"`
	ProcessedAt        *time.Time             `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	DispatchedAt       *time.Time             `bson:"dispatchedAt,omitempty" json:"dispatchedAt,omitempty"`
	DeliveredAt        *time.Time             `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt          time.Time              `bson:"createdAt" json:"createdAt"`
}

// ClassifyAvailability assigns the initial item status from the medication's
// stock at request creation. It is informational only, no stock is reserved.
func ClassifyAvailability(currentStock, requestedQuantity int) string {
	switch {
	case currentStock >= requestedQuantity:
		return ItemAvailable
	case currentStock > 0:
		return ItemPartiallyAvailable
	default:
		return ItemOutOfStock
	}
}

// ApplyDispense records a dispense of qty units against the item, keeping
// dispensedQuantity <= requestedQuantity and totalPrice = unitPrice * dispensedQuantity.
func (it *MedicineDispenseItem) ApplyDispense(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("dispense quantity for item %s must be positive", it.ItemID)
	}
	remaining := it.RequestedQuantity - it.DispensedQuantity
	if qty > remaining {
		return fmt.Errorf("cannot dispense %d of item %s: only %d remaining", qty, it.ItemID, remaining)
	}
	it.DispensedQuantity += qty
	it.TotalPrice = it.UnitPrice * float64(it.DispensedQuantity)
	if it.DispensedQuantity >= it.RequestedQuantity {
		it.Status = ItemDispensed
	} else {
		it.Status = ItemPartiallyAvailable
	}
	return nil
}

// StatusAfterDispense derives the request status from its items once
// dispensing has begun: PREPARED when every item is fully dispensed,
// PARTIALLY_DISPENSED otherwise.
func StatusAfterDispense(items []MedicineDispenseItem) string {
	for _, it := range items {
		if it.DispensedQuantity < it.RequestedQuantity {
			return DispensePartiallyDispensed
		}
	}
	return DispensePrepared
}

// CanCancel reports whether a request in the given status may still be cancelled.
func CanCancel(status string) bool {
	return status == DispensePending || status == DispenseProcessing
}

// CanDispense reports whether items of a request in the given status may be dispensed.
func CanDispense(status string) bool {
	switch status {
	case DispensePending, DispenseProcessing, DispensePartiallyDispensed:
		return true
	}
	return false
}

// dispenseTransitions lists the explicit status updates allowed per current status.
// PREPARED and PARTIALLY_DISPENSED are only reached through dispensing itself.
var dispenseTransitions = map[string][]string{
	DispensePending:            {DispenseProcessing, DispenseCancelled},
	DispenseProcessing:         {DispenseCancelled},
	DispensePrepared:           {DispenseDispatched},
	DispensePartiallyDispensed: {DispenseDispatched},
	DispenseDispatched:         {DispenseDelivered},
}

// CanTransition reports whether an explicit status update from one status to
// another is legal.
func CanTransition(from, to string) bool {
	for _, allowed := range dispenseTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidUrgency reports whether the given urgency level is one of the known values.
func ValidUrgency(level string) bool {
	switch level {
	case UrgencyNormal, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

// ValidDispenseStatus reports whether the given status is one of the known values.
func ValidDispenseStatus(status string) bool {
	switch status {
	case DispensePending, DispenseProcessing, DispensePrepared, DispenseDispatched,
		DispenseDelivered, DispenseCancelled, DispensePartiallyDispensed:
		return true
	}
	return false
}
