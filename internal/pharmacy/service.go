// server/internal/pharmacy/service.go
package pharmacy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hospital-management-api-server/internal/models"
	"hospital-management-api-server/internal/socket"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Service implements the medicine dispensing workflow: request creation with
// stock evaluation, the dispensing transaction against the stock ledger, and
// the request status life cycle.
type Service struct {
	DB  *mongo.Database
	Hub *socket.Hub
}

func NewService(db *mongo.Database, hub *socket.Hub) *Service {
	return &Service{DB: db, Hub: hub}
}

type DispenseItemInput struct {
	MedicationID string `json:"medicationID" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

type CreateRequestInput struct {
	PrescriptionID   string
	RequestedBy      string
	WardLocation     string
	DeliveryLocation string
	UrgencyLevel     string
	Notes            string
	Items            []DispenseItemInput
}

// SearchFilter narrows dispense request listings. Zero-valued fields are ignored.
type SearchFilter struct {
	Status       string
	UrgencyLevel string
	WardLocation string
	RequestedBy  string
}

func (s *Service) requests() *mongo.Collection {
	return s.DB.Collection("dispense_requests")
}

// NewRequestID builds the human-readable dispense request code: "DR" plus a
// 14-digit timestamp.
func NewRequestID(now time.Time) string {
	return "DR" + now.Format("20060102150405")
}

// Create builds a dispense request for a prescription. Every item snapshots
// the medication's unit cost and is classified against the stock level at this
// moment; no stock is reserved.
func (s *Service) Create(ctx context.Context, in CreateRequestInput) (*models.MedicineDispenseRequest, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Message: "at least one item is required"}
	}
	if in.UrgencyLevel == "" {
		in.UrgencyLevel = models.UrgencyNormal
	}
	if !models.ValidUrgency(in.UrgencyLevel) {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown urgency level '%s'", in.UrgencyLevel)}
	}

	var prescription models.Prescription
	err := s.DB.Collection("prescriptions").
		FindOne(ctx, bson.M{"prescriptionNumber": in.PrescriptionID}).
		Decode(&prescription)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "prescription", ID: in.PrescriptionID}
		}
		return nil, err
	}

	items := make([]models.MedicineDispenseItem, 0, len(in.Items))
	for _, itemIn := range in.Items {
		if itemIn.Quantity <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("quantity for medication '%s' must be positive", itemIn.MedicationID)}
		}

		var medication models.Medication
		err := s.DB.Collection("medications").
			FindOne(ctx, bson.M{"medicationID": itemIn.MedicationID}).
			Decode(&medication)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, &NotFoundError{Resource: "medication", ID: itemIn.MedicationID}
			}
			return nil, err
		}
		if !medication.Active {
			return nil, &ConflictError{Message: fmt.Sprintf("medication '%s' is inactive", itemIn.MedicationID)}
		}

		items = append(items, models.MedicineDispenseItem{
			ItemID:            uuid.New().String(),
			MedicationID:      medication.MedicationID,
			DrugName:          medication.DrugName,
			RequestedQuantity: itemIn.Quantity,
			DispensedQuantity: 0,
			UnitPrice:         medication.UnitCost,
			TotalPrice:        medication.UnitCost * float64(itemIn.Quantity),
			Status:            models.ClassifyAvailability(medication.CurrentStock, itemIn.Quantity),
		})
	}

	now := time.Now()
	request := models.MedicineDispenseRequest{
		RequestID:          NewRequestID(now),
		PrescriptionID:     prescription.ID.Hex(),
		PrescriptionNumber: prescription.PrescriptionNumber,
		PatientID:          prescription.PatientID,
		PatientName:        prescription.PatientName,
		RequestedBy:        in.RequestedBy,
		WardLocation:       in.WardLocation,
		DeliveryLocation:   in.DeliveryLocation,
		UrgencyLevel:       in.UrgencyLevel,
		Status:             models.DispensePending,
		Notes:              in.Notes,
		Items:              items,
		CreatedAt:          now,
	}

	result, err := s.requests().InsertOne(ctx, request)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &ConflictError{Message: fmt.Sprintf("dispense request '%s' already exists", request.RequestID)}
		}
		return nil, err
	}
	request.ID = result.InsertedID.(primitive.ObjectID)

	if request.UrgencyLevel != models.UrgencyNormal && s.Hub != nil {
		notification := map[string]interface{}{
			"event":   "urgent_dispense_request",
			"request": request,
		}
		notificationJSON, _ := json.Marshal(notification)
		s.Hub.SendToRole("pharmacist", notificationJSON)
	}

	return &request, nil
}

// GetByID fetches a request by its Mongo object id.
func (s *Service) GetByID(ctx context.Context, id string) (*models.MedicineDispenseRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid request id '%s'", id)}
	}
	var request models.MedicineDispenseRequest
	if err := s.requests().FindOne(ctx, bson.M{"_id": oid}).Decode(&request); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "dispense request", ID: id}
		}
		return nil, err
	}
	return &request, nil
}

// GetByRequestID fetches a request by its human-readable code.
func (s *Service) GetByRequestID(ctx context.Context, requestID string) (*models.MedicineDispenseRequest, error) {
	var request models.MedicineDispenseRequest
	if err := s.requests().FindOne(ctx, bson.M{"requestID": requestID}).Decode(&request); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "dispense request", ID: requestID}
		}
		return nil, err
	}
	return &request, nil
}

// ListByPrescription returns every request raised against a prescription number.
func (s *Service) ListByPrescription(ctx context.Context, prescriptionNumber string) ([]models.MedicineDispenseRequest, error) {
	return s.find(ctx, bson.M{"prescriptionNumber": prescriptionNumber}, nil)
}

// ListUrgent returns all open URGENT and EMERGENCY requests, emergencies first.
func (s *Service) ListUrgent(ctx context.Context) ([]models.MedicineDispenseRequest, error) {
	filter := bson.M{
		"urgencyLevel": bson.M{"$in": []string{models.UrgencyUrgent, models.UrgencyEmergency}},
		"status":       bson.M{"$in": []string{models.DispensePending, models.DispenseProcessing}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "urgencyLevel", Value: 1}, {Key: "createdAt", Value: 1}})
	return s.find(ctx, filter, opts)
}

// Search returns a page of requests matching the filter, newest first.
func (s *Service) Search(ctx context.Context, filter SearchFilter, page int64) (*models.Paginated, error) {
	query := bson.M{}
	if filter.Status != "" {
		if !models.ValidDispenseStatus(filter.Status) {
			return nil, &ValidationError{Message: fmt.Sprintf("unknown status '%s'", filter.Status)}
		}
		query["status"] = filter.Status
	}
	if filter.UrgencyLevel != "" {
		query["urgencyLevel"] = filter.UrgencyLevel
	}
	if filter.WardLocation != "" {
		query["wardLocation"] = filter.WardLocation
	}
	if filter.RequestedBy != "" {
		query["requestedBy"] = filter.RequestedBy
	}

	if page < 1 {
		page = 1
	}
	total, err := s.requests().CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * models.DefaultPageSize).
		SetLimit(models.DefaultPageSize)
	requests, err := s.find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	return &models.Paginated{
		Items:      requests,
		Page:       page,
		PageSize:   models.DefaultPageSize,
		TotalCount: total,
	}, nil
}

// UpdateStatus performs an explicit status transition, stamping the matching
// timestamp: PROCESSING stamps processedAt, DISPATCHED stamps dispatchedAt,
// DELIVERED stamps deliveredAt.
func (s *Service) UpdateStatus(ctx context.Context, requestID, newStatus, processedBy, notes string) (*models.MedicineDispenseRequest, error) {
	if !models.ValidDispenseStatus(newStatus) {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown status '%s'", newStatus)}
	}

	request, err := s.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(request.Status, newStatus) {
		return nil, &ConflictError{Message: fmt.Sprintf(
			"dispense request '%s' cannot move from %s to %s", requestID, request.Status, newStatus)}
	}

	now := time.Now()
	update := bson.M{"status": newStatus}
	switch newStatus {
	case models.DispenseProcessing:
		update["processedBy"] = processedBy
		update["processedAt"] = now
	case models.DispenseDispatched:
		update["dispatchedAt"] = now
	case models.DispenseDelivered:
		update["deliveredAt"] = now
	}
	if notes != "" {
		update["pharmacyNotes"] = appendNote(request.PharmacyNotes, notes)
	}

	if _, err := s.requests().UpdateOne(ctx, bson.M{"requestID": requestID}, bson.M{"$set": update}); err != nil {
		return nil, err
	}
	return s.GetByRequestID(ctx, requestID)
}

// Cancel rejects a request that has not been prepared yet. The reason is
// appended to the pharmacy notes.
func (s *Service) Cancel(ctx context.Context, requestID, reason string) (*models.MedicineDispenseRequest, error) {
	request, err := s.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !models.CanCancel(request.Status) {
		return nil, &ConflictError{Message: fmt.Sprintf(
			"dispense request '%s' in status %s cannot be cancelled", requestID, request.Status)}
	}

	update := bson.M{
		"status":        models.DispenseCancelled,
		"pharmacyNotes": appendNote(request.PharmacyNotes, "Cancelled: "+reason),
	}
	if _, err := s.requests().UpdateOne(ctx, bson.M{"requestID": requestID}, bson.M{"$set": update}); err != nil {
		return nil, err
	}
	return s.GetByRequestID(ctx, requestID)
}

// ValidateDispenseLines checks the parallel item/quantity lists before the
// transaction starts.
func ValidateDispenseLines(itemIDs []string, quantities []int) error {
	if len(itemIDs) == 0 {
		return &ValidationError{Message: "at least one item is required"}
	}
	if len(itemIDs) != len(quantities) {
		return &ValidationError{Message: fmt.Sprintf(
			"item list and quantity list lengths differ: %d vs %d", len(itemIDs), len(quantities))}
	}
	for i, qty := range quantities {
		if qty <= 0 {
			return &ValidationError{Message: fmt.Sprintf("quantity for item '%s' must be positive", itemIDs[i])}
		}
	}
	return nil
}

// Dispense deducts stock and updates item and request state for the given
// lines. The whole call runs inside one session transaction: a failure on any
// line rolls back every stock decrement made earlier in the same call.
//
// The stock check and decrement are a single conditional update, so two
// concurrent dispenses cannot both take the last units of a medication.
func (s *Service) Dispense(ctx context.Context, requestID string, itemIDs []string, quantities []int, processedBy string) (*models.MedicineDispenseRequest, error) {
	if err := ValidateDispenseLines(itemIDs, quantities); err != nil {
		return nil, err
	}

	session, err := s.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var request models.MedicineDispenseRequest
		if err := s.requests().FindOne(sc, bson.M{"requestID": requestID}).Decode(&request); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, &NotFoundError{Resource: "dispense request", ID: requestID}
			}
			return nil, err
		}
		if !models.CanDispense(request.Status) {
			return nil, &ConflictError{Message: fmt.Sprintf(
				"dispense request '%s' in status %s cannot be dispensed", requestID, request.Status)}
		}

		for i, itemID := range itemIDs {
			qty := quantities[i]

			idx := -1
			for j := range request.Items {
				if request.Items[j].ItemID == itemID {
					idx = j
					break
				}
			}
			if idx < 0 {
				return nil, &NotFoundError{Resource: "dispense item", ID: itemID}
			}
			item := &request.Items[idx]

			if remaining := item.RequestedQuantity - item.DispensedQuantity; qty > remaining {
				return nil, &ConflictError{Message: fmt.Sprintf(
					"cannot dispense %d of item '%s': only %d remaining", qty, itemID, remaining)}
			}

			// Conditional decrement: the filter rejects the update when stock
			// is short, which also serializes concurrent dispenses.
			err := s.DB.Collection("medications").FindOneAndUpdate(sc,
				bson.M{"medicationID": item.MedicationID, "currentStock": bson.M{"$gte": qty}},
				bson.M{"$inc": bson.M{"currentStock": -qty}, "$set": bson.M{"updatedAt": time.Now()}},
			).Err()
			if err != nil {
				if err == mongo.ErrNoDocuments {
					count, countErr := s.DB.Collection("medications").CountDocuments(sc, bson.M{"medicationID": item.MedicationID})
					if countErr != nil {
						return nil, countErr
					}
					if count == 0 {
						return nil, &NotFoundError{Resource: "medication", ID: item.MedicationID}
					}
					return nil, &ConflictError{Message: fmt.Sprintf(
						"insufficient stock of medication '%s' to dispense %d units", item.MedicationID, qty)}
				}
				return nil, err
			}

			if err := item.ApplyDispense(qty); err != nil {
				return nil, &ConflictError{Message: err.Error()}
			}
		}

		now := time.Now()
		request.Status = models.StatusAfterDispense(request.Items)
		request.ProcessedBy = processedBy
		request.ProcessedAt = &now

		_, err := s.requests().UpdateOne(sc, bson.M{"requestID": requestID}, bson.M{"$set": bson.M{
			"items":       request.Items,
			"status":      request.Status,
			"processedBy": request.ProcessedBy,
			"processedAt": request.ProcessedAt,
		}})
		if err != nil {
			return nil, err
		}
		return &request, nil
	})
	if err != nil {
		return nil, err
	}

	request := result.(*models.MedicineDispenseRequest)
	log.Info().
		Str("requestID", requestID).
		Str("status", request.Status).
		Str("processedBy", processedBy).
		Msg("Dispense completed")
	return request, nil
}

func (s *Service) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.MedicineDispenseRequest, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.requests().Find(ctx, filter, opts)
	} else {
		cursor, err = s.requests().Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.MedicineDispenseRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.MedicineDispenseRequest{}
	}
	return requests, nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
