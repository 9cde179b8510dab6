// server/internal/api/handlers/prescription_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hospital-management-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PrescriptionHandler struct {
	DB *mongo.Database
}

type PrescriptionItemPayload struct {
	MedicationID string `json:"medicationID" binding:"required"`
	Dosage       string `json:"dosage" binding:"required"`
	Frequency    string `json:"frequency" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"required,min=1"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

type CreatePrescriptionPayload struct {
	PatientID string                    `json:"patientID" binding:"required"`
	Notes     string                    `json:"notes"`
	Items     []PrescriptionItemPayload `json:"items" binding:"required,dive"`
}

// CreatePrescription records a prescription, resolving each line against the formulary.
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	prescribedBy := c.GetString("user_employee_id")

	var payload CreatePrescriptionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()

	var patient models.Patient
	err := h.DB.Collection("patients").FindOne(ctx, bson.M{"patientID": payload.PatientID, "active": true}).Decode(&patient)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
		}
		return
	}

	items := make([]models.PrescriptionItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		var medication models.Medication
		err := h.DB.Collection("medications").FindOne(ctx, bson.M{"medicationID": item.MedicationID}).Decode(&medication)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Medication '%s' not found", item.MedicationID)})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve medication"})
			}
			return
		}
		if !medication.Active {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Medication '%s' is inactive", item.MedicationID)})
			return
		}

		items = append(items, models.PrescriptionItem{
			MedicationID: medication.MedicationID,
			DrugName:     medication.DrugName,
			Dosage:       item.Dosage,
			Frequency:    item.Frequency,
			DurationDays: item.DurationDays,
			Quantity:     item.Quantity,
		})
	}

	newPrescription := models.Prescription{
		PrescriptionNumber: fmt.Sprintf("RX-%s", strings.ToUpper(uuid.New().String()[:8])),
		PatientID:          patient.PatientID,
		PatientName:        patient.Name,
		PrescribedBy:       prescribedBy,
		Items:              items,
		Notes:              payload.Notes,
		CreatedAt:          time.Now(),
	}

	result, err := h.DB.Collection("prescriptions").InsertOne(ctx, newPrescription)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create prescription"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newPrescription.ID = oid
	}

	c.JSON(http.StatusCreated, newPrescription)
}

// GetPrescriptionByNumber fetches one prescription.
func (h *PrescriptionHandler) GetPrescriptionByNumber(c *gin.Context) {
	prescriptionNumber := c.Param("id")

	var prescription models.Prescription
	err := h.DB.Collection("prescriptions").FindOne(context.Background(),
		bson.M{"prescriptionNumber": prescriptionNumber}).Decode(&prescription)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prescription not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve prescription"})
		}
		return
	}

	c.JSON(http.StatusOK, prescription)
}

// ListPrescriptionsByPatient lists a patient's prescriptions, newest first.
func (h *PrescriptionHandler) ListPrescriptionsByPatient(c *gin.Context) {
	patientID := c.Param("id")

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.DB.Collection("prescriptions").Find(context.Background(), bson.M{"patientID": patientID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query prescriptions"})
		return
	}
	defer cursor.Close(context.Background())

	var prescriptions []models.Prescription
	if err = cursor.All(context.Background(), &prescriptions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode prescriptions"})
		return
	}

	if prescriptions == nil {
		prescriptions = []models.Prescription{}
	}

	c.JSON(http.StatusOK, prescriptions)
}
