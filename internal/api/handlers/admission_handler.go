// server/internal/api/handlers/admission_handler.go
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
)

type AdmissionHandler struct {
	DB *mongo.Database
}

type AdmitPatientRequest struct {
	PatientID  string `json:"patientID" binding:"required"`
	WardNumber string `json:"wardNumber" binding:"required"`
	BedNumber  string `json:"bedNumber" binding:"required"`
	Diagnosis  string `json:"diagnosis"`
}

type TransferPatientRequest struct {
	ToWard string `json:"toWard" binding:"required"`
	ToBed  string `json:"toBed" binding:"required"`
	Reason string `json:"reason"`
}

// bedOccupied reports whether an open admission already holds the given bed.
func (h *AdmissionHandler) bedOccupied(ctx context.Context, wardNumber, bedNumber string) (bool, error) {
	count, err := h.DB.Collection("admissions").CountDocuments(ctx, bson.M{
		"wardNumber": wardNumber,
		"bedNumber":  bedNumber,
		"status":     bson.M{"$ne": models.AdmissionDischarged},
	})
	return count > 0, err
}

// occupyBed increments a ward's occupancy, refusing when the ward is full.
// The capacity check and the increment are one conditional update.
func (h *AdmissionHandler) occupyBed(ctx context.Context, wardNumber string) error {
	result, err := h.DB.Collection("wards").UpdateOne(ctx,
		bson.M{
			"wardNumber": wardNumber,
			"$expr":      bson.M{"$lt": bson.A{"$currentOccupancy", "$capacity"}},
		},
		bson.M{"$inc": bson.M{"currentOccupancy": 1}, "$set": bson.M{"updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ward %s is full or does not exist", wardNumber)
	}
	return nil
}

func (h *AdmissionHandler) releaseBed(ctx context.Context, wardNumber string) error {
	_, err := h.DB.Collection("wards").UpdateOne(ctx,
		bson.M{"wardNumber": wardNumber, "currentOccupancy": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"currentOccupancy": -1}, "$set": bson.M{"updatedAt": time.Now()}})
	return err
}

// AdmitPatient admits a patient to a ward and bed.
func (h *AdmissionHandler) AdmitPatient(c *gin.Context) {
	admittingDoctor := c.GetString("user_employee_id")

	var req AdmitPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()

	count, err := h.DB.Collection("patients").CountDocuments(ctx, bson.M{"patientID": req.PatientID, "active": true})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	open, err := h.DB.Collection("admissions").CountDocuments(ctx, bson.M{
		"patientID": req.PatientID,
		"status":    bson.M{"$ne": models.AdmissionDischarged},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking admissions"})
		return
	}
	if open > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Patient already has an open admission"})
		return
	}

	occupied, err := h.bedOccupied(ctx, req.WardNumber, req.BedNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking bed"})
		return
	}
	if occupied {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Bed %s in ward %s is already occupied", req.BedNumber, req.WardNumber)})
		return
	}

	if err := h.occupyBed(ctx, req.WardNumber); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	newAdmission := models.Admission{
		AdmissionID:     fmt.Sprintf("ADM-%s", strings.ToUpper(uuid.New().String()[:8])),
		PatientID:       req.PatientID,
		WardNumber:      req.WardNumber,
		BedNumber:       req.BedNumber,
		AdmittingDoctor: admittingDoctor,
		Diagnosis:       req.Diagnosis,
		Status:          models.AdmissionAdmitted,
		Transfers:       []models.TransferRecord{},
		AdmittedAt:      time.Now(),
	}

	result, err := h.DB.Collection("admissions").InsertOne(ctx, newAdmission)
	if err != nil {
		// Give the bed back, the admission was not recorded.
		h.releaseBed(ctx, req.WardNumber)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admission"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newAdmission.ID = oid
	}

	c.JSON(http.StatusCreated, newAdmission)
}

// GetAdmissionByID fetches a single admission.
func (h *AdmissionHandler) GetAdmissionByID(c *gin.Context) {
	admissionID := c.Param("id")

	var admission models.Admission
	err := h.DB.Collection("admissions").FindOne(context.Background(), bson.M{"admissionID": admissionID}).Decode(&admission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admission not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve admission"})
		}
		return
	}

	c.JSON(http.StatusOK, admission)
}

// GetAdmissionsByWard lists admissions for a ward, optionally filtered by status.
func (h *AdmissionHandler) GetAdmissionsByWard(c *gin.Context) {
	filter := bson.M{"wardNumber": c.Param("id")}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	h.listAdmissions(c, filter)
}

// GetAdmissionsByPatient lists a patient's admission history.
func (h *AdmissionHandler) GetAdmissionsByPatient(c *gin.Context) {
	h.listAdmissions(c, bson.M{"patientID": c.Param("id")})
}

func (h *AdmissionHandler) listAdmissions(c *gin.Context, filter bson.M) {
	cursor, err := h.DB.Collection("admissions").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query admissions"})
		return
	}
	defer cursor.Close(context.Background())

	var admissions []models.Admission
	if err = cursor.All(context.Background(), &admissions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode admissions"})
		return
	}

	if admissions == nil {
		admissions = []models.Admission{}
	}

	c.JSON(http.StatusOK, admissions)
}

// TransferPatient moves an open admission to another ward and bed, recording
// the move and adjusting both wards' occupancy.
func (h *AdmissionHandler) TransferPatient(c *gin.Context) {
	admissionID := c.Param("id")
	transferredBy := c.GetString("user_employee_id")

	var req TransferPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()

	var admission models.Admission
	err := h.DB.Collection("admissions").FindOne(ctx, bson.M{"admissionID": admissionID}).Decode(&admission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admission not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve admission"})
		}
		return
	}
	if admission.Status == models.AdmissionDischarged {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot transfer a discharged admission"})
		return
	}
	if admission.WardNumber == req.ToWard && admission.BedNumber == req.ToBed {
		c.JSON(http.StatusConflict, gin.H{"error": "Patient already occupies that bed"})
		return
	}

	occupied, err := h.bedOccupied(ctx, req.ToWard, req.ToBed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking bed"})
		return
	}
	if occupied {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Bed %s in ward %s is already occupied", req.ToBed, req.ToWard)})
		return
	}

	if req.ToWard != admission.WardNumber {
		if err := h.occupyBed(ctx, req.ToWard); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err := h.releaseBed(ctx, admission.WardNumber); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release previous bed"})
			return
		}
	}

	transfer := models.TransferRecord{
		FromWard:      admission.WardNumber,
		FromBed:       admission.BedNumber,
		ToWard:        req.ToWard,
		ToBed:         req.ToBed,
		Reason:        req.Reason,
		TransferredBy: transferredBy,
		TransferredAt: time.Now(),
	}

	_, err = h.DB.Collection("admissions").UpdateOne(ctx,
		bson.M{"admissionID": admissionID},
		bson.M{
			"$set": bson.M{
				"wardNumber": req.ToWard,
				"bedNumber":  req.ToBed,
				"status":     models.AdmissionTransferred,
			},
			"$push": bson.M{"transfers": transfer},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transfer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Patient transferred to ward " + req.ToWard})
}

// DischargePatient closes an admission and frees the bed.
func (h *AdmissionHandler) DischargePatient(c *gin.Context) {
	admissionID := c.Param("id")

	ctx := context.Background()

	var admission models.Admission
	err := h.DB.Collection("admissions").FindOne(ctx, bson.M{"admissionID": admissionID}).Decode(&admission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admission not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve admission"})
		}
		return
	}
	if admission.Status == models.AdmissionDischarged {
		c.JSON(http.StatusConflict, gin.H{"error": "Admission is already discharged"})
		return
	}

	now := time.Now()
	_, err = h.DB.Collection("admissions").UpdateOne(ctx,
		bson.M{"admissionID": admissionID},
		bson.M{"$set": bson.M{
			"status":       models.AdmissionDischarged,
			"dischargedAt": now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to discharge patient"})
		return
	}

	if err := h.releaseBed(ctx, admission.WardNumber); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release bed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Patient discharged from admission " + admissionID})
}
