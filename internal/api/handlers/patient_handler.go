// server/internal/api/handlers/patient_handler.go
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

type PatientHandler struct {
	DB *mongo.Database
}

type CreatePatientRequest struct {
	Name        string    `json:"name" binding:"required"`
	NIC         string    `json:"nic" binding:"required"`
	DateOfBirth time.Time `json:"dateOfBirth" binding:"required"`
	Gender      string    `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	BloodGroup  string    `json:"bloodGroup"`
}

type UpdatePatientRequest struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	BloodGroup string `json:"bloodGroup"`
}

// CreatePatient registers a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("patients")

	count, err := collection.CountDocuments(context.Background(), bson.M{"nic": req.NIC})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for patient"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Patient with this NIC already exists"})
		return
	}

	newPatient := models.Patient{
		PatientID:   fmt.Sprintf("PT-%s", strings.ToUpper(uuid.New().String()[:8])),
		Name:        req.Name,
		NIC:         req.NIC,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Address:     req.Address,
		Phone:       req.Phone,
		BloodGroup:  req.BloodGroup,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	result, err := collection.InsertOne(context.Background(), newPatient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newPatient.ID = oid
	}

	c.JSON(http.StatusCreated, newPatient)
}

// GetPatientByID fetches a patient by patientID.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	err := h.DB.Collection("patients").FindOne(context.Background(), bson.M{"patientID": patientID}).Decode(&patient)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
		}
		return
	}

	c.JSON(http.StatusOK, patient)
}

// SearchPatients looks patients up by name (partial match) or NIC.
func (h *PatientHandler) SearchPatients(c *gin.Context) {
	filter := bson.M{"active": true}
	if name := c.Query("name"); name != "" {
		filter["name"] = bson.M{"$regex": name, "$options": "i"}
	}
	if nic := c.Query("nic"); nic != "" {
		filter["nic"] = nic
	}

	cursor, err := h.DB.Collection("patients").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query patients"})
		return
	}
	defer cursor.Close(context.Background())

	var patients []models.Patient
	if err = cursor.All(context.Background(), &patients); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode patients"})
		return
	}

	if patients == nil {
		patients = []models.Patient{}
	}

	c.JSON(http.StatusOK, patients)
}

// UpdatePatient updates a patient's mutable fields.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	patientID := c.Param("id")

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection("patients").UpdateOne(context.Background(),
		bson.M{"patientID": patientID},
		bson.M{"$set": bson.M{
			"name":       req.Name,
			"address":    req.Address,
			"phone":      req.Phone,
			"bloodGroup": req.BloodGroup,
			"updatedAt":  time.Now(),
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update patient"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
}

// DeactivatePatient marks a patient record inactive. Records are never deleted.
func (h *PatientHandler) DeactivatePatient(c *gin.Context) {
	patientID := c.Param("id")

	result, err := h.DB.Collection("patients").UpdateOne(context.Background(),
		bson.M{"patientID": patientID},
		bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate patient"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient deactivated successfully"})
}
