// server/internal/api/handlers/appointment_handler.go
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

type AppointmentHandler struct {
	DB *mongo.Database
}

type ScheduleAppointmentRequest struct {
	PatientID   string    `json:"patientID" binding:"required"`
	DoctorID    string    `json:"doctorID" binding:"required"`
	Department  string    `json:"department" binding:"required"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Reason      string    `json:"reason"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SCHEDULED COMPLETED CANCELLED NO_SHOW"`
}

// ScheduleAppointment books a doctor's slot for a patient.
func (h *AppointmentHandler) ScheduleAppointment(c *gin.Context) {
	createdBy := c.GetString("user_employee_id")

	var req ScheduleAppointmentRequest
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

	// The doctor cannot hold two appointments in the same slot.
	conflict, err := h.DB.Collection("appointments").CountDocuments(ctx, bson.M{
		"doctorID":    req.DoctorID,
		"scheduledAt": req.ScheduledAt,
		"status":      models.AppointmentScheduled,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking doctor availability"})
		return
	}
	if conflict > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Doctor %s already has an appointment at that time", req.DoctorID)})
		return
	}

	newAppointment := models.Appointment{
		AppointmentID: fmt.Sprintf("APT-%s", strings.ToUpper(uuid.New().String()[:8])),
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		Department:    req.Department,
		ScheduledAt:   req.ScheduledAt,
		Reason:        req.Reason,
		Status:        models.AppointmentScheduled,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	result, err := h.DB.Collection("appointments").InsertOne(ctx, newAppointment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newAppointment.ID = oid
	}

	c.JSON(http.StatusCreated, newAppointment)
}

// GetAppointmentByID fetches one appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointmentID := c.Param("id")

	var appointment models.Appointment
	err := h.DB.Collection("appointments").FindOne(context.Background(), bson.M{"appointmentID": appointmentID}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointment"})
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// ListAppointments filters by doctor, patient or calendar day.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	filter := bson.M{}
	if doctorID := c.Query("doctorID"); doctorID != "" {
		filter["doctorID"] = doctorID
	}
	if patientID := c.Query("patientID"); patientID != "" {
		filter["patientID"] = patientID
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}
		filter["scheduledAt"] = bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("appointments").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query appointments"})
		return
	}
	defer cursor.Close(context.Background())

	var appointments []models.Appointment
	if err = cursor.All(context.Background(), &appointments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode appointments"})
		return
	}

	if appointments == nil {
		appointments = []models.Appointment{}
	}

	c.JSON(http.StatusOK, appointments)
}

// UpdateAppointmentStatus moves an appointment to COMPLETED, CANCELLED or NO_SHOW.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	appointmentID := c.Param("id")

	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var appointment models.Appointment
	err := h.DB.Collection("appointments").FindOne(context.Background(), bson.M{"appointmentID": appointmentID}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointment"})
		}
		return
	}
	if appointment.Status != models.AppointmentScheduled {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Appointment is already %s", appointment.Status)})
		return
	}

	_, err = h.DB.Collection("appointments").UpdateOne(context.Background(),
		bson.M{"appointmentID": appointmentID},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Appointment " + appointmentID + " is now " + req.Status})
}
