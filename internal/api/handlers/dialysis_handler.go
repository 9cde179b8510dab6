// server/internal/api/handlers/dialysis_handler.go
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

type DialysisHandler struct {
	DB *mongo.Database
}

type CreateMachineRequest struct {
	MachineID string `json:"machineID" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Location  string `json:"location" binding:"required"`
}

type UpdateMachineStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE MAINTENANCE OUT_OF_ORDER"`
}

type ScheduleSessionRequest struct {
	PatientID   string    `json:"patientID" binding:"required"`
	MachineID   string    `json:"machineID" binding:"required"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Notes       string    `json:"notes"`
}

type CompleteSessionRequest struct {
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1"`
	Notes           string `json:"notes"`
}

// --- Machines ---

// CreateMachine registers a dialysis machine.
func (h *DialysisHandler) CreateMachine(c *gin.Context) {
	var req CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("dialysis_machines")

	count, err := collection.CountDocuments(context.Background(), bson.M{"machineID": req.MachineID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for machine"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Machine with this ID already exists"})
		return
	}

	newMachine := models.DialysisMachine{
		MachineID: req.MachineID,
		Name:      req.Name,
		Location:  req.Location,
		Status:    models.MachineActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	result, err := collection.InsertOne(context.Background(), newMachine)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create machine"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newMachine.ID = oid
	}

	c.JSON(http.StatusCreated, newMachine)
}

// GetAllMachines lists every dialysis machine.
func (h *DialysisHandler) GetAllMachines(c *gin.Context) {
	cursor, err := h.DB.Collection("dialysis_machines").Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query machines"})
		return
	}
	defer cursor.Close(context.Background())

	var machines []models.DialysisMachine
	if err = cursor.All(context.Background(), &machines); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode machines"})
		return
	}

	if machines == nil {
		machines = []models.DialysisMachine{}
	}

	c.JSON(http.StatusOK, machines)
}

// UpdateMachineStatus moves a machine between ACTIVE, MAINTENANCE and OUT_OF_ORDER.
func (h *DialysisHandler) UpdateMachineStatus(c *gin.Context) {
	machineID := c.Param("id")

	var req UpdateMachineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{"status": req.Status, "updatedAt": time.Now()}
	if req.Status == models.MachineActive {
		update["lastServicedAt"] = time.Now()
	}

	result, err := h.DB.Collection("dialysis_machines").UpdateOne(context.Background(),
		bson.M{"machineID": machineID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update machine"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Machine " + machineID + " is now " + req.Status})
}

// --- Sessions ---

// ScheduleSession books a machine slot for a patient.
func (h *DialysisHandler) ScheduleSession(c *gin.Context) {
	createdBy := c.GetString("user_employee_id")

	var req ScheduleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()

	var machine models.DialysisMachine
	err := h.DB.Collection("dialysis_machines").FindOne(ctx, bson.M{"machineID": req.MachineID}).Decode(&machine)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve machine"})
		}
		return
	}
	if machine.Status != models.MachineActive {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Machine %s is %s", req.MachineID, machine.Status)})
		return
	}

	conflict, err := h.DB.Collection("dialysis_sessions").CountDocuments(ctx, bson.M{
		"machineID":   req.MachineID,
		"scheduledAt": req.ScheduledAt,
		"status":      bson.M{"$in": []string{models.SessionScheduled, models.SessionInProgress}},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking machine availability"})
		return
	}
	if conflict > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Machine %s is already booked at that time", req.MachineID)})
		return
	}

	newSession := models.DialysisSession{
		SessionID:   fmt.Sprintf("DS-%s", strings.ToUpper(uuid.New().String()[:8])),
		PatientID:   req.PatientID,
		MachineID:   req.MachineID,
		ScheduledAt: req.ScheduledAt,
		Status:      models.SessionScheduled,
		Notes:       req.Notes,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}

	result, err := h.DB.Collection("dialysis_sessions").InsertOne(ctx, newSession)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newSession.ID = oid
	}

	c.JSON(http.StatusCreated, newSession)
}

// StartSession marks a scheduled session as running.
func (h *DialysisHandler) StartSession(c *gin.Context) {
	sessionID := c.Param("id")

	now := time.Now()
	result, err := h.DB.Collection("dialysis_sessions").UpdateOne(context.Background(),
		bson.M{"sessionID": sessionID, "status": models.SessionScheduled},
		bson.M{"$set": bson.M{"status": models.SessionInProgress, "startedAt": now}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Session not found or not in SCHEDULED status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Session " + sessionID + " has started."})
}

// CompleteSession finishes a running session with its duration and notes.
func (h *DialysisHandler) CompleteSession(c *gin.Context) {
	sessionID := c.Param("id")

	var req CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	result, err := h.DB.Collection("dialysis_sessions").UpdateOne(context.Background(),
		bson.M{"sessionID": sessionID, "status": models.SessionInProgress},
		bson.M{"$set": bson.M{
			"status":          models.SessionCompleted,
			"completedAt":     now,
			"durationMinutes": req.DurationMinutes,
			"notes":           req.Notes,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete session"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Session not found or not in IN_PROGRESS status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Session " + sessionID + " completed."})
}

// ListSessions filters sessions by patient, machine or calendar day.
func (h *DialysisHandler) ListSessions(c *gin.Context) {
	filter := bson.M{}
	if patientID := c.Query("patientID"); patientID != "" {
		filter["patientID"] = patientID
	}
	if machineID := c.Query("machineID"); machineID != "" {
		filter["machineID"] = machineID
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}
		filter["scheduledAt"] = bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}
	}

	cursor, err := h.DB.Collection("dialysis_sessions").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query sessions"})
		return
	}
	defer cursor.Close(context.Background())

	var sessions []models.DialysisSession
	if err = cursor.All(context.Background(), &sessions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode sessions"})
		return
	}

	if sessions == nil {
		sessions = []models.DialysisSession{}
	}

	c.JSON(http.StatusOK, sessions)
}
