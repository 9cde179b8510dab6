// server/internal/api/handlers/lab_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hospital-management-api-server/internal/models"
	"hospital-management-api-server/internal/s3"
	"hospital-management-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type LabHandler struct {
	DB         *mongo.Database
	S3Uploader *s3.Uploader
	Hub        *socket.Hub
}

type CreateLabRequestPayload struct {
	PatientID string `json:"patientID" binding:"required"`
	TestType  string `json:"testType" binding:"required"`
	Priority  string `json:"priority" binding:"omitempty,oneof=ROUTINE URGENT STAT"`
}

type EnterResultsPayload struct {
	Results []models.LabResultValue `json:"results" binding:"required,dive"`
}

// CreateLabRequest orders a lab test for a patient.
func (h *LabHandler) CreateLabRequest(c *gin.Context) {
	orderedBy := c.GetString("user_employee_id")

	var payload CreateLabRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.Priority == "" {
		payload.Priority = "ROUTINE"
	}

	count, err := h.DB.Collection("patients").CountDocuments(context.Background(), bson.M{"patientID": payload.PatientID, "active": true})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	newRequest := models.LabRequest{
		RequestID: fmt.Sprintf("LAB-%s", strings.ToUpper(uuid.New().String()[:8])),
		PatientID: payload.PatientID,
		TestType:  payload.TestType,
		Priority:  payload.Priority,
		OrderedBy: orderedBy,
		Status:    models.LabOrdered,
		CreatedAt: time.Now(),
	}

	result, err := h.DB.Collection("lab_requests").InsertOne(context.Background(), newRequest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lab request"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newRequest.ID = oid
	}

	c.JSON(http.StatusCreated, newRequest)
}

// CollectSample marks the sample as taken and assigns a sample ID.
func (h *LabHandler) CollectSample(c *gin.Context) {
	requestID := c.Param("id")

	now := time.Now()
	sampleID := fmt.Sprintf("SMP-%s", strings.ToUpper(uuid.New().String()[:8]))
	result, err := h.DB.Collection("lab_requests").UpdateOne(context.Background(),
		bson.M{"requestID": requestID, "status": models.LabOrdered},
		bson.M{"$set": bson.M{
			"status":            models.LabSampleCollected,
			"sampleID":          sampleID,
			"sampleCollectedAt": now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lab request"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Lab request not found or sample already collected"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "sampleID": sampleID})
}

// EnterResults stores result values, completes the request and notifies the orderer.
func (h *LabHandler) EnterResults(c *gin.Context) {
	requestID := c.Param("id")
	enteredBy := c.GetString("user_employee_id")

	var payload EnterResultsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()

	var request models.LabRequest
	err := h.DB.Collection("lab_requests").FindOne(ctx, bson.M{"requestID": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve lab request"})
		}
		return
	}
	if request.Status != models.LabSampleCollected {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Results cannot be entered while the request is %s", request.Status)})
		return
	}

	now := time.Now()
	_, err = h.DB.Collection("lab_requests").UpdateOne(ctx,
		bson.M{"requestID": requestID},
		bson.M{"$set": bson.M{
			"status":          models.LabCompleted,
			"results":         payload.Results,
			"resultEnteredBy": enteredBy,
			"completedAt":     now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store results"})
		return
	}

	// Tell the ordering doctor the results are ready.
	notification := map[string]interface{}{
		"event":     "lab_results_ready",
		"requestID": requestID,
		"patientID": request.PatientID,
		"testType":  request.TestType,
	}
	notificationJSON, _ := json.Marshal(notification)
	h.Hub.Send(request.OrderedBy, notificationJSON)

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Results entered for lab request " + requestID})
}

// UploadReport attaches a result report file (PDF) to a lab request via S3.
func (h *LabHandler) UploadReport(c *gin.Context) {
	if h.S3Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report storage is not configured"})
		return
	}

	requestID := c.Param("id")

	count, err := h.DB.Collection("lab_requests").CountDocuments(context.Background(), bson.M{"requestID": requestID})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lab request not found"})
		return
	}

	fileHeader, err := c.FormFile("report")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	objectKey := fmt.Sprintf("lab-reports/%s/%s", requestID, fileHeader.Filename)
	url, err := h.S3Uploader.UploadFile(c.Request.Context(), file, objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload report", "details": err.Error()})
		return
	}

	_, err = h.DB.Collection("lab_requests").UpdateOne(context.Background(),
		bson.M{"requestID": requestID},
		bson.M{"$set": bson.M{"reportURL": url}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save report URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "reportURL": url})
}

// GetLabRequestByID fetches one lab request.
func (h *LabHandler) GetLabRequestByID(c *gin.Context) {
	requestID := c.Param("id")

	var request models.LabRequest
	err := h.DB.Collection("lab_requests").FindOne(context.Background(), bson.M{"requestID": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve lab request"})
		}
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListLabRequests filters by patient and status.
func (h *LabHandler) ListLabRequests(c *gin.Context) {
	filter := bson.M{}
	if patientID := c.Query("patientID"); patientID != "" {
		filter["patientID"] = patientID
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("lab_requests").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query lab requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.LabRequest
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode lab requests"})
		return
	}

	if requests == nil {
		requests = []models.LabRequest{}
	}

	c.JSON(http.StatusOK, requests)
}
