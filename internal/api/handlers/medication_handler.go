// server/internal/api/handlers/medication_handler.go
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

type MedicationHandler struct {
	DB *mongo.Database
}

type CreateMedicationRequest struct {
	DrugName     string  `json:"drugName" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	UnitCost     float64 `json:"unitCost" binding:"required,gt=0"`
	CurrentStock int     `json:"currentStock" binding:"min=0"`
	MinimumStock int     `json:"minimumStock" binding:"min=0"`
}

type UpdateMedicationRequest struct {
	DrugName     string  `json:"drugName" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	UnitCost     float64 `json:"unitCost" binding:"required,gt=0"`
	MinimumStock int     `json:"minimumStock" binding:"min=0"`
}

type AdjustStockRequest struct {
	Adjustment int    `json:"adjustment" binding:"required"` // positive receives stock, negative corrects it down
	Reason     string `json:"reason" binding:"required"`
}

// CreateMedication adds a drug to the formulary.
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	var req CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newMedication := models.Medication{
		MedicationID: fmt.Sprintf("MED-%s", strings.ToUpper(uuid.New().String()[:8])),
		DrugName:     req.DrugName,
		Category:     req.Category,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	result, err := h.DB.Collection("medications").InsertOne(context.Background(), newMedication)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create medication"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newMedication.ID = oid
	}

	c.JSON(http.StatusCreated, newMedication)
}

// GetMedicationByID fetches one medication.
func (h *MedicationHandler) GetMedicationByID(c *gin.Context) {
	medicationID := c.Param("id")

	var medication models.Medication
	err := h.DB.Collection("medications").FindOne(context.Background(), bson.M{"medicationID": medicationID}).Decode(&medication)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Medication not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve medication"})
		}
		return
	}

	c.JSON(http.StatusOK, medication)
}

// ListMedications filters the formulary by category and active flag.
func (h *MedicationHandler) ListMedications(c *gin.Context) {
	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if active := c.Query("active"); active != "" {
		filter["active"] = active == "true"
	}

	cursor, err := h.DB.Collection("medications").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query medications"})
		return
	}
	defer cursor.Close(context.Background())

	var medications []models.Medication
	if err = cursor.All(context.Background(), &medications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode medications"})
		return
	}

	if medications == nil {
		medications = []models.Medication{}
	}

	c.JSON(http.StatusOK, medications)
}

// UpdateMedication updates formulary details. Stock changes go through AdjustStock.
func (h *MedicationHandler) UpdateMedication(c *gin.Context) {
	medicationID := c.Param("id")

	var req UpdateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection("medications").UpdateOne(context.Background(),
		bson.M{"medicationID": medicationID},
		bson.M{"$set": bson.M{
			"drugName":     req.DrugName,
			"category":     req.Category,
			"unit":         req.Unit,
			"unitCost":     req.UnitCost,
			"minimumStock": req.MinimumStock,
			"updatedAt":    time.Now(),
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update medication"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medication not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Medication updated successfully"})
}

// DeactivateMedication removes a drug from dispensing without losing its history.
func (h *MedicationHandler) DeactivateMedication(c *gin.Context) {
	medicationID := c.Param("id")

	result, err := h.DB.Collection("medications").UpdateOne(context.Background(),
		bson.M{"medicationID": medicationID},
		bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate medication"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medication not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Medication deactivated successfully"})
}

// AdjustStock receives or corrects stock. The conditional filter keeps the
// ledger from going negative on downward corrections.
func (h *MedicationHandler) AdjustStock(c *gin.Context) {
	medicationID := c.Param("id")

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{"medicationID": medicationID}
	if req.Adjustment < 0 {
		filter["currentStock"] = bson.M{"$gte": -req.Adjustment}
	}

	var medication models.Medication
	err := h.DB.Collection("medications").FindOneAndUpdate(context.Background(),
		filter,
		bson.M{"$inc": bson.M{"currentStock": req.Adjustment}, "$set": bson.M{"updatedAt": time.Now()}},
	).Decode(&medication)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			count, countErr := h.DB.Collection("medications").CountDocuments(context.Background(), bson.M{"medicationID": medicationID})
			if countErr == nil && count == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "Medication not found"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": "Adjustment would make stock negative"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"medicationID":  medicationID,
		"previousStock": medication.CurrentStock,
		"currentStock":  medication.CurrentStock + req.Adjustment,
		"reason":        req.Reason,
	})
}

// ListLowStock returns active medications below their minimum stock level.
func (h *MedicationHandler) ListLowStock(c *gin.Context) {
	filter := bson.M{
		"active": true,
		"$expr":  bson.M{"$lt": bson.A{"$currentStock", "$minimumStock"}},
	}

	cursor, err := h.DB.Collection("medications").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query medications"})
		return
	}
	defer cursor.Close(context.Background())

	var medications []models.Medication
	if err = cursor.All(context.Background(), &medications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode medications"})
		return
	}

	if medications == nil {
		medications = []models.Medication{}
	}

	c.JSON(http.StatusOK, medications)
}

// GetPharmacyDashboard summarises the formulary's stock position.
func (h *MedicationHandler) GetPharmacyDashboard(c *gin.Context) {
	cursor, err := h.DB.Collection("medications").Find(context.Background(), bson.M{"active": true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query medications"})
		return
	}
	defer cursor.Close(context.Background())

	var medications []models.Medication
	if err = cursor.All(context.Background(), &medications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode medications"})
		return
	}

	totalStock := 0
	lowStock := 0
	outOfStock := 0
	categoryBreakdown := make(map[string]int)
	for _, m := range medications {
		totalStock += m.CurrentStock
		categoryBreakdown[m.Category]++
		switch m.StockStatus() {
		case "OUT_OF_STOCK":
			outOfStock++
		case "LOW_STOCK":
			lowStock++
		}
	}

	pendingDispense, err := h.DB.Collection("dispense_requests").CountDocuments(context.Background(),
		bson.M{"status": models.DispensePending})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending dispense requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalMedications":        len(medications),
		"totalStock":              totalStock,
		"lowStockCount":           lowStock,
		"outOfStockCount":         outOfStock,
		"pendingDispenseRequests": pendingDispense,
		"categoryBreakdown":       categoryBreakdown,
	})
}
