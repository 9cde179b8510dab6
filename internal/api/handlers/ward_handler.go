// server/internal/api/handlers/ward_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"hospital-management-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type WardHandler struct {
	DB *mongo.Database
}

type CreateWardRequest struct {
	WardNumber string `json:"wardNumber" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Capacity   int    `json:"capacity" binding:"required,min=1"`
}

// CreateWard creates a new ward.
func (h *WardHandler) CreateWard(c *gin.Context) {
	var req CreateWardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("wards")

	count, err := collection.CountDocuments(context.Background(), bson.M{"wardNumber": req.WardNumber})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for ward"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Ward with this number already exists"})
		return
	}

	newWard := models.Ward{
		WardNumber:       req.WardNumber,
		Name:             req.Name,
		Type:             req.Type,
		Capacity:         req.Capacity,
		CurrentOccupancy: 0,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	result, err := collection.InsertOne(context.Background(), newWard)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ward"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newWard.ID = oid
	}

	c.JSON(http.StatusCreated, newWard)
}

// GetAllWards lists every ward.
func (h *WardHandler) GetAllWards(c *gin.Context) {
	cursor, err := h.DB.Collection("wards").Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query wards"})
		return
	}
	defer cursor.Close(context.Background())

	var wards []models.Ward
	if err = cursor.All(context.Background(), &wards); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode wards"})
		return
	}

	if wards == nil {
		wards = []models.Ward{}
	}

	c.JSON(http.StatusOK, wards)
}

// GetWardByNumber fetches a single ward.
func (h *WardHandler) GetWardByNumber(c *gin.Context) {
	wardNumber := c.Param("id")

	var ward models.Ward
	err := h.DB.Collection("wards").FindOne(context.Background(), bson.M{"wardNumber": wardNumber}).Decode(&ward)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ward not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ward"})
		}
		return
	}

	c.JSON(http.StatusOK, ward)
}

// UpdateWard updates a ward's details.
func (h *WardHandler) UpdateWard(c *gin.Context) {
	wardNumber := c.Param("id")

	var req CreateWardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection("wards").UpdateOne(context.Background(),
		bson.M{"wardNumber": wardNumber},
		bson.M{"$set": bson.M{
			"name":      req.Name,
			"type":      req.Type,
			"capacity":  req.Capacity,
			"updatedAt": time.Now(),
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ward"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ward not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ward updated successfully"})
}

// DeleteWard removes an empty ward.
func (h *WardHandler) DeleteWard(c *gin.Context) {
	wardNumber := c.Param("id")

	var ward models.Ward
	err := h.DB.Collection("wards").FindOne(context.Background(), bson.M{"wardNumber": wardNumber}).Decode(&ward)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ward not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ward"})
		}
		return
	}
	if ward.CurrentOccupancy > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Ward still has admitted patients"})
		return
	}

	if _, err := h.DB.Collection("wards").DeleteOne(context.Background(), bson.M{"wardNumber": wardNumber}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ward"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ward deleted successfully"})
}

// GetOccupancyReport lists occupancy per ward.
func (h *WardHandler) GetOccupancyReport(c *gin.Context) {
	cursor, err := h.DB.Collection("wards").Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query wards"})
		return
	}
	defer cursor.Close(context.Background())

	var wards []models.Ward
	if err = cursor.All(context.Background(), &wards); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode wards"})
		return
	}

	report := make([]gin.H, 0, len(wards))
	totalCapacity, totalOccupied := 0, 0
	for _, w := range wards {
		totalCapacity += w.Capacity
		totalOccupied += w.CurrentOccupancy
		report = append(report, gin.H{
			"wardNumber":       w.WardNumber,
			"name":             w.Name,
			"type":             w.Type,
			"capacity":         w.Capacity,
			"currentOccupancy": w.CurrentOccupancy,
			"availableBeds":    w.Capacity - w.CurrentOccupancy,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"wards":         report,
		"totalCapacity": totalCapacity,
		"totalOccupied": totalOccupied,
	})
}
