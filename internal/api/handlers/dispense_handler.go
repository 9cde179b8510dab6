// server/internal/api/handlers/dispense_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hospital-management-api-server/internal/models"
	"hospital-management-api-server/internal/pharmacy"

	"github.com/gin-gonic/gin"
)

type DispenseHandler struct {
	Service *pharmacy.Service
}

type CreateDispenseRequestPayload struct {
	PrescriptionID   string                       `json:"prescriptionID" binding:"required"`
	WardLocation     string                       `json:"wardLocation" binding:"required"`
	DeliveryLocation string                       `json:"deliveryLocation" binding:"required"`
	UrgencyLevel     string                       `json:"urgencyLevel" binding:"omitempty,oneof=NORMAL URGENT EMERGENCY"`
	Notes            string                       `json:"notes"`
	Items            []pharmacy.DispenseItemInput `json:"items" binding:"required,dive"`
}

type UpdateDispenseStatusPayload struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type DispensePayload struct {
	ItemIDs    []string `json:"itemIDs" binding:"required"`
	Quantities []int    `json:"quantities" binding:"required"`
}

type CancelDispensePayload struct {
	Reason string `json:"reason" binding:"required"`
}

// writeServiceError maps pharmacy service errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	var notFound *pharmacy.NotFoundError
	var conflict *pharmacy.ConflictError
	var validation *pharmacy.ValidationError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// CreateDispenseRequest raises a pharmacy work order against a prescription.
func (h *DispenseHandler) CreateDispenseRequest(c *gin.Context) {
	requestedBy := c.GetString("user_employee_id")

	var payload CreateDispenseRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.Service.Create(c.Request.Context(), pharmacy.CreateRequestInput{
		PrescriptionID:   payload.PrescriptionID,
		RequestedBy:      requestedBy,
		WardLocation:     payload.WardLocation,
		DeliveryLocation: payload.DeliveryLocation,
		UrgencyLevel:     payload.UrgencyLevel,
		Notes:            payload.Notes,
		Items:            payload.Items,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetDispenseRequest fetches a request by its human-readable code, or by
// object id when the parameter does not carry the "DR" prefix.
func (h *DispenseHandler) GetDispenseRequest(c *gin.Context) {
	id := c.Param("id")

	var request *models.MedicineDispenseRequest
	var err error
	if strings.HasPrefix(id, "DR") {
		request, err = h.Service.GetByRequestID(c.Request.Context(), id)
	} else {
		request, err = h.Service.GetByID(c.Request.Context(), id)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// ListByPrescription lists all dispense requests for one prescription.
func (h *DispenseHandler) ListByPrescription(c *gin.Context) {
	requests, err := h.Service.ListByPrescription(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListPending pages through requests awaiting processing.
func (h *DispenseHandler) ListPending(c *gin.Context) {
	page := parsePage(c)
	result, err := h.Service.Search(c.Request.Context(), pharmacy.SearchFilter{Status: "PENDING"}, page)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListUrgent lists open URGENT and EMERGENCY requests, emergencies first.
func (h *DispenseHandler) ListUrgent(c *gin.Context) {
	requests, err := h.Service.ListUrgent(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListByStatus pages through requests in a given status.
func (h *DispenseHandler) ListByStatus(c *gin.Context) {
	page := parsePage(c)
	result, err := h.Service.Search(c.Request.Context(), pharmacy.SearchFilter{Status: c.Param("status")}, page)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchDispenseRequests filters by any combination of status, urgency, ward
// and requester.
func (h *DispenseHandler) SearchDispenseRequests(c *gin.Context) {
	page := parsePage(c)
	filter := pharmacy.SearchFilter{
		Status:       c.Query("status"),
		UrgencyLevel: c.Query("urgency"),
		WardLocation: c.Query("wardLocation"),
		RequestedBy:  c.Query("requestedBy"),
	}
	result, err := h.Service.Search(c.Request.Context(), filter, page)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateDispenseStatus performs an explicit transition (e.g., PROCESSING,
// DISPATCHED, DELIVERED) with timestamp stamping.
func (h *DispenseHandler) UpdateDispenseStatus(c *gin.Context) {
	processedBy := c.GetString("user_employee_id")

	var payload UpdateDispenseStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status, processedBy, payload.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// Dispense runs the dispensing transaction for the given item lines.
func (h *DispenseHandler) Dispense(c *gin.Context) {
	processedBy := c.GetString("user_employee_id")

	var payload DispensePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.Service.Dispense(c.Request.Context(), c.Param("id"), payload.ItemIDs, payload.Quantities, processedBy)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// CancelDispenseRequest rejects a request that has not been prepared yet.
func (h *DispenseHandler) CancelDispenseRequest(c *gin.Context) {
	var payload CancelDispensePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), payload.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func parsePage(c *gin.Context) int64 {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
