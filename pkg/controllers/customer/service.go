package customer

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type requestServiceRequest struct {
	OrderID      utils.FlexFloat `json:"order_id"`
	ServiceType  string          `json:"service_type"`
	ServiceNotes string          `json:"service_notes"`
}

// RequestService opens a maintenance request against one of the caller's delivered orders
func (cc *Controller) RequestService(c *gin.Context) {
	var req requestServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.OrderID.IsWholePositive() || strings.TrimSpace(req.ServiceType) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Order ID and service type are required."})
		return
	}
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	var order models.Order
	err := cc.DB.WithContext(ctx).Where("order_id = ? AND user_id = ?", req.OrderID.Int(), user.ID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching order %d: %v", req.OrderID.Int(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if order.OrderStatus != models.OrderStatusDelivered {
		c.JSON(http.StatusConflict, gin.H{"message": "Service can only be requested for delivered orders."})
		return
	}

	service := models.Service{
		OrderID:       order.ID,
		UserID:        user.ID,
		ServiceType:   strings.TrimSpace(req.ServiceType),
		ServiceNotes:  strings.TrimSpace(req.ServiceNotes),
		ServiceStatus: models.ServiceStatusPending,
	}
	if err := cc.DB.WithContext(ctx).Create(&service).Error; err != nil {
		log.Printf("❌ Error creating service request for order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit service request."})
		return
	}

	cc.notifyOwner(ctx, "Service requested",
		user.FullName()+" requested "+service.ServiceType+" for order "+strconv.FormatUint(uint64(order.ID), 10),
		map[string]string{
			"order_id":   strconv.FormatUint(uint64(order.ID), 10),
			"service_id": strconv.FormatUint(uint64(service.ID), 10),
		}, "")

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Service request submitted successfully.",
		"serviceId": service.ID,
	})
}
