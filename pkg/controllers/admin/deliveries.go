package admin

import (
	"errors"
	"log"
	"net/http"
	"time"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errPaymentNotCompleted = errors.New("payment is not completed")
	errDeliveryExists      = errors.New("order already has a delivery")
)

// CreateDelivery schedules the delivery of the order behind a completed payment
func (ac *Controller) CreateDelivery(c *gin.Context) {
	var req struct {
		PaymentID utils.FlexFloat `json:"paymentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.PaymentID.IsWholePositive() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment ID is required."})
		return
	}

	var delivery models.Delivery
	err := database.WithTransaction(c.Request.Context(), ac.DB, func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, req.PaymentID.Int()).Error; err != nil {
			return err
		}
		if payment.PaymentStatus != models.PaymentStatusCompleted {
			return errPaymentNotCompleted
		}

		var existing int64
		if err := tx.Model(&models.Delivery{}).Where("order_id = ?", payment.OrderID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errDeliveryExists
		}

		delivery = models.Delivery{
			OrderID:        payment.OrderID,
			PaymentID:      payment.ID,
			DeliveryDate:   ac.now(),
			DeliveryStatus: models.DeliveryStatusPending,
		}
		return tx.Create(&delivery).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Payment not found"})
		return
	case errors.Is(err, errPaymentNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"message": "Delivery can only be created for a completed payment."})
		return
	case errors.Is(err, errDeliveryExists), errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"message": "A delivery already exists for this order."})
		return
	case err != nil:
		log.Printf("❌ Error creating delivery for payment %d: %v", req.PaymentID.Int(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating delivery"})
		return
	}

	log.Printf("🚚 Delivery %d scheduled for order %d", delivery.ID, delivery.OrderID)
	c.JSON(http.StatusCreated, gin.H{
		"delivery_id":   delivery.ID,
		"order_id":      delivery.OrderID,
		"delivery_date": delivery.DeliveryDate,
		"status":        delivery.DeliveryStatus,
	})
}

type deliveryRow struct {
	DeliveryID     uint                  `json:"delivery_id"`
	OrderID        uint                  `json:"order_id"`
	DeliveryStatus models.DeliveryStatus `json:"delivery_status"`
	DeliveryDate   time.Time             `json:"delivery_date"`
	PaymentID      uint                  `json:"payment_id"`
	PaymentStatus  *models.PaymentStatus `json:"payment_status"`
}

// ListDeliveries returns every delivery with the status of the payment behind it
func (ac *Controller) ListDeliveries(c *gin.Context) {
	var deliveries []models.Delivery
	err := ac.DB.WithContext(c.Request.Context()).
		Preload("Payment").
		Order("delivery_date DESC, delivery_id DESC").
		Find(&deliveries).Error
	if err != nil {
		log.Printf("Error fetching deliveries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch deliveries"})
		return
	}

	rows := make([]deliveryRow, 0, len(deliveries))
	for _, d := range deliveries {
		row := deliveryRow{
			DeliveryID:     d.ID,
			OrderID:        d.OrderID,
			DeliveryStatus: d.DeliveryStatus,
			DeliveryDate:   d.DeliveryDate,
			PaymentID:      d.PaymentID,
		}
		if d.Payment != nil {
			status := d.Payment.PaymentStatus
			row.PaymentStatus = &status
		}
		rows = append(rows, row)
	}
	c.JSON(http.StatusOK, rows)
}

// UpdateDeliveryStatus advances a delivery; reaching Delivered also delivers the order
func (ac *Controller) UpdateDeliveryStatus(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "delivery")
	if !ok {
		return
	}
	var req struct {
		DeliveryStatus models.DeliveryStatus `json:"delivery_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.DeliveryStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid delivery status."})
		return
	}

	err := database.WithTransaction(c.Request.Context(), ac.DB, func(tx *gorm.DB) error {
		var delivery models.Delivery
		if err := tx.First(&delivery, id).Error; err != nil {
			return err
		}
		if err := delivery.DeliveryStatus.TransitionTo(req.DeliveryStatus); err != nil {
			return err
		}
		if err := tx.Model(&delivery).Update("delivery_status", req.DeliveryStatus).Error; err != nil {
			return err
		}
		if req.DeliveryStatus != models.DeliveryStatusDelivered {
			return nil
		}

		var order models.Order
		if err := tx.First(&order, delivery.OrderID).Error; err != nil {
			return err
		}
		if order.OrderStatus.TransitionTo(models.OrderStatusDelivered) != nil {
			log.Printf("⚠️  Delivery %d delivered but order %d stays %s", delivery.ID, order.ID, order.OrderStatus)
			return nil
		}
		return tx.Model(&order).Update("order_status", models.OrderStatusDelivered).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Delivery not found."})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "Delivery cannot move to " + string(req.DeliveryStatus) + " from its current status."})
	case err != nil:
		log.Printf("❌ Error updating delivery %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating delivery status"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Delivery status updated successfully."})
	}
}
