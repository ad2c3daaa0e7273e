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

var errOrderInUse = errors.New("order has payments, deliveries or services")

// adminOrderRow is one order line with its customer and product
type adminOrderRow struct {
	OrderID        uint               `json:"order_id"`
	UserID         uint               `json:"user_id"`
	FirstName      string             `json:"first_name"`
	Email          string             `json:"email"`
	OrderDate      time.Time          `json:"order_date"`
	OrderStatus    models.OrderStatus `json:"order_status"`
	OrderDetailsID *uint              `json:"order_details_id"`
	ProductID      *uint              `json:"product_id"`
	ProductName    *string            `json:"product_name"`
	Quantity       *int               `json:"quantity"`
	NoOfEnds       *int               `json:"no_of_ends"`
	CreelType      *models.CreelType  `json:"creel_type"`
	CreelPitch     *float64           `json:"creel_pitch"`
	BobinLength    *float64           `json:"bobin_length"`
}

func orderRows(orders []models.Order) []adminOrderRow {
	rows := []adminOrderRow{}
	for _, order := range orders {
		base := adminOrderRow{
			OrderID:     order.ID,
			UserID:      order.UserID,
			OrderDate:   order.OrderDate,
			OrderStatus: order.OrderStatus,
		}
		if order.User != nil {
			base.FirstName = order.User.FirstName
			base.Email = order.User.Email
		}
		if len(order.Details) == 0 {
			rows = append(rows, base)
			continue
		}
		for i := range order.Details {
			d := &order.Details[i]
			row := base
			row.OrderDetailsID = &d.ID
			row.ProductID = &d.ProductID
			row.Quantity = &d.Quantity
			row.NoOfEnds = &d.NoOfEnds
			row.CreelType = &d.CreelType
			row.CreelPitch = &d.CreelPitch
			row.BobinLength = &d.BobinLength
			if d.Product != nil {
				row.ProductName = &d.Product.Name
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ListOrders returns every order line, newest first
func (ac *Controller) ListOrders(c *gin.Context) {
	var orders []models.Order
	err := ac.DB.WithContext(c.Request.Context()).
		Preload("User").
		Preload("Details.Product").
		Order("order_date DESC, order_id DESC").
		Find(&orders).Error
	if err != nil {
		log.Printf("Error fetching orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orderRows(orders))
}

// UpdateOrderStatus moves an order along its lifecycle
func (ac *Controller) UpdateOrderStatus(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "order")
	if !ok {
		return
	}
	var req struct {
		OrderStatus models.OrderStatus `json:"order_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.OrderStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order status."})
		return
	}

	err := database.WithTransaction(c.Request.Context(), ac.DB, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if err := order.OrderStatus.TransitionTo(req.OrderStatus); err != nil {
			return err
		}
		return tx.Model(&order).Update("order_status", req.OrderStatus).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found."})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "Order cannot move to " + string(req.OrderStatus) + " from its current status."})
	case err != nil:
		log.Printf("❌ Error updating order %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order status."})
	default:
		log.Printf("📦 Order %d moved to %s", id, req.OrderStatus)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully."})
	}
}

// DeleteOrder removes an order and its lines when nothing else references it
func (ac *Controller) DeleteOrder(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "order")
	if !ok {
		return
	}

	err := database.WithTransaction(c.Request.Context(), ac.DB, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}

		for _, model := range []interface{}{&models.Payment{}, &models.Delivery{}, &models.Service{}} {
			var n int64
			if err := tx.Model(model).Where("order_id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return errOrderInUse
			}
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found."})
	case errors.Is(err, errOrderInUse):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete order with payments, deliveries or service requests."})
	case err != nil:
		log.Printf("❌ Error deleting order %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete order."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully."})
	}
}
