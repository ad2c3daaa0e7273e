package admin

import (
	"log"
	"net/http"

	"radhe_backend/pkg/models"

	"github.com/gin-gonic/gin"
)

const recentOrdersLimit = 5

// TotalUsers counts registered accounts
func (ac *Controller) TotalUsers(c *gin.Context) {
	var total int64
	if err := ac.DB.WithContext(c.Request.Context()).Model(&models.User{}).Count(&total).Error; err != nil {
		log.Printf("Error counting users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch total users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_users": total})
}

// PendingOrders counts orders still awaiting confirmation
func (ac *Controller) PendingOrders(c *gin.Context) {
	var pending int64
	err := ac.DB.WithContext(c.Request.Context()).
		Model(&models.Order{}).
		Where("order_status = ?", models.OrderStatusPending).
		Count(&pending).Error
	if err != nil {
		log.Printf("Error counting pending orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch pending orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending_orders": pending})
}

// PendingServices lists service requests nobody has picked up yet
func (ac *Controller) PendingServices(c *gin.Context) {
	rows, err := ac.serviceRows(c, models.ServiceStatusPending)
	if err != nil {
		log.Printf("Error fetching pending services: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch pending services"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Revenue sums every completed payment
func (ac *Controller) Revenue(c *gin.Context) {
	var total float64
	err := ac.DB.WithContext(c.Request.Context()).
		Model(&models.Payment{}).
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(payment_amount), 0)").
		Scan(&total).Error
	if err != nil {
		log.Printf("Error summing revenue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch revenue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_revenue": total})
}

// FeedbackCount counts product reviews
func (ac *Controller) FeedbackCount(c *gin.Context) {
	var count int64
	if err := ac.DB.WithContext(c.Request.Context()).Model(&models.Feedback{}).Count(&count).Error; err != nil {
		log.Printf("Error counting feedback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch feedback count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback_count": count})
}

// RecentOrders returns the lines of the latest pending orders
func (ac *Controller) RecentOrders(c *gin.Context) {
	var orders []models.Order
	err := ac.DB.WithContext(c.Request.Context()).
		Preload("Details.Product").
		Where("order_status = ?", models.OrderStatusPending).
		Order("order_date DESC, order_id DESC").
		Limit(recentOrdersLimit).
		Find(&orders).Error
	if err != nil {
		log.Printf("Error fetching recent orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch pending orders"})
		return
	}

	rows := orderRows(orders)
	if len(rows) > recentOrdersLimit {
		rows = rows[:recentOrdersLimit]
	}
	c.JSON(http.StatusOK, rows)
}
