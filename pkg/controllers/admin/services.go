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

type serviceRow struct {
	ServiceID     uint                  `json:"service_id"`
	OrderID       uint                  `json:"order_id"`
	UserID        uint                  `json:"user_id"`
	PaymentID     *uint                 `json:"payment_id"`
	RequestedDate time.Time             `json:"requested_date"`
	CompletedDate *time.Time            `json:"completed_date"`
	ServiceType   string                `json:"service_type"`
	ServiceNotes  string                `json:"service_notes"`
	ServiceCost   *float64              `json:"service_cost"`
	ServiceStatus models.ServiceStatus  `json:"service_status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
}

// serviceRows loads service requests with their payment status; status "" means all
func (ac *Controller) serviceRows(c *gin.Context, status models.ServiceStatus) ([]serviceRow, error) {
	query := ac.DB.WithContext(c.Request.Context()).Preload("Payment").Order("requested_date DESC, service_id DESC")
	if status != "" {
		query = query.Where("service_status = ?", status)
	}
	var list []models.Service
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}

	rows := make([]serviceRow, 0, len(list))
	for _, s := range list {
		row := serviceRow{
			ServiceID:     s.ID,
			OrderID:       s.OrderID,
			UserID:        s.UserID,
			PaymentID:     s.PaymentID,
			RequestedDate: s.RequestedDate,
			CompletedDate: s.CompletedDate,
			ServiceType:   s.ServiceType,
			ServiceNotes:  s.ServiceNotes,
			ServiceCost:   s.ServiceCost,
			ServiceStatus: s.ServiceStatus,
		}
		if s.Payment != nil {
			ps := s.Payment.PaymentStatus
			row.PaymentStatus = &ps
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListServices returns every service request
func (ac *Controller) ListServices(c *gin.Context) {
	rows, err := ac.serviceRows(c, "")
	if err != nil {
		log.Printf("Error fetching services: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch services."})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// UpdateServiceStatus advances a service request, stamping completion time
func (ac *Controller) UpdateServiceStatus(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "serviceId", "service")
	if !ok {
		return
	}
	var req struct {
		ServiceStatus models.ServiceStatus `json:"service_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.ServiceStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid service status."})
		return
	}

	err := database.WithTransaction(c.Request.Context(), ac.DB, func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.First(&service, id).Error; err != nil {
			return err
		}
		if err := service.ServiceStatus.TransitionTo(req.ServiceStatus); err != nil {
			return err
		}
		updates := map[string]interface{}{"service_status": req.ServiceStatus}
		if req.ServiceStatus == models.ServiceStatusCompleted {
			updates["completed_date"] = ac.now()
		}
		return tx.Model(&service).Updates(updates).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Service not found."})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "Service cannot move to " + string(req.ServiceStatus) + " from its current status."})
	case err != nil:
		log.Printf("❌ Error updating service %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update service status."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Service status updated successfully."})
	}
}
