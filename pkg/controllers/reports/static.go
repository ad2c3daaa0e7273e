package reports

import (
	"log"
	"net/http"
	"sort"
	"time"

	"radhe_backend/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	userReportLimit      = 15
	orderReportLimit     = 9
	completedReportLimit = 15
	topProductsLimit     = 9
)

type userReportRow struct {
	UserID           uint      `json:"user_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	RegistrationDate time.Time `json:"registration_date"`
}

// Users lists the most recent signups
func (rc *Controller) Users(c *gin.Context) {
	var users []models.User
	err := rc.DB.WithContext(c.Request.Context()).
		Order("registration_date DESC, user_id DESC").
		Limit(userReportLimit).
		Find(&users).Error
	if err != nil {
		log.Printf("Error fetching users report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users report"})
		return
	}

	rows := make([]userReportRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userReportRow{
			UserID:           u.ID,
			FirstName:        u.FirstName,
			LastName:         u.LastName,
			Email:            u.Email,
			RegistrationDate: u.RegistrationDate,
		})
	}
	c.JSON(http.StatusOK, rows)
}

type orderLineRow struct {
	OrderID     uint               `json:"order_id"`
	UserID      uint               `json:"user_id"`
	OrderStatus models.OrderStatus `json:"order_status"`
	OrderDate   time.Time          `json:"order_date"`
	ProductID   uint               `json:"product_id"`
	ProductName string             `json:"product_name"`
	Quantity    int                `json:"quantity"`
	NoOfEnds    int                `json:"no_of_ends"`
	CreelType   models.CreelType   `json:"creel_type"`
	CreelPitch  float64            `json:"creel_pitch"`
	BobinLength float64            `json:"bobin_length"`
}

// orderLines returns up to limit order lines, newest first; status "" means any
func (rc *Controller) orderLines(c *gin.Context, status models.OrderStatus, limit int) ([]orderLineRow, error) {
	query := rc.DB.WithContext(c.Request.Context()).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("order_details_id ASC") }).
		Preload("Details.Product").
		Order("order_date DESC, order_id DESC").
		Limit(limit)
	if status != "" {
		query = query.Where("order_status = ?", status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	rows := []orderLineRow{}
	for _, o := range orders {
		for _, d := range o.Details {
			if len(rows) == limit {
				return rows, nil
			}
			row := orderLineRow{
				OrderID:     o.ID,
				UserID:      o.UserID,
				OrderStatus: o.OrderStatus,
				OrderDate:   o.OrderDate,
				ProductID:   d.ProductID,
				Quantity:    d.Quantity,
				NoOfEnds:    d.NoOfEnds,
				CreelType:   d.CreelType,
				CreelPitch:  d.CreelPitch,
				BobinLength: d.BobinLength,
			}
			if d.Product != nil {
				row.ProductName = d.Product.Name
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (rc *Controller) writeOrderLines(c *gin.Context, status models.OrderStatus, limit int, failure string) {
	rows, err := rc.orderLines(c, status, limit)
	if err != nil {
		log.Printf("Error fetching order lines (%q): %v", status, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": failure})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Orders lists the latest order lines of any status
func (rc *Controller) Orders(c *gin.Context) {
	rc.writeOrderLines(c, "", orderReportLimit, "Failed to fetch orders report")
}

// PendingOrders lists the latest lines still awaiting confirmation
func (rc *Controller) PendingOrders(c *gin.Context) {
	rc.writeOrderLines(c, models.OrderStatusPending, orderReportLimit, "Failed to fetch pending orders")
}

// CompletedOrders lists the latest delivered lines
func (rc *Controller) CompletedOrders(c *gin.Context) {
	rc.writeOrderLines(c, models.OrderStatusDelivered, completedReportLimit, "Failed to fetch completed orders")
}

// RecentOrders lists the latest order lines for the dashboard feed
func (rc *Controller) RecentOrders(c *gin.Context) {
	rc.writeOrderLines(c, "", orderReportLimit, "Failed to fetch recent orders")
}

type revenueRow struct {
	Month        string  `json:"month"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Revenue totals completed payments per calendar month, latest month first
func (rc *Controller) Revenue(c *gin.Context) {
	var payments []models.Payment
	err := rc.DB.WithContext(c.Request.Context()).
		Select("payment_amount", "payment_date").
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Find(&payments).Error
	if err != nil {
		log.Printf("Error fetching revenue report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch revenue report"})
		return
	}

	monthly := map[string]decimal.Decimal{}
	for _, p := range payments {
		month := p.PaymentDate.Format("2006-01")
		monthly[month] = monthly[month].Add(decimal.NewFromFloat(p.PaymentAmount))
	}

	rows := make([]revenueRow, 0, len(monthly))
	for month, total := range monthly {
		rows = append(rows, revenueRow{Month: month, TotalRevenue: total.Round(2).InexactFloat64()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month > rows[j].Month })

	c.JSON(http.StatusOK, rows)
}

type paymentStatusRow struct {
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	TotalPayments int64                `json:"total_payments"`
}

// PaymentStatus counts payments per status
func (rc *Controller) PaymentStatus(c *gin.Context) {
	rows := []paymentStatusRow{}
	err := rc.DB.WithContext(c.Request.Context()).
		Model(&models.Payment{}).
		Select("payment_status, COUNT(payment_id) AS total_payments").
		Group("payment_status").
		Order("payment_status").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching payment status report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch payment status report"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type serviceStatusRow struct {
	ServiceStatus models.ServiceStatus `json:"service_status"`
	TotalServices int64                `json:"total_services"`
}

// ServicesStatus counts service requests per status
func (rc *Controller) ServicesStatus(c *gin.Context) {
	rows := []serviceStatusRow{}
	err := rc.DB.WithContext(c.Request.Context()).
		Model(&models.Service{}).
		Select("service_status, COUNT(service_id) AS total_services").
		Group("service_status").
		Order("service_status").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching services status report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch services status report"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type topProductRow struct {
	ProductName string `json:"product_name"`
	TotalOrders int64  `json:"total_orders"`
}

// TopProducts ranks products by how many order lines reference them
func (rc *Controller) TopProducts(c *gin.Context) {
	rows := []topProductRow{}
	err := rc.DB.WithContext(c.Request.Context()).
		Table("order_details").
		Select("products.product_name, COUNT(order_details.order_id) AS total_orders").
		Joins("JOIN products ON products.product_id = order_details.product_id").
		Group("products.product_name").
		Order("total_orders DESC, products.product_name ASC").
		Limit(topProductsLimit).
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching top products report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch top products"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type feedbackRatingRow struct {
	Rating        int   `json:"rating"`
	TotalFeedback int64 `json:"total_feedback"`
}

// Feedback counts reviews per star rating
func (rc *Controller) Feedback(c *gin.Context) {
	rows := []feedbackRatingRow{}
	err := rc.DB.WithContext(c.Request.Context()).
		Model(&models.Feedback{}).
		Select("rating, COUNT(feedback_id) AS total_feedback").
		Group("rating").
		Order("rating DESC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching feedback report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch feedback report"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type serviceTypeRow struct {
	ServiceType   string `json:"service_type"`
	TotalRequests int64  `json:"total_requests"`
}

// ServiceRequests counts service requests per type
func (rc *Controller) ServiceRequests(c *gin.Context) {
	rows := []serviceTypeRow{}
	err := rc.DB.WithContext(c.Request.Context()).
		Model(&models.Service{}).
		Select("service_type, COUNT(service_id) AS total_requests").
		Group("service_type").
		Order("total_requests DESC, service_type ASC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching service requests report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch service requests report"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
