package reports

import (
	"log"
	"net/http"
	"strings"
	"time"

	"radhe_backend/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// reportFilter is the parsed query string of a dynamic report
type reportFilter struct {
	Start        time.Time
	End          time.Time
	Status       models.OrderStatus
	CustomerName string
}

// matches reports whether user passes the customer name filter
func (f reportFilter) matches(user *models.User) bool {
	if f.CustomerName == "" {
		return true
	}
	if user == nil {
		return false
	}
	needle := strings.ToLower(f.CustomerName)
	if strings.Contains(strings.ToLower(user.FullName()), needle) {
		return true
	}
	return user.CompanyName != nil && strings.Contains(strings.ToLower(*user.CompanyName), needle)
}

func parseReportDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseFilter reads the date range and filters; the end date covers its whole day
func parseFilter(c *gin.Context) (reportFilter, string) {
	startDate, endDate := c.Query("startDate"), c.Query("endDate")
	if startDate == "" || endDate == "" {
		return reportFilter{}, "Missing startDate or endDate"
	}
	start, ok := parseReportDate(startDate)
	if !ok {
		return reportFilter{}, "Invalid startDate or endDate"
	}
	end, ok := parseReportDate(endDate)
	if !ok {
		return reportFilter{}, "Invalid startDate or endDate"
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), end.Location())
	if end.Before(start) {
		return reportFilter{}, "startDate must not be after endDate"
	}

	f := reportFilter{
		Start:        start,
		End:          end,
		Status:       models.OrderStatus(c.Query("status")),
		CustomerName: strings.TrimSpace(c.Query("customerName")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return reportFilter{}, "Invalid status filter"
	}
	return f, ""
}

type reportBuilder func(rc *Controller, db *gorm.DB, f reportFilter) (interface{}, error)

var reportBuilders = map[string]reportBuilder{
	"complete": (*Controller).completeReport,
	"orders":   (*Controller).ordersReport,
	"users":    (*Controller).usersReport,
	"payments": (*Controller).paymentsReport,
	"services": (*Controller).servicesReport,
}

// Dynamic builds one of the date-ranged reports named by :type
func (rc *Controller) Dynamic(c *gin.Context) {
	f, msg := parseFilter(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	reportType := c.Param("type")
	build, ok := reportBuilders[reportType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid report type"})
		return
	}

	data, err := build(rc, rc.DB.WithContext(c.Request.Context()), f)
	if err != nil {
		log.Printf("❌ Error building %s report: %v", reportType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generated_at": rc.now(),
		"date_range":   gin.H{"start": f.Start, "end": f.End},
		"type":         reportType,
		"data":         data,
	})
}

type lineSummary struct {
	Quantity    int              `json:"quantity"`
	CreelType   models.CreelType `json:"creel_type"`
	BobinLength float64          `json:"bobin_length"`
}

// productNames joins the distinct product names of an order's lines
func productNames(details []models.OrderDetail) string {
	seen := map[string]bool{}
	names := []string{}
	for _, d := range details {
		if d.Product == nil || seen[d.Product.Name] {
			continue
		}
		seen[d.Product.Name] = true
		names = append(names, d.Product.Name)
	}
	return strings.Join(names, ", ")
}

func totalQuantity(details []models.OrderDetail) int {
	total := 0
	for _, d := range details {
		total += d.Quantity
	}
	return total
}

// paidAmount sums the completed payments of an order
func paidAmount(payments []models.Payment) float64 {
	total := decimal.Zero
	for _, p := range payments {
		if p.PaymentStatus == models.PaymentStatusCompleted {
			total = total.Add(decimal.NewFromFloat(p.PaymentAmount))
		}
	}
	return total.Round(2).InexactFloat64()
}

// ordersInRange loads orders placed in the window with everything the order reports show
func ordersInRange(db *gorm.DB, f reportFilter) ([]models.Order, error) {
	query := db.
		Preload("User").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("order_details_id ASC") }).
		Preload("Details.Product").
		Preload("Payments").
		Preload("Delivery").
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("requested_date ASC, service_id ASC") }).
		Where("order_date BETWEEN ? AND ?", f.Start, f.End).
		Order("order_date DESC, order_id DESC")
	if f.Status != "" {
		query = query.Where("order_status = ?", f.Status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	kept := orders[:0]
	for _, o := range orders {
		if f.matches(o.User) {
			kept = append(kept, o)
		}
	}
	return kept, nil
}

type completeRow struct {
	OrderID        uint                   `json:"order_id"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	Company        *string                `json:"company"`
	Email          string                 `json:"email"`
	PhoneNumber    string                 `json:"phone_number"`
	OrderDate      time.Time              `json:"order_date"`
	OrderStatus    models.OrderStatus     `json:"order_status"`
	Products       string                 `json:"products"`
	OrderDetails   []lineSummary          `json:"order_details"`
	TotalPaid      float64                `json:"total_paid"`
	DeliveryStatus *models.DeliveryStatus `json:"delivery_status"`
	DeliveryDate   *time.Time             `json:"delivery_date"`
	Services       string                 `json:"services"`
	ServiceStatus  *models.ServiceStatus  `json:"service_status"`
	LatestFeedback *string                `json:"latest_feedback"`
	LatestRating   *int                   `json:"latest_rating"`
}

func (rc *Controller) completeReport(db *gorm.DB, f reportFilter) (interface{}, error) {
	orders, err := ordersInRange(db, f)
	if err != nil {
		return nil, err
	}

	latest, err := latestFeedback(db, orders)
	if err != nil {
		return nil, err
	}

	rows := make([]completeRow, 0, len(orders))
	for _, o := range orders {
		row := completeRow{
			OrderID:      o.ID,
			OrderDate:    o.OrderDate,
			OrderStatus:  o.OrderStatus,
			Products:     productNames(o.Details),
			OrderDetails: make([]lineSummary, 0, len(o.Details)),
			TotalPaid:    paidAmount(o.Payments),
		}
		if o.User != nil {
			row.FirstName = o.User.FirstName
			row.LastName = o.User.LastName
			row.Company = o.User.CompanyName
			row.Email = o.User.Email
			row.PhoneNumber = o.User.PhoneNumber
		}
		for _, d := range o.Details {
			row.OrderDetails = append(row.OrderDetails, lineSummary{Quantity: d.Quantity, CreelType: d.CreelType, BobinLength: d.BobinLength})
		}
		if o.Delivery != nil {
			row.DeliveryStatus = &o.Delivery.DeliveryStatus
			row.DeliveryDate = &o.Delivery.DeliveryDate
		}
		if n := len(o.Services); n > 0 {
			seen := map[string]bool{}
			types := []string{}
			for _, s := range o.Services {
				if !seen[s.ServiceType] {
					seen[s.ServiceType] = true
					types = append(types, s.ServiceType)
				}
			}
			row.Services = strings.Join(types, ", ")
			row.ServiceStatus = &o.Services[n-1].ServiceStatus
		}
		if fb, ok := latest[o.UserID]; ok {
			row.LatestFeedback = &fb.Comment
			row.LatestRating = &fb.Rating
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// latestFeedback returns the newest review of each customer behind orders
func latestFeedback(db *gorm.DB, orders []models.Order) (map[uint]models.Feedback, error) {
	latest := map[uint]models.Feedback{}
	if len(orders) == 0 {
		return latest, nil
	}
	userIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
	}

	var feedback []models.Feedback
	err := db.Where("user_id IN ?", userIDs).
		Order("created_at DESC, feedback_id DESC").
		Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	for _, fb := range feedback {
		if _, ok := latest[fb.UserID]; !ok {
			latest[fb.UserID] = fb
		}
	}
	return latest, nil
}

type ordersReportRow struct {
	OrderID       uint               `json:"order_id"`
	Customer      string             `json:"customer"`
	OrderDate     time.Time          `json:"order_date"`
	OrderStatus   models.OrderStatus `json:"order_status"`
	Products      string             `json:"products"`
	TotalQuantity int                `json:"total_quantity"`
	PaymentAmount float64            `json:"payment_amount"`
}

func (rc *Controller) ordersReport(db *gorm.DB, f reportFilter) (interface{}, error) {
	orders, err := ordersInRange(db, f)
	if err != nil {
		return nil, err
	}

	rows := make([]ordersReportRow, 0, len(orders))
	for _, o := range orders {
		row := ordersReportRow{
			OrderID:       o.ID,
			OrderDate:     o.OrderDate,
			OrderStatus:   o.OrderStatus,
			Products:      productNames(o.Details),
			TotalQuantity: totalQuantity(o.Details),
			PaymentAmount: paidAmount(o.Payments),
		}
		if o.User != nil {
			row.Customer = o.User.FirstName
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type usersReportRow struct {
	UserID           uint                   `json:"user_id"`
	FirstName        string                 `json:"first_name"`
	LastName         string                 `json:"last_name"`
	Email            string                 `json:"email"`
	PhoneNumber      string                 `json:"phone_number"`
	CompanyName      *string                `json:"company_name"`
	GSTNo            *string                `json:"GST_no"`
	RegistrationDate time.Time              `json:"registration_date"`
	OrderStatus      *models.OrderStatus    `json:"order_status"`
	Products         string                 `json:"products"`
	TotalQuantity    int                    `json:"total_quantity"`
	DeliveryStatus   *models.DeliveryStatus `json:"delivery_status"`
	DeliveryDate     *time.Time             `json:"delivery_date"`
	TotalOrders      int                    `json:"total_orders"`
	TotalSpent       float64                `json:"total_spent"`
	LastOrderDate    *time.Time             `json:"last_order_date"`
}

func (rc *Controller) usersReport(db *gorm.DB, f reportFilter) (interface{}, error) {
	var users []models.User
	err := db.
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			if f.Status != "" {
				db = db.Where("order_status = ?", f.Status)
			}
			return db.Order("order_date DESC, order_id DESC")
		}).
		Preload("Orders.Details.Product").
		Preload("Orders.Payments").
		Preload("Orders.Delivery").
		Where("registration_date BETWEEN ? AND ?", f.Start, f.End).
		Order("registration_date DESC, user_id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	rows := []usersReportRow{}
	for i := range users {
		u := &users[i]
		if !f.matches(u) || (f.Status != "" && len(u.Orders) == 0) {
			continue
		}

		row := usersReportRow{
			UserID:           u.ID,
			FirstName:        u.FirstName,
			LastName:         u.LastName,
			Email:            u.Email,
			PhoneNumber:      u.PhoneNumber,
			CompanyName:      u.CompanyName,
			GSTNo:            u.GSTNo,
			RegistrationDate: u.RegistrationDate,
			TotalOrders:      len(u.Orders),
		}

		spent := decimal.Zero
		var details []models.OrderDetail
		for _, o := range u.Orders {
			details = append(details, o.Details...)
			spent = spent.Add(decimal.NewFromFloat(paidAmount(o.Payments)))
		}
		row.Products = productNames(details)
		row.TotalQuantity = totalQuantity(details)
		row.TotalSpent = spent.Round(2).InexactFloat64()

		if len(u.Orders) > 0 {
			last := u.Orders[0]
			row.OrderStatus = &last.OrderStatus
			row.LastOrderDate = &last.OrderDate
			if last.Delivery != nil {
				row.DeliveryStatus = &last.Delivery.DeliveryStatus
				row.DeliveryDate = &last.Delivery.DeliveryDate
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type paymentsReportRow struct {
	PaymentID         uint                   `json:"payment_id"`
	OrderID           uint                   `json:"order_id"`
	FirstName         string                 `json:"first_name"`
	LastName          string                 `json:"last_name"`
	CompanyName       *string                `json:"company_name"`
	PaymentAmount     float64                `json:"payment_amount"`
	PaymentDate       time.Time              `json:"payment_date"`
	PaymentStatus     models.PaymentStatus   `json:"payment_status"`
	PaymentMethod     models.PaymentMethod   `json:"payment_method"`
	InstallmentNumber *int                   `json:"installment_number"`
	PaymentType       models.PaymentType     `json:"payment_type"`
	CreatedAt         time.Time              `json:"created_at"`
	OrderStatus       models.OrderStatus     `json:"order_status"`
	DeliveryStatus    *models.DeliveryStatus `json:"delivery_status"`
}

func (rc *Controller) paymentsReport(db *gorm.DB, f reportFilter) (interface{}, error) {
	var payments []models.Payment
	err := db.
		Preload("Order.User").
		Preload("Order.Delivery").
		Where("payment_date BETWEEN ? AND ?", f.Start, f.End).
		Order("payment_date DESC, payment_id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	rows := []paymentsReportRow{}
	for _, p := range payments {
		if p.Order == nil || (f.Status != "" && p.Order.OrderStatus != f.Status) || !f.matches(p.Order.User) {
			continue
		}
		row := paymentsReportRow{
			PaymentID:         p.ID,
			OrderID:           p.OrderID,
			PaymentAmount:     p.PaymentAmount,
			PaymentDate:       p.PaymentDate,
			PaymentStatus:     p.PaymentStatus,
			PaymentMethod:     p.PaymentMethod,
			InstallmentNumber: p.InstallmentNumber,
			PaymentType:       p.PaymentType,
			CreatedAt:         p.CreatedAt,
			OrderStatus:       p.Order.OrderStatus,
		}
		if u := p.Order.User; u != nil {
			row.FirstName = u.FirstName
			row.LastName = u.LastName
			row.CompanyName = u.CompanyName
		}
		if d := p.Order.Delivery; d != nil {
			row.DeliveryStatus = &d.DeliveryStatus
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type servicesReportRow struct {
	ServiceID      uint                   `json:"service_id"`
	OrderID        uint                   `json:"order_id"`
	ServiceType    string                 `json:"service_type"`
	ServiceNotes   string                 `json:"service_notes"`
	RequestedDate  time.Time              `json:"requested_date"`
	CompletedDate  *time.Time             `json:"completed_date"`
	ServiceCost    *float64               `json:"service_cost"`
	ServiceStatus  models.ServiceStatus   `json:"service_status"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	CompanyName    *string                `json:"company_name"`
	OrderDate      *time.Time             `json:"order_date"`
	DeliveryStatus *models.DeliveryStatus `json:"delivery_status"`
}

func (rc *Controller) servicesReport(db *gorm.DB, f reportFilter) (interface{}, error) {
	var list []models.Service
	err := db.
		Preload("User").
		Preload("Order.Delivery").
		Where("requested_date BETWEEN ? AND ?", f.Start, f.End).
		Order("requested_date DESC, service_id DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	rows := []servicesReportRow{}
	for _, s := range list {
		if (f.Status != "" && (s.Order == nil || s.Order.OrderStatus != f.Status)) || !f.matches(s.User) {
			continue
		}
		row := servicesReportRow{
			ServiceID:     s.ID,
			OrderID:       s.OrderID,
			ServiceType:   s.ServiceType,
			ServiceNotes:  s.ServiceNotes,
			RequestedDate: s.RequestedDate,
			CompletedDate: s.CompletedDate,
			ServiceCost:   s.ServiceCost,
			ServiceStatus: s.ServiceStatus,
		}
		if u := s.User; u != nil {
			row.FirstName = u.FirstName
			row.LastName = u.LastName
			row.CompanyName = u.CompanyName
		}
		if o := s.Order; o != nil {
			row.OrderDate = &o.OrderDate
			if o.Delivery != nil {
				row.DeliveryStatus = &o.Delivery.DeliveryStatus
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
