package reports

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"radhe_backend/pkg/config"
	"radhe_backend/pkg/database"
	"radhe_backend/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reportEnv struct {
	router *gin.Engine
	db     *gorm.DB
	asha   models.User
	vikram models.User
	creel  models.Product
	stand  models.Product
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func setupReports(t *testing.T) *reportEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(&config.Config{DatabaseURL: ":memory:", Environment: "test"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	company := "Vikram Textiles"
	env := &reportEnv{
		db:     db,
		asha:   models.User{FirstName: "Asha", LastName: "Patel", Email: "asha@radhe.test", Password: "x", UserType: models.RoleCustomer, RegistrationDate: day("2026-01-05 09:00")},
		vikram: models.User{FirstName: "Vikram", LastName: "Shah", Email: "vikram@radhe.test", Password: "x", UserType: models.RoleCustomer, CompanyName: &company, RegistrationDate: day("2026-02-10 09:00")},
	}
	require.NoError(t, db.Create(&env.asha).Error)
	require.NoError(t, db.Create(&env.vikram).Error)

	category := models.Category{Name: "Creels"}
	require.NoError(t, db.Create(&category).Error)
	env.creel = models.Product{CategoryID: category.ID, Name: "Magazine Creel"}
	env.stand = models.Product{CategoryID: category.ID, Name: "Bobbin Stand"}
	require.NoError(t, db.Create(&env.creel).Error)
	require.NoError(t, db.Create(&env.stand).Error)

	rc := New(db)
	rc.now = func() time.Time { return day("2026-04-01 12:00") }

	router := gin.New()
	router.GET("/admin/static_reports/users", rc.Users)
	router.GET("/admin/static_reports/orders", rc.Orders)
	router.GET("/admin/static_reports/orders/pending", rc.PendingOrders)
	router.GET("/admin/static_reports/orders/completed", rc.CompletedOrders)
	router.GET("/admin/static_reports/revenue", rc.Revenue)
	router.GET("/admin/static_reports/payment-status", rc.PaymentStatus)
	router.GET("/admin/static_reports/services-status", rc.ServicesStatus)
	router.GET("/admin/static_reports/top-products", rc.TopProducts)
	router.GET("/admin/static_reports/feedback", rc.Feedback)
	router.GET("/admin/static_reports/recent-orders", rc.RecentOrders)
	router.GET("/admin/static_reports/service-requests", rc.ServiceRequests)
	router.GET("/admin/reports/:type", rc.Dynamic)
	env.router = router
	return env
}

func (e *reportEnv) order(t *testing.T, user models.User, status models.OrderStatus, at string, products ...models.Product) models.Order {
	t.Helper()
	order := models.Order{UserID: user.ID, OrderStatus: status, OrderDate: day(at)}
	require.NoError(t, e.db.Create(&order).Error)
	for i, p := range products {
		detail := models.OrderDetail{OrderID: order.ID, ProductID: p.ID, Quantity: 10 * (i + 1), NoOfEnds: 4, CreelType: models.CreelTypeU, CreelPitch: 5, BobinLength: 20}
		require.NoError(t, e.db.Create(&detail).Error)
	}
	return order
}

func (e *reportEnv) payment(t *testing.T, orderID uint, number int, amount float64, status models.PaymentStatus, at string) {
	t.Helper()
	payment := models.Payment{
		OrderID:           orderID,
		PaymentAmount:     amount,
		InstallmentNumber: &number,
		PaymentMethod:     models.PaymentMethodOnline,
		PaymentType:       models.PaymentTypeProduct,
		PaymentStatus:     status,
		PaymentDate:       day(at),
	}
	require.NoError(t, e.db.Create(&payment).Error)
}

func (e *reportEnv) get(t *testing.T, path string, dest interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if dest != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
	}
	return rec
}

func TestStaticOrderReports(t *testing.T) {
	env := setupReports(t)
	env.order(t, env.asha, models.OrderStatusPending, "2026-03-01 10:00", env.creel, env.stand)
	env.order(t, env.vikram, models.OrderStatusDelivered, "2026-03-02 10:00", env.creel)

	var lines []orderLineRow
	env.get(t, "/admin/static_reports/orders", &lines)
	require.Len(t, lines, 3)
	assert.Equal(t, env.vikram.ID, lines[0].UserID)
	assert.Equal(t, "Magazine Creel", lines[1].ProductName)
	assert.Equal(t, "Bobbin Stand", lines[2].ProductName)

	env.get(t, "/admin/static_reports/orders/pending", &lines)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, models.OrderStatusPending, l.OrderStatus)
	}

	env.get(t, "/admin/static_reports/orders/completed", &lines)
	require.Len(t, lines, 1)
	assert.Equal(t, models.OrderStatusDelivered, lines[0].OrderStatus)

	var top []topProductRow
	env.get(t, "/admin/static_reports/top-products", &top)
	require.Len(t, top, 2)
	assert.Equal(t, topProductRow{ProductName: "Magazine Creel", TotalOrders: 2}, top[0])
}

func TestStaticOrderReports_Limit(t *testing.T) {
	env := setupReports(t)
	for i := 0; i < 6; i++ {
		env.order(t, env.asha, models.OrderStatusPending, "2026-03-01 10:00", env.creel, env.stand)
	}

	var lines []orderLineRow
	env.get(t, "/admin/static_reports/recent-orders", &lines)
	assert.Len(t, lines, orderReportLimit)
}

func TestStaticUsersReport(t *testing.T) {
	env := setupReports(t)

	var users []userReportRow
	env.get(t, "/admin/static_reports/users", &users)
	require.Len(t, users, 2)
	assert.Equal(t, "Vikram", users[0].FirstName)
}

func TestRevenueReport(t *testing.T) {
	env := setupReports(t)
	order := env.order(t, env.asha, models.OrderStatusConfirmed, "2026-01-20 10:00", env.creel)
	env.payment(t, order.ID, 1, 100.10, models.PaymentStatusCompleted, "2026-01-21 10:00")
	env.payment(t, order.ID, 2, 200.20, models.PaymentStatusCompleted, "2026-01-28 10:00")
	env.payment(t, order.ID, 3, 300, models.PaymentStatusCompleted, "2026-02-03 10:00")
	env.payment(t, order.ID, 4, 999, models.PaymentStatusPending, "2026-02-04 10:00")

	var rows []revenueRow
	env.get(t, "/admin/static_reports/revenue", &rows)
	assert.Equal(t, []revenueRow{
		{Month: "2026-02", TotalRevenue: 300},
		{Month: "2026-01", TotalRevenue: 300.30},
	}, rows)

	var statuses []paymentStatusRow
	env.get(t, "/admin/static_reports/payment-status", &statuses)
	assert.Equal(t, []paymentStatusRow{
		{PaymentStatus: models.PaymentStatusCompleted, TotalPayments: 3},
		{PaymentStatus: models.PaymentStatusPending, TotalPayments: 1},
	}, statuses)
}

func TestGroupCountReports(t *testing.T) {
	env := setupReports(t)
	order := env.order(t, env.asha, models.OrderStatusDelivered, "2026-03-01 10:00", env.creel)
	for _, s := range []models.Service{
		{OrderID: order.ID, UserID: env.asha.ID, ServiceType: "Maintenance", ServiceStatus: models.ServiceStatusPending},
		{OrderID: order.ID, UserID: env.asha.ID, ServiceType: "Maintenance", ServiceStatus: models.ServiceStatusCompleted},
		{OrderID: order.ID, UserID: env.asha.ID, ServiceType: "Repair", ServiceStatus: models.ServiceStatusCompleted},
	} {
		s := s
		require.NoError(t, env.db.Create(&s).Error)
	}
	for _, rating := range []int{5, 5, 3} {
		require.NoError(t, env.db.Create(&models.Feedback{ProductID: env.creel.ID, UserID: env.asha.ID, Comment: "ok", Rating: rating}).Error)
	}

	var statuses []serviceStatusRow
	env.get(t, "/admin/static_reports/services-status", &statuses)
	assert.Equal(t, []serviceStatusRow{
		{ServiceStatus: models.ServiceStatusCompleted, TotalServices: 2},
		{ServiceStatus: models.ServiceStatusPending, TotalServices: 1},
	}, statuses)

	var types []serviceTypeRow
	env.get(t, "/admin/static_reports/service-requests", &types)
	assert.Equal(t, []serviceTypeRow{
		{ServiceType: "Maintenance", TotalRequests: 2},
		{ServiceType: "Repair", TotalRequests: 1},
	}, types)

	var ratings []feedbackRatingRow
	env.get(t, "/admin/static_reports/feedback", &ratings)
	assert.Equal(t, []feedbackRatingRow{
		{Rating: 5, TotalFeedback: 2},
		{Rating: 3, TotalFeedback: 1},
	}, ratings)
}

func TestDynamicReport_Validation(t *testing.T) {
	env := setupReports(t)

	tests := []struct {
		name  string
		query string
		msg   string
	}{
		{"missing dates", "/admin/reports/orders?startDate=2026-01-01", "Missing startDate or endDate"},
		{"bad date", "/admin/reports/orders?startDate=yesterday&endDate=2026-01-31", "Invalid startDate or endDate"},
		{"inverted range", "/admin/reports/orders?startDate=2026-02-01&endDate=2026-01-31", "startDate must not be after endDate"},
		{"bad status", "/admin/reports/orders?startDate=2026-01-01&endDate=2026-01-31&status=Lost", "Invalid status filter"},
		{"bad type", "/admin/reports/inventory?startDate=2026-01-01&endDate=2026-01-31", "Invalid report type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(t, tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body["message"])
		})
	}
}

type envelope[T any] struct {
	GeneratedAt time.Time `json:"generated_at"`
	DateRange   struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"date_range"`
	Type string `json:"type"`
	Data []T    `json:"data"`
}

func TestDynamicOrdersReport(t *testing.T) {
	env := setupReports(t)
	first := env.order(t, env.asha, models.OrderStatusConfirmed, "2026-03-31 18:30", env.creel, env.stand)
	env.payment(t, first.ID, 1, 500, models.PaymentStatusCompleted, "2026-03-31 19:00")
	env.payment(t, first.ID, 2, 250, models.PaymentStatusPending, "2026-04-02 10:00")
	env.order(t, env.vikram, models.OrderStatusPending, "2026-03-15 10:00", env.creel)
	env.order(t, env.vikram, models.OrderStatusPending, "2026-04-01 00:00", env.creel)

	var got envelope[ordersReportRow]
	rec := env.get(t, "/admin/reports/orders?startDate=2026-03-01&endDate=2026-03-31", &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "orders", got.Type)
	assert.True(t, got.DateRange.End.Equal(day("2026-03-31 23:59").Add(59*time.Second+999*time.Millisecond)))
	require.Len(t, got.Data, 2)

	assert.Equal(t, "Asha", got.Data[0].Customer)
	assert.Equal(t, "Magazine Creel, Bobbin Stand", got.Data[0].Products)
	assert.Equal(t, 30, got.Data[0].TotalQuantity)
	assert.Equal(t, 500.0, got.Data[0].PaymentAmount)

	env.get(t, "/admin/reports/orders?startDate=2026-03-01&endDate=2026-03-31&status=Pending", &got)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Vikram", got.Data[0].Customer)

	env.get(t, "/admin/reports/orders?startDate=2026-03-01&endDate=2026-03-31&customerName=textiles", &got)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Vikram", got.Data[0].Customer)
}

func TestDynamicCompleteReport(t *testing.T) {
	env := setupReports(t)
	order := env.order(t, env.asha, models.OrderStatusDelivered, "2026-03-10 10:00", env.creel)
	env.payment(t, order.ID, 1, 1200, models.PaymentStatusCompleted, "2026-03-11 10:00")
	var payment models.Payment
	require.NoError(t, env.db.First(&payment).Error)
	require.NoError(t, env.db.Create(&models.Delivery{OrderID: order.ID, PaymentID: payment.ID, DeliveryDate: day("2026-03-12 10:00"), DeliveryStatus: models.DeliveryStatusDelivered}).Error)
	require.NoError(t, env.db.Create(&models.Service{OrderID: order.ID, UserID: env.asha.ID, ServiceType: "Maintenance", ServiceStatus: models.ServiceStatusInProgress}).Error)
	require.NoError(t, env.db.Create(&models.Feedback{ProductID: env.creel.ID, UserID: env.asha.ID, Comment: "old", Rating: 3, CreatedAt: day("2026-03-01 10:00")}).Error)
	require.NoError(t, env.db.Create(&models.Feedback{ProductID: env.creel.ID, UserID: env.asha.ID, Comment: "runs smooth", Rating: 5, CreatedAt: day("2026-03-20 10:00")}).Error)

	var got envelope[completeRow]
	rec := env.get(t, "/admin/reports/complete?startDate=2026-03-01&endDate=2026-03-31", &got)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got.Data, 1)

	row := got.Data[0]
	assert.Equal(t, "asha@radhe.test", row.Email)
	assert.Equal(t, []lineSummary{{Quantity: 10, CreelType: models.CreelTypeU, BobinLength: 20}}, row.OrderDetails)
	assert.Equal(t, 1200.0, row.TotalPaid)
	require.NotNil(t, row.DeliveryStatus)
	assert.Equal(t, models.DeliveryStatusDelivered, *row.DeliveryStatus)
	assert.Equal(t, "Maintenance", row.Services)
	require.NotNil(t, row.ServiceStatus)
	assert.Equal(t, models.ServiceStatusInProgress, *row.ServiceStatus)
	require.NotNil(t, row.LatestFeedback)
	assert.Equal(t, "runs smooth", *row.LatestFeedback)
	assert.Equal(t, 5, *row.LatestRating)
}

func TestDynamicUsersReport(t *testing.T) {
	env := setupReports(t)
	older := env.order(t, env.vikram, models.OrderStatusDelivered, "2026-02-15 10:00", env.creel)
	env.payment(t, older.ID, 1, 400, models.PaymentStatusCompleted, "2026-02-16 10:00")
	env.order(t, env.vikram, models.OrderStatusPending, "2026-03-15 10:00", env.stand)

	var got envelope[usersReportRow]
	env.get(t, "/admin/reports/users?startDate=2026-01-01&endDate=2026-03-31", &got)
	require.Len(t, got.Data, 2)
	vikram := got.Data[0]
	assert.Equal(t, "Vikram", vikram.FirstName)
	assert.Equal(t, 2, vikram.TotalOrders)
	assert.Equal(t, 400.0, vikram.TotalSpent)
	require.NotNil(t, vikram.OrderStatus)
	assert.Equal(t, models.OrderStatusPending, *vikram.OrderStatus)
	assert.Equal(t, "Bobbin Stand, Magazine Creel", vikram.Products)
	assert.Zero(t, got.Data[1].TotalOrders)

	env.get(t, "/admin/reports/users?startDate=2026-01-01&endDate=2026-03-31&status=Delivered", &got)
	require.Len(t, got.Data, 1)
	assert.Equal(t, 1, got.Data[0].TotalOrders)

	env.get(t, "/admin/reports/users?startDate=2026-01-01&endDate=2026-01-31", &got)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Asha", got.Data[0].FirstName)
}

func TestDynamicPaymentsAndServicesReports(t *testing.T) {
	env := setupReports(t)
	order := env.order(t, env.asha, models.OrderStatusDelivered, "2026-03-01 10:00", env.creel)
	env.payment(t, order.ID, 1, 700, models.PaymentStatusCompleted, "2026-03-05 10:00")
	env.payment(t, order.ID, 2, 300, models.PaymentStatusPending, "2026-05-05 10:00")
	require.NoError(t, env.db.Create(&models.Service{OrderID: order.ID, UserID: env.asha.ID, ServiceType: "Repair", ServiceStatus: models.ServiceStatusPending, RequestedDate: day("2026-03-20 10:00")}).Error)

	var payments envelope[paymentsReportRow]
	env.get(t, "/admin/reports/payments?startDate=2026-03-01&endDate=2026-03-31", &payments)
	require.Len(t, payments.Data, 1)
	assert.Equal(t, 700.0, payments.Data[0].PaymentAmount)
	assert.Equal(t, "Asha", payments.Data[0].FirstName)
	assert.Equal(t, models.OrderStatusDelivered, payments.Data[0].OrderStatus)

	var services envelope[servicesReportRow]
	env.get(t, "/admin/reports/services?startDate=2026-03-01&endDate=2026-03-31", &services)
	require.Len(t, services.Data, 1)
	assert.Equal(t, "Repair", services.Data[0].ServiceType)
	require.NotNil(t, services.Data[0].OrderDate)

	env.get(t, "/admin/reports/services?startDate=2026-03-01&endDate=2026-03-31&status=Cancelled", &services)
	assert.Empty(t, services.Data)
}
