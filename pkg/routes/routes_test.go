package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"radhe_backend/pkg/config"
	"radhe_backend/pkg/controllers/admin"
	"radhe_backend/pkg/controllers/auth"
	"radhe_backend/pkg/controllers/catalog"
	"radhe_backend/pkg/controllers/customer"
	"radhe_backend/pkg/controllers/reports"
	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/services"
	"radhe_backend/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturedMail struct{ to, body string }

type captureMailer struct{ sent []capturedMail }

func (m *captureMailer) Send(_ context.Context, to, _ string, body string) error {
	m.sent = append(m.sent, capturedMail{to: to, body: body})
	return nil
}

type staticOTP string

func (s staticOTP) Generate(time.Time) (string, error) { return string(s), nil }

type app struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *utils.TokenManager
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterValidators())

	db, err := database.Open(&config.Config{DatabaseURL: ":memory:", Environment: "test"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	tokens := utils.NewTokenManager("test-secret", 7*24*time.Hour)
	mailer := &captureMailer{}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RecoveryMiddleware())
	router.Use(sessions.Sessions("radhe_session", cookie.NewStore([]byte("session-secret"))))
	Register(router, Deps{
		DB:          db,
		Tokens:      tokens,
		Environment: "test",
		Auth:        auth.New(db, tokens, mailer, staticOTP("482913"), false),
		Catalog:     catalog.New(db, nil, mailer, "sales@radhe.test"),
		Customer:    customer.New(db, nil, services.LogNotifier{}, nil, "917041177240"),
		Admin:       admin.New(db, nil),
		Reports:     reports.New(db),
	})
	return &app{router: router, db: db, tokens: tokens}
}

func (a *app) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	return nil
}

func TestCustomerJourney(t *testing.T) {
	a := newApp(t)

	category := models.Category{Name: "Creels"}
	require.NoError(t, a.db.Create(&category).Error)
	product := models.Product{CategoryID: category.ID, Name: "Magazine Creel"}
	require.NoError(t, a.db.Create(&product).Error)

	rec := a.do(t, http.MethodPost, "/register", gin.H{
		"first_name":    "Asha",
		"last_name":     "Patel",
		"email":         "a@b.com",
		"phone_number":  "+919876543210",
		"user_password": "creel@123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/verify-otp", gin.H{"email": "a@b.com", "otp": "482913"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/login", gin.H{"email": "a@b.com", "user_password": "creel@123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	session := tokenCookie(rec)
	require.NotNil(t, session)

	rec = a.do(t, http.MethodPost, "/place-order", gin.H{
		"product_id":   product.ID,
		"quantity":     10,
		"no_of_ends":   4,
		"creel_type":   "O",
		"creel_pitch":  5,
		"bobin_length": 20,
	}, session)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var placed struct {
		OrderID     uint   `json:"orderId"`
		WhatsAppURL string `json:"whatsappURL"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.NotZero(t, placed.OrderID)

	link, err := url.Parse(placed.WhatsAppURL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", link.Host)
	assert.Contains(t, link.Query().Get("text"), strconv.FormatUint(uint64(placed.OrderID), 10))

	rec = a.do(t, http.MethodGet, "/orders", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Orders []struct {
			OrderID     uint   `json:"order_id"`
			OrderStatus string `json:"order_status"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Orders, 1)
	assert.Equal(t, placed.OrderID, history.Orders[0].OrderID)
	assert.Equal(t, "Pending", history.Orders[0].OrderStatus)

	rec = a.do(t, http.MethodGet, "/admin/orders", nil, session)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodGet, "/logout", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := tokenCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestOwnerRoutes(t *testing.T) {
	a := newApp(t)
	owner := models.User{FirstName: "Radhe", LastName: "Owner", Email: "owner@radhe.test", Password: "x", UserType: models.RoleOwner}
	require.NoError(t, a.db.Create(&owner).Error)
	token, err := a.tokens.Generate(&owner)
	require.NoError(t, err)
	session := &http.Cookie{Name: middleware.TokenCookie, Value: token}

	for _, path := range []string{
		"/users",
		"/admin/orders",
		"/admin/payments",
		"/admin/deliveries",
		"/admin/services",
		"/admin/total-users",
		"/admin/revenue",
		"/admin/static_reports/users",
		"/admin/static_reports/orders/pending",
		"/admin/reports/orders?startDate=2026-01-01&endDate=2026-12-31",
		"/products",
	} {
		rec := a.do(t, http.MethodGet, path, nil, session)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := a.do(t, http.MethodGet, "/admin/static_reports/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicRoutes(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"connected"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = a.do(t, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/no-such-route", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Route not found"))
}
