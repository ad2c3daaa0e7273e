package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"radhe_backend/pkg/config"
	"radhe_backend/pkg/database"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gin.Engine, *utils.TokenManager, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(&config.Config{DatabaseURL: ":memory:", Environment: "test"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	tm := utils.NewTokenManager("test-secret", time.Hour)

	router := gin.New()
	router.Use(RequestID(), RecoveryMiddleware())
	router.GET("/me", AuthenticateToken(tm, db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": CurrentUser(c).FirstName})
	})
	router.GET("/owner", append(RestrictToOwner(tm, db), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})...)
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.NoRoute(NotFoundHandler())

	return router, tm, db
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	user := &models.User{FirstName: "Asha", LastName: "Patel", Email: string(role) + "@radhe.test", Password: "x", UserType: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestAuthenticateToken(t *testing.T) {
	router, tm, db := setupAuthTest(t)
	customer := createUser(t, db, models.RoleCustomer)
	token, err := tm.Generate(customer)
	require.NoError(t, err)

	ghost, err := tm.Generate(&models.User{ID: 999, FirstName: "Ghost", UserType: models.RoleCustomer})
	require.NoError(t, err)

	tests := []struct {
		name           string
		prepare        func(r *http.Request)
		expectedStatus int
	}{
		{name: "no token", prepare: func(r *http.Request) {}, expectedStatus: http.StatusUnauthorized},
		{name: "cookie token", prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) }, expectedStatus: http.StatusOK},
		{name: "bearer token", prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, expectedStatus: http.StatusOK},
		{name: "tampered token", prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token + "x"}) }, expectedStatus: http.StatusUnauthorized},
		{name: "unknown user", prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: ghost}) }, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRestrictToOwner(t *testing.T) {
	router, tm, db := setupAuthTest(t)
	customer := createUser(t, db, models.RoleCustomer)
	owner := createUser(t, db, models.RoleOwner)

	customerToken, _ := tm.Generate(customer)
	ownerToken, _ := tm.Generate(owner)

	req := httptest.NewRequest(http.MethodGet, "/owner", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: customerToken})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/owner", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: ownerToken})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecoveryAndNotFound(t *testing.T) {
	router, _, _ := setupAuthTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, w.Body.String())
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	router, _, _ := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
