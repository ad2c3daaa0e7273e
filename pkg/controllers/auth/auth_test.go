package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"radhe_backend/pkg/config"
	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fixedOTP struct{ code string }

func (f *fixedOTP) Generate(time.Time) (string, error) { return f.code, nil }

type authEnv struct {
	router *gin.Engine
	ctrl   *Controller
	db     *gorm.DB
	mailer *fakeMailer
	otp    *fixedOTP
	clock  time.Time
}

func setupAuth(t *testing.T) *authEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterValidators())

	db, err := database.Open(&config.Config{DatabaseURL: ":memory:", Environment: "test"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	env := &authEnv{
		db:     db,
		mailer: &fakeMailer{},
		otp:    &fixedOTP{code: "123456"},
		clock:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	tm := utils.NewTokenManager("test-secret", 7*24*time.Hour)
	env.ctrl = New(db, tm, env.mailer, env.otp, false)
	env.ctrl.now = func() time.Time { return env.clock }

	router := gin.New()
	router.Use(sessions.Sessions("radhe_session", cookie.NewStore([]byte("session-secret"))))
	router.POST("/register", env.ctrl.Register)
	router.POST("/verify-otp", env.ctrl.VerifyOTP)
	router.POST("/login", env.ctrl.Login)
	router.POST("/forgot-password", env.ctrl.ForgotPassword)
	router.POST("/verify-reset-otp", env.ctrl.VerifyResetOTP)
	router.POST("/reset-password", env.ctrl.ResetPassword)
	authed := router.Group("/", middleware.AuthenticateToken(tm, db))
	authed.GET("/logout", env.ctrl.Logout)
	authed.GET("/auth/status", env.ctrl.Status)
	authed.GET("/profile", env.ctrl.Profile)
	authed.PUT("/updateProfile", env.ctrl.UpdateProfile)
	env.router = router
	return env
}

func (e *authEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
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
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func validRegistration() map[string]interface{} {
	return map[string]interface{}{
		"first_name":    "Asha",
		"last_name":     "Patel",
		"email":         "a@x.com",
		"phone_number":  "+919876543210",
		"user_password": "abc1@x",
		"company_name":  "Patel Textiles",
	}
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	env := setupAuth(t)

	rec := env.do(t, http.MethodPost, "/register", validRegistration())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "a@x.com", env.mailer.sent[0].To)
	assert.Contains(t, env.mailer.sent[0].Body, "123456")

	var staged models.PendingRegistration
	require.NoError(t, env.db.Where("email = ?", "a@x.com").First(&staged).Error)
	assert.True(t, env.clock.Add(10*time.Minute).Equal(staged.OTPExpiration))
	assert.NotEqual(t, "abc1@x", staged.Password)

	rec = env.do(t, http.MethodPost, "/verify-otp", map[string]string{"email": "a@x.com", "otp": "123456"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "a@x.com").First(&user).Error)
	assert.Equal(t, models.RoleCustomer, user.UserType)
	assert.True(t, user.EmailVerified)
	var stagedCount int64
	env.db.Model(&models.PendingRegistration{}).Count(&stagedCount)
	assert.Zero(t, stagedCount)

	rec = env.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "user_password": "abc1@x"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Success", body["status"])
	assert.Equal(t, "Customer", body["user_type"])

	token := findCookie(rec, middleware.TokenCookie)
	require.NotNil(t, token)
	assert.True(t, token.HttpOnly)
	assert.Equal(t, 7*24*60*60, token.MaxAge)

	rec = env.do(t, http.MethodGet, "/profile", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "a@x.com", data["email"])
	assert.Equal(t, "Patel Textiles", data["company_name"])

	rec = env.do(t, http.MethodGet, "/auth/status", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"status": "Authenticated", "name": "Asha"}, decode(t, rec))
}

func TestVerifyOTP_UsesSessionEmail(t *testing.T) {
	env := setupAuth(t)

	rec := env.do(t, http.MethodPost, "/register", validRegistration())
	require.Equal(t, http.StatusOK, rec.Code)
	session := findCookie(rec, "radhe_session")
	require.NotNil(t, session)

	rec = env.do(t, http.MethodPost, "/verify-otp", map[string]string{"otp": "123456"}, session)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegister_Validation(t *testing.T) {
	env := setupAuth(t)

	tests := []struct {
		name    string
		field   string
		value   interface{}
		message string
	}{
		{name: "phone without country code", field: "phone_number", value: "9876543210", message: "Invalid phone number format. Please include country code."},
		{name: "bad email", field: "email", value: "not-an-email", message: "Invalid email format!"},
		{name: "weak password", field: "user_password", value: "abcdef", message: "Password must be at least 6 characters long, contain a number and a special character."},
		{name: "missing first name", field: "first_name", value: "", message: "first name is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validRegistration()
			body[tt.field] = tt.value
			rec := env.do(t, http.MethodPost, "/register", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])
		})
	}
	assert.Empty(t, env.mailer.sent)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := setupAuth(t)
	require.NoError(t, env.db.Create(&models.User{FirstName: "A", LastName: "P", Email: "a@x.com", Password: "x", UserType: models.RoleCustomer}).Error)

	rec := env.do(t, http.MethodPost, "/register", validRegistration())
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already exists.", decode(t, rec)["message"])
	assert.Empty(t, env.mailer.sent)
}

func TestRegister_ReplacesStagedRegistration(t *testing.T) {
	env := setupAuth(t)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/register", validRegistration()).Code)
	env.otp.code = "654321"
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/register", validRegistration()).Code)

	var staged []models.PendingRegistration
	require.NoError(t, env.db.Find(&staged).Error)
	require.Len(t, staged, 1)
	assert.Equal(t, "654321", staged[0].OTP)

	rec := env.do(t, http.MethodPost, "/verify-otp", map[string]string{"email": "a@x.com", "otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_MailFailure(t *testing.T) {
	env := setupAuth(t)
	env.mailer.err = errors.New("smtp down")

	rec := env.do(t, http.MethodPost, "/register", validRegistration())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVerifyOTP_ExpiryBoundary(t *testing.T) {
	env := setupAuth(t)
	registeredAt := env.clock
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/register", validRegistration()).Code)

	env.clock = registeredAt.Add(10*time.Minute + time.Second)
	rec := env.do(t, http.MethodPost, "/verify-otp", map[string]string{"email": "a@x.com", "otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired OTP.", decode(t, rec)["message"])

	env.clock = registeredAt.Add(10*time.Minute - time.Second)
	rec = env.do(t, http.MethodPost, "/verify-otp", map[string]string{"email": "a@x.com", "otp": "123456"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyOTP_Errors(t *testing.T) {
	env := setupAuth(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/register", validRegistration()).Code)

	rec := env.do(t, http.MethodPost, "/verify-otp", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email and OTP are required.", decode(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/verify-otp", map[string]string{"email": "nobody@x.com", "otp": "123456"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/verify-otp", map[string]string{"email": "a@x.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_Errors(t *testing.T) {
	env := setupAuth(t)
	hash, err := utils.HashPassword("abc1@x")
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.User{FirstName: "A", LastName: "P", Email: "a@x.com", Password: hash, UserType: models.RoleCustomer}).Error)

	rec := env.do(t, http.MethodPost, "/login", map[string]string{"email": "missing@x.com", "user_password": "abc1@x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Email not found, Please Register!", decode(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "user_password": "wrong1@"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid Email or Password!", decode(t, rec)["message"])
	assert.Nil(t, findCookie(rec, middleware.TokenCookie))
}

func TestLogoutAndUpdateProfile(t *testing.T) {
	env := setupAuth(t)
	hash, err := utils.HashPassword("abc1@x")
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.User{FirstName: "A", LastName: "P", Email: "a@x.com", Password: hash, UserType: models.RoleCustomer}).Error)

	rec := env.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "user_password": "abc1@x"})
	token := findCookie(rec, middleware.TokenCookie)
	require.NotNil(t, token)

	rec = env.do(t, http.MethodPut, "/updateProfile", map[string]string{"phone_number": "12345"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/updateProfile", map[string]string{"address_city": "Surat", "first_name": "Asha"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, env.db.Where("email = ?", "a@x.com").First(&user).Error)
	assert.Equal(t, "Asha", user.FirstName)
	require.NotNil(t, user.AddressCity)
	assert.Equal(t, "Surat", *user.AddressCity)

	rec = env.do(t, http.MethodGet, "/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := findCookie(rec, middleware.TokenCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestPasswordResetFlow(t *testing.T) {
	env := setupAuth(t)
	hash, err := utils.HashPassword("abc1@x")
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.User{FirstName: "A", LastName: "P", Email: "a@x.com", Password: hash, UserType: models.RoleCustomer}).Error)

	rec := env.do(t, http.MethodPost, "/forgot-password", map[string]string{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.otp.code = "777777"
	rec = env.do(t, http.MethodPost, "/forgot-password", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP sent to your email!", decode(t, rec)["message"])
	require.Len(t, env.mailer.sent, 1)
	assert.Contains(t, env.mailer.sent[0].Body, "777777")

	// the emailed code is not itself a reset token
	rec = env.do(t, http.MethodPost, "/reset-password", map[string]string{"email": "a@x.com", "user_password": "new1@pass", "resetToken": "777777"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired reset token.", decode(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/verify-reset-otp", map[string]string{"email": "a@x.com", "otp": "111111"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/verify-reset-otp", map[string]string{"email": "a@x.com", "otp": "777777"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "OTP verified successfully.", body["message"])
	resetToken, _ := body["resetToken"].(string)
	require.Len(t, resetToken, 64)

	env.clock = env.clock.Add(16 * time.Minute)
	rec = env.do(t, http.MethodPost, "/reset-password", map[string]string{"email": "a@x.com", "user_password": "new1@pass", "resetToken": resetToken})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.clock = env.clock.Add(-2 * time.Minute)
	rec = env.do(t, http.MethodPost, "/reset-password", map[string]string{"email": "a@x.com", "user_password": "new1@pass", "resetToken": resetToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password reset successfully!", decode(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "user_password": "new1@pass"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// tokens are single use
	rec = env.do(t, http.MethodPost, "/reset-password", map[string]string{"email": "a@x.com", "user_password": "other1@pass", "resetToken": resetToken})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
