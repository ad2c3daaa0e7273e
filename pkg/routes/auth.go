package routes

import (
	"radhe_backend/pkg/controllers/auth"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers signup, login and password recovery routes
func RegisterAuthRoutes(router gin.IRouter, ctrl *auth.Controller, authenticated gin.HandlerFunc) {
	// Signup with email OTP
	router.POST("/register", ctrl.Register)
	router.POST("/verify-otp", ctrl.VerifyOTP)

	// Session
	router.POST("/login", ctrl.Login)
	router.GET("/logout", ctrl.Logout)
	router.GET("/auth/status", authenticated, ctrl.Status)

	// Profile
	router.GET("/profile", authenticated, ctrl.Profile)
	router.PUT("/updateProfile", authenticated, ctrl.UpdateProfile)

	// Password recovery
	router.POST("/forgot-password", ctrl.ForgotPassword)
	router.POST("/verify-reset-otp", ctrl.VerifyResetOTP)
	router.POST("/reset-password", ctrl.ResetPassword)
}
