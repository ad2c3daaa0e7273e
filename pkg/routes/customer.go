package routes

import (
	"radhe_backend/pkg/controllers/customer"

	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes registers order, payment and service routes for signed-in users
func RegisterCustomerRoutes(router gin.IRouter, ctrl *customer.Controller, authenticated gin.HandlerFunc) {
	customerGroup := router.Group("/", authenticated)
	{
		// Orders
		customerGroup.POST("/place-order", ctrl.PlaceOrder)
		customerGroup.GET("/orders", ctrl.ListOrders)

		// Online payments
		customerGroup.POST("/create-order", ctrl.CreateGatewayOrder)
		customerGroup.POST("/verify-payment", ctrl.VerifyPayment)

		// After-sales service
		customerGroup.POST("/request-service", ctrl.RequestService)
	}
}
