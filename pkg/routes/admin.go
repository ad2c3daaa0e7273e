package routes

import (
	"radhe_backend/pkg/controllers/admin"
	"radhe_backend/pkg/controllers/reports"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers the owner's back-office and reporting routes
func RegisterAdminRoutes(router gin.IRouter, ctrl *admin.Controller, rep *reports.Controller, ownerOnly []gin.HandlerFunc) {
	owner := router.Group("/", ownerOnly...)
	{
		// Users
		owner.GET("/users", ctrl.ListUsers)
		owner.DELETE("/users/:id", ctrl.DeleteUser)

		// Orders
		owner.GET("/admin/orders", ctrl.ListOrders)
		owner.PUT("/orders/:id", ctrl.UpdateOrderStatus)
		owner.DELETE("/orders/:id", ctrl.DeleteOrder)

		// Payments
		owner.GET("/admin/payments", ctrl.ListPayments)
		owner.POST("/admin/payments", ctrl.CreatePayment)
		owner.PUT("/admin/payments/:paymentId", ctrl.UpdatePaymentStatus)
		owner.POST("/admin/service-payments", ctrl.CreateServicePayment)

		// Deliveries
		owner.POST("/admin/delivery", ctrl.CreateDelivery)
		owner.GET("/admin/deliveries", ctrl.ListDeliveries)
		owner.PUT("/admin/delivery/:id", ctrl.UpdateDeliveryStatus)

		// Services
		owner.GET("/admin/services", ctrl.ListServices)
		owner.PUT("/admin/services/:serviceId", ctrl.UpdateServiceStatus)

		// Dashboard
		owner.GET("/admin/total-users", ctrl.TotalUsers)
		owner.GET("/admin/pending-orders", ctrl.PendingOrders)
		owner.GET("/admin/pending-services", ctrl.PendingServices)
		owner.GET("/admin/revenue", ctrl.Revenue)
		owner.GET("/admin/feedback-count", ctrl.FeedbackCount)
		owner.GET("/admin/recent-orders", ctrl.RecentOrders)
	}

	staticReports := router.Group("/admin/static_reports", ownerOnly...)
	{
		staticReports.GET("/users", rep.Users)
		staticReports.GET("/orders", rep.Orders)
		staticReports.GET("/orders/pending", rep.PendingOrders)
		staticReports.GET("/orders/completed", rep.CompletedOrders)
		staticReports.GET("/revenue", rep.Revenue)
		staticReports.GET("/payment-status", rep.PaymentStatus)
		staticReports.GET("/services-status", rep.ServicesStatus)
		staticReports.GET("/top-products", rep.TopProducts)
		staticReports.GET("/feedback", rep.Feedback)
		staticReports.GET("/recent-orders", rep.RecentOrders)
		staticReports.GET("/service-requests", rep.ServiceRequests)
	}

	router.Group("/admin/reports", ownerOnly...).GET("/:type", rep.Dynamic)
}
