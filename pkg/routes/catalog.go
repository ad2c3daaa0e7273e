package routes

import (
	"radhe_backend/pkg/controllers/catalog"

	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers public catalog reads and owner-only catalog writes
func RegisterCatalogRoutes(router gin.IRouter, ctrl *catalog.Controller, authenticated gin.HandlerFunc, ownerOnly []gin.HandlerFunc) {
	// Public
	router.GET("/categories", ctrl.ListCategories)
	router.GET("/products/all", ctrl.ListProducts)
	router.GET("/products/category/:categoryId", ctrl.ProductsByCategory)
	router.GET("/products/:id", ctrl.GetProduct)
	router.GET("/products/:id/feedback", ctrl.ListFeedback)
	router.POST("/send-inquiry", ctrl.SendInquiry)

	// Signed-in customers
	router.POST("/products/:id/feedback", authenticated, ctrl.AddFeedback)

	// Owner
	owner := router.Group("/", ownerOnly...)
	{
		owner.POST("/categories", ctrl.CreateCategory)
		owner.PUT("/categories/:id", ctrl.UpdateCategory)
		owner.DELETE("/categories/:id", ctrl.DeleteCategory)

		owner.GET("/products", ctrl.AdminListProducts)
		owner.POST("/products", ctrl.CreateProduct)
		owner.PUT("/products/:id", ctrl.UpdateProduct)
		owner.DELETE("/products/:id", ctrl.DeleteProduct)
		owner.PUT("/products/:id/soft-delete", ctrl.SoftDeleteProduct)
	}
}
