package catalog

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	allProductsKey     = "products:all"
	defaultPageSize    = 10
	maxPageSize        = 100
	productNotFoundMsg = "Product not found."
)

// ListProducts returns every product that has not been soft deleted
func (cc *Controller) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	products := []models.Product{}
	err := cc.cached(ctx, allProductsKey, &products, func() error {
		return cc.DB.WithContext(ctx).Where("deleted = ?", false).Order("product_id ASC").Find(&products).Error
	})
	if err != nil {
		log.Printf("Error fetching products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products."})
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct returns one live product by id
func (cc *Controller) GetProduct(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "product")
	if !ok {
		return
	}

	var product models.Product
	if err := cc.DB.WithContext(c.Request.Context()).Where("deleted = ?", false).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Printf("Error fetching product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product."})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ProductsByCategory lists the live products of one category
func (cc *Controller) ProductsByCategory(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "categoryId", "category")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	products := []models.Product{}
	err := cc.cached(ctx, fmt.Sprintf("products:category:%d", id), &products, func() error {
		return cc.DB.WithContext(ctx).
			Where("category_id = ? AND deleted = ?", id, false).
			Order("product_id ASC").
			Find(&products).Error
	})
	if err != nil {
		log.Printf("Error fetching products for category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products."})
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No products found for this category"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// AdminListProducts pages through live products with optional category and name filters.
// The total match count is returned in X-Total-Count.
func (cc *Controller) AdminListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := cc.DB.WithContext(c.Request.Context()).Model(&models.Product{}).Where("deleted = ?", false)
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if name := strings.TrimSpace(c.Query("product_name")); name != "" {
		query = query.Where("product_name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query error."})
		return
	}

	products := []models.Product{}
	if err := query.Order("product_id ASC").Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		log.Printf("Error fetching products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query error."})
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, products)
}

type productRequest struct {
	CategoryID  utils.FlexFloat  `json:"category_id"`
	Name        string           `json:"product_name"`
	Description utils.StringList `json:"product_description"`
	Images      utils.StringList `json:"product_img"`
}

func bindProduct(c *gin.Context) (*productRequest, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON format for product description."})
		return nil, false
	}
	if !req.CategoryID.IsWholePositive() || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category and product name are required."})
		return nil, false
	}
	return &req, true
}

func (cc *Controller) categoryExists(c *gin.Context, id uint) bool {
	var count int64
	if err := cc.DB.WithContext(c.Request.Context()).Model(&models.Category{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error."})
		return false
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category does not exist."})
		return false
	}
	return true
}

// CreateProduct adds a product to a category
func (cc *Controller) CreateProduct(c *gin.Context) {
	req, ok := bindProduct(c)
	if !ok {
		return
	}
	categoryID := uint(req.CategoryID.Int())
	if !cc.categoryExists(c, categoryID) {
		return
	}
	ctx := c.Request.Context()

	owner := middleware.CurrentUser(c).ID
	product := models.Product{
		CategoryID:  categoryID,
		OwnerID:     &owner,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Images:      req.Images,
	}
	if err := cc.DB.WithContext(ctx).Create(&product).Error; err != nil {
		log.Printf("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product."})
		return
	}
	cc.invalidate(ctx)

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product created successfully.",
		"productId": product.ID,
	})
}

// UpdateProduct replaces a product's fields
func (cc *Controller) UpdateProduct(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "product")
	if !ok {
		return
	}
	req, ok := bindProduct(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var product models.Product
	if err := cc.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": productNotFoundMsg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error."})
		return
	}

	categoryID := uint(req.CategoryID.Int())
	if categoryID != product.CategoryID && !cc.categoryExists(c, categoryID) {
		return
	}

	product.CategoryID = categoryID
	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Images = req.Images
	product.Category = nil
	if err := cc.DB.WithContext(ctx).Save(&product).Error; err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product."})
		return
	}
	cc.invalidate(ctx)

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully."})
}

// DeleteProduct hard deletes an unordered product; one referenced by orders is soft deleted
func (cc *Controller) DeleteProduct(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "product")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	softDeleted := false
	err := database.WithTransaction(ctx, cc.DB, func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}

		var ordered int64
		if err := tx.Model(&models.OrderDetail{}).Where("product_id = ?", id).Count(&ordered).Error; err != nil {
			return err
		}
		if ordered > 0 {
			softDeleted = true
			return tx.Model(&product).Update("deleted", true).Error
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": productNotFoundMsg})
		return
	case err != nil:
		log.Printf("Error deleting product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product."})
		return
	}
	cc.invalidate(ctx)

	if softDeleted {
		c.JSON(http.StatusOK, gin.H{
			"message":      "Product is referenced by orders and was soft deleted.",
			"soft_deleted": true,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

// SoftDeleteProduct hides a product from the storefront while keeping order history intact
func (cc *Controller) SoftDeleteProduct(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "product")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	result := cc.DB.WithContext(ctx).Model(&models.Product{}).Where("product_id = ?", id).Update("deleted", true)
	if result.Error != nil {
		log.Printf("Error soft deleting product %d: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to soft delete product."})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": productNotFoundMsg})
		return
	}
	cc.invalidate(ctx)

	c.JSON(http.StatusOK, gin.H{"message": "Product soft deleted successfully."})
}
