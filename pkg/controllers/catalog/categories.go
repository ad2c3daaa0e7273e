package catalog

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const categoriesKey = "categories"

// ListCategories returns every category
func (cc *Controller) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	categories := []models.Category{}
	err := cc.cached(ctx, categoriesKey, &categories, func() error {
		return cc.DB.WithContext(ctx).Order("category_id ASC").Find(&categories).Error
	})
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories."})
		return
	}

	c.JSON(http.StatusOK, categories)
}

type categoryRequest struct {
	Name        string           `json:"category_name" binding:"required"`
	Description string           `json:"category_description"`
	Images      utils.StringList `json:"category_img"`
}

// CreateCategory adds a category owned by the caller
func (cc *Controller) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required."})
		return
	}
	ctx := c.Request.Context()

	owner := middleware.CurrentUser(c).ID
	category := models.Category{
		OwnerID:     &owner,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Images:      req.Images,
	}
	if err := cc.DB.WithContext(ctx).Create(&category).Error; err != nil {
		log.Printf("Error creating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category."})
		return
	}
	cc.invalidate(ctx)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Category created successfully.",
		"categoryId": category.ID,
	})
}

// UpdateCategory replaces a category's name, description and images
func (cc *Controller) UpdateCategory(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "category")
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required."})
		return
	}
	ctx := c.Request.Context()

	var category models.Category
	if err := cc.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update category."})
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	category.Images = req.Images
	if err := cc.DB.WithContext(ctx).Save(&category).Error; err != nil {
		log.Printf("Error updating category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update category."})
		return
	}
	cc.invalidate(ctx)

	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully."})
}

var errCategoryHasProducts = errors.New("category has products")

// DeleteCategory removes a category that no product references
func (cc *Controller) DeleteCategory(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "category")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	err := database.WithTransaction(ctx, cc.DB, func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}

		var products int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return errCategoryHasProducts
		}

		return tx.Delete(&category).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found."})
	case errors.Is(err, errCategoryHasProducts):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete category with products. Remove associated products first."})
	case err != nil:
		log.Printf("Error deleting category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category."})
	default:
		cc.invalidate(ctx)
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully."})
	}
}
