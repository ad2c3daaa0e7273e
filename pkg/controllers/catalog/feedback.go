package catalog

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type feedbackRequest struct {
	Comment string          `json:"comment"`
	Rating  utils.FlexFloat `json:"rating"`
}

// AddFeedback records the caller's comment and 1-5 rating on a product
func (cc *Controller) AddFeedback(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "product")
	if !ok {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid feedback or rating"})
		return
	}
	rating := req.Rating.Float64()
	if strings.TrimSpace(req.Comment) == "" || !req.Rating.IsWholePositive() || rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid feedback or rating"})
		return
	}
	ctx := c.Request.Context()

	var product models.Product
	if err := cc.DB.WithContext(ctx).Where("deleted = ?", false).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	feedback := models.Feedback{
		ProductID: id,
		UserID:    middleware.CurrentUser(c).ID,
		Comment:   strings.TrimSpace(req.Comment),
		Rating:    req.Rating.Int(),
	}
	if err := cc.DB.WithContext(ctx).Create(&feedback).Error; err != nil {
		log.Printf("Error saving feedback for product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Feedback submitted successfully",
		"feedbackId": feedback.ID,
	})
}

type feedbackRow struct {
	FeedbackID uint      `json:"feedback_id"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	FirstName  string    `json:"first_name"`
}

// ListFeedback returns a product's feedback, newest first
func (cc *Controller) ListFeedback(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "product")
	if !ok {
		return
	}

	rows := []feedbackRow{}
	err := cc.DB.WithContext(c.Request.Context()).
		Table("feedback").
		Select("feedback.feedback_id, feedback.comment, feedback.rating, feedback.created_at, users.first_name").
		Joins("JOIN users ON users.user_id = feedback.user_id").
		Where("feedback.product_id = ?", id).
		Order("feedback.created_at DESC, feedback.feedback_id DESC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching feedback for product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
