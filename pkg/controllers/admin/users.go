package admin

import (
	"errors"
	"log"
	"net/http"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errUserHasOrders = errors.New("user has orders")

type userRow struct {
	UserID    uint        `json:"user_id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	UserType  models.Role `json:"user_type"`
}

// ListUsers returns every account
func (ac *Controller) ListUsers(c *gin.Context) {
	rows := []userRow{}
	err := ac.DB.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Select("user_id, first_name, last_name, email, user_type").
		Order("user_id ASC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// DeleteUser removes an account that has never ordered, along with its feedback
func (ac *Controller) DeleteUser(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id", "user")
	if !ok {
		return
	}
	if current := middleware.CurrentUser(c); current != nil && current.ID == id {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot delete your own account."})
		return
	}

	err := database.WithTransaction(c.Request.Context(), ac.DB, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var orders int64
		if err := tx.Model(&models.Order{}).Where("user_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return errUserHasOrders
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
	case errors.Is(err, errUserHasOrders):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete user. The user has related orders in the system."})
	case err != nil:
		log.Printf("❌ Error deleting user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user."})
	default:
		log.Printf("🗑️  User %d deleted", id)
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
	}
}
