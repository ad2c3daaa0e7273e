package catalog

import (
	"log"
	"net/http"
	"strings"

	"radhe_backend/pkg/services"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type inquiryRequest struct {
	Email   string `json:"email" binding:"required,account_email"`
	Inquiry string `json:"inquiry" binding:"required"`
}

// SendInquiry forwards a visitor's inquiry to the business inbox
func (cc *Controller) SendInquiry(c *gin.Context) {
	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
		return
	}
	if strings.TrimSpace(req.Inquiry) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "inquiry is required."})
		return
	}

	subject, body := services.InquiryEmail(req.Email, req.Inquiry)
	if err := cc.Mailer.Send(c.Request.Context(), cc.InquiryRecipient, subject, body); err != nil {
		log.Printf("❌ Error sending inquiry from %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending inquiry."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inquiry sent successfully!"})
}
