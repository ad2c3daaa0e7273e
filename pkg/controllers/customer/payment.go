package customer

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/services"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createGatewayOrderRequest struct {
	OrderID           utils.FlexFloat `json:"order_id"`
	InstallmentNumber utils.FlexFloat `json:"installment_number"`
}

// CreateGatewayOrder opens a Razorpay order for one pending installment of the caller's order
func (cc *Controller) CreateGatewayOrder(c *gin.Context) {
	var req createGatewayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.OrderID.IsWholePositive() || !req.InstallmentNumber.IsWholePositive() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Order ID and installment number are required."})
		return
	}
	if cc.Gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Online payments are not available right now."})
		return
	}
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	query := cc.DB.WithContext(ctx).
		Joins("JOIN orders ON orders.order_id = payments.order_id").
		Where("payments.order_id = ? AND payments.installment_number = ? AND payments.payment_type = ?",
			req.OrderID.Int(), req.InstallmentNumber.Int(), models.PaymentTypeProduct)
	if user.UserType != models.RoleOwner {
		query = query.Where("orders.user_id = ?", user.ID)
	}

	var payment models.Payment
	err := query.First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Payment details not found for this order and installment."})
		return
	}
	if err != nil {
		log.Printf("Error fetching payment for order %d: %v", req.OrderID.Int(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if payment.PaymentStatus == models.PaymentStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"message": "This installment has already been paid."})
		return
	}

	gatewayOrder, err := cc.Gateway.CreateOrder(ctx, services.GatewayOrderRequest{
		AmountPaise: services.ToPaise(payment.PaymentAmount),
		Currency:    "INR",
		Receipt:     strconv.FormatUint(uint64(payment.OrderID), 10),
		Notes: map[string]interface{}{
			"payment_id":         payment.ID,
			"installment_number": req.InstallmentNumber.Int(),
		},
	})
	if errors.Is(err, services.ErrGatewayUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Online payments are not available right now."})
		return
	}
	if err != nil {
		log.Printf("❌ Razorpay order creation failed for payment %d: %v", payment.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to create payment order."})
		return
	}

	gatewayOrderID, _ := gatewayOrder["id"].(string)
	if gatewayOrderID == "" {
		log.Printf("❌ Razorpay order for payment %d has no id: %v", payment.ID, gatewayOrder)
		c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to create payment order."})
		return
	}

	if err := cc.DB.WithContext(ctx).Model(&payment).Update("razorpay_order_id", gatewayOrderID).Error; err != nil {
		log.Printf("Error storing gateway order for payment %d: %v", payment.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   cc.Gateway.KeyID(),
		"order": gatewayOrder,
	})
}

type verifyPaymentRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

var errAlreadyVerified = errors.New("payment already verified")

// VerifyPayment checks the checkout signature and marks the installment paid
func (cc *Controller) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment ID, order ID and signature are required."})
		return
	}
	if cc.Gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Online payments are not available right now."})
		return
	}

	if !cc.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		log.Printf("⚠️  Rejected payment callback with bad signature for gateway order %s", req.OrderID)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid signature"})
		return
	}
	ctx := c.Request.Context()

	var payment models.Payment
	err := database.WithTransaction(ctx, cc.DB, func(tx *gorm.DB) error {
		if err := tx.Where("razorpay_order_id = ?", req.OrderID).First(&payment).Error; err != nil {
			return err
		}
		if payment.PaymentStatus == models.PaymentStatusCompleted {
			return errAlreadyVerified
		}
		if err := payment.PaymentStatus.TransitionTo(models.PaymentStatusCompleted); err != nil {
			return err
		}

		zero := 0.0
		return tx.Model(&payment).Updates(map[string]interface{}{
			"payment_status":   models.PaymentStatusCompleted,
			"remaining_amount": zero,
		}).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	case errors.Is(err, errAlreadyVerified):
		c.JSON(http.StatusOK, gin.H{"message": "Payment already verified"})
		return
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "Payment cannot be completed from its current state."})
		return
	case err != nil:
		log.Printf("❌ Error completing payment for gateway order %s: %v", req.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	cc.notifyOwner(ctx, "Payment received",
		"Online payment of ₹"+strconv.FormatFloat(payment.PaymentAmount, 'f', 2, 64)+" for order "+strconv.FormatUint(uint64(payment.OrderID), 10),
		map[string]string{
			"order_id":   strconv.FormatUint(uint64(payment.OrderID), 10),
			"payment_id": req.PaymentID,
		}, "")

	log.Printf("💰 Payment %d completed via gateway payment %s", payment.ID, req.PaymentID)
	c.JSON(http.StatusOK, gin.H{"message": "Payment verified successfully"})
}
