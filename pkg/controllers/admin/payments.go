package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/services"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errAlreadyCompleted   = errors.New("payment already completed")
	errServiceAlreadyPaid = errors.New("service already has a payment")
	errBillUpload         = errors.New("bill upload failed")
)

// ListPayments returns every payment record, newest first
func (ac *Controller) ListPayments(c *gin.Context) {
	payments := []models.Payment{}
	err := ac.DB.WithContext(c.Request.Context()).
		Order("payment_date DESC, payment_id DESC").
		Find(&payments).Error
	if err != nil {
		log.Printf("Error fetching payments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// paymentForm is the multipart body of a manually recorded installment
type paymentForm struct {
	Amount      float64
	TotalAmount *float64
	Method      models.PaymentMethod
	Type        models.PaymentType
	OrderID     uint
	Installment int
}

func parsePaymentForm(c *gin.Context) (*paymentForm, string) {
	amount := strings.TrimSpace(c.PostForm("payment_amount"))
	method := strings.TrimSpace(c.PostForm("payment_method"))
	paymentType := strings.TrimSpace(c.PostForm("payment_type"))
	orderID := strings.TrimSpace(c.PostForm("order_id"))
	installment := strings.TrimSpace(c.PostForm("installment_number"))
	if amount == "" || method == "" || paymentType == "" || orderID == "" || installment == "" {
		return nil, "Missing required fields."
	}

	form := &paymentForm{
		Method: models.PaymentMethod(method),
		Type:   models.PaymentType(paymentType),
	}

	var err error
	if form.Amount, err = strconv.ParseFloat(amount, 64); err != nil || form.Amount <= 0 {
		return nil, "Payment amount must be a positive number."
	}
	if total := strings.TrimSpace(c.PostForm("total_amount")); total != "" {
		t, err := strconv.ParseFloat(total, 64)
		if err != nil || t <= 0 {
			return nil, "Total amount must be a positive number."
		}
		form.TotalAmount = &t
	}
	if !form.Method.Valid() {
		return nil, "Invalid payment method. Allowed values are 'Online' and 'Cash'."
	}
	if !form.Type.Valid() {
		return nil, "Invalid payment type. Allowed values are 'Product' and 'Service'."
	}
	if form.Type == models.PaymentTypeService {
		return nil, "Service payments are recorded through /admin/service-payments."
	}

	id, err := strconv.ParseUint(orderID, 10, 64)
	if err != nil || id == 0 {
		return nil, "Invalid order ID"
	}
	form.OrderID = uint(id)

	if form.Installment, err = strconv.Atoi(installment); err != nil || form.Installment <= 0 {
		return nil, "Installment number must be a positive whole number."
	}
	return form, ""
}

// CreatePayment records a Product installment against an order, with an optional bill upload
func (ac *Controller) CreatePayment(c *gin.Context) {
	form, msg := parsePaymentForm(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}
	ctx := c.Request.Context()

	var order models.Order
	err := ac.DB.WithContext(ctx).First(&order, form.OrderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found."})
		return
	}
	if err != nil {
		log.Printf("Error fetching order %d: %v", form.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	var payment models.Payment
	err = database.WithTransaction(ctx, ac.DB, func(tx *gorm.DB) error {
		var existing []models.Payment
		err := tx.Where("order_id = ? AND payment_type = ?", order.ID, models.PaymentTypeProduct).
			Order("installment_number ASC").
			Find(&existing).Error
		if err != nil {
			return err
		}

		plan, err := services.PlanInstallment(existing, services.InstallmentRequest{
			Number:      form.Installment,
			Amount:      form.Amount,
			TotalAmount: form.TotalAmount,
		})
		if err != nil {
			return err
		}

		bill, err := ac.formBill(c)
		if err != nil {
			return fmt.Errorf("%w: %v", errBillUpload, err)
		}

		installment := form.Installment
		payment = models.Payment{
			OrderID:           order.ID,
			PaymentAmount:     form.Amount,
			TotalAmount:       &plan.TotalAmount,
			RemainingAmount:   &plan.RemainingAmount,
			InstallmentNumber: &installment,
			PaymentMethod:     form.Method,
			PaymentType:       models.PaymentTypeProduct,
			PaymentStatus:     models.PaymentStatusPending,
			Bill:              bill,
		}
		return tx.Create(&payment).Error
	})

	switch {
	case errors.Is(err, services.ErrDuplicateInstallment), errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"message": "Installment " + strconv.Itoa(form.Installment) + " is already recorded for this order."})
		return
	case errors.Is(err, services.ErrTotalAmountRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Total amount is required for the first installment."})
		return
	case errors.Is(err, services.ErrInstallmentExceedsTotal):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Installments cannot exceed the order total."})
		return
	case errors.Is(err, services.ErrNonPositiveAmount):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment amount must be a positive number."})
		return
	case errors.Is(err, errBillUpload):
		log.Printf("❌ Error storing bill for order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload bill file."})
		return
	case err != nil:
		log.Printf("❌ Error creating payment for order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create payment."})
		return
	}

	log.Printf("💰 Installment %d of order %d recorded (%.2f of %.2f)", form.Installment, order.ID, payment.PaymentAmount, *payment.TotalAmount)
	c.JSON(http.StatusCreated, gin.H{
		"message":          "Payment created successfully.",
		"paymentId":        payment.ID,
		"total_amount":     payment.TotalAmount,
		"remaining_amount": payment.RemainingAmount,
		"bill":             payment.Bill,
	})
}

// UpdatePaymentStatus records a manual status change, typically a cash receipt
func (ac *Controller) UpdatePaymentStatus(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "paymentId", "payment")
	if !ok {
		return
	}
	var req struct {
		PaymentStatus models.PaymentStatus `json:"payment_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.PaymentStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment status."})
		return
	}

	err := database.WithTransaction(c.Request.Context(), ac.DB, func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, id).Error; err != nil {
			return err
		}
		if payment.PaymentStatus == models.PaymentStatusCompleted && req.PaymentStatus == models.PaymentStatusCompleted {
			return errAlreadyCompleted
		}
		if err := payment.PaymentStatus.TransitionTo(req.PaymentStatus); err != nil {
			return err
		}
		return tx.Model(&payment).Update("payment_status", req.PaymentStatus).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Payment not found."})
	case errors.Is(err, errAlreadyCompleted):
		c.JSON(http.StatusOK, gin.H{"message": "Payment already completed."})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "Payment cannot move to " + string(req.PaymentStatus) + " from its current status."})
	case err != nil:
		log.Printf("❌ Error updating payment %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update payment status."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully."})
	}
}

type servicePaymentDetails struct {
	ServiceID     *utils.FlexFloat     `json:"service_id"`
	OrderID       *utils.FlexFloat     `json:"order_id"`
	ServiceCost   *utils.FlexFloat     `json:"service_cost"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	PaymentType   models.PaymentType   `json:"payment_type"`
}

func (d *servicePaymentDetails) validate() string {
	if d.ServiceCost == nil || d.PaymentMethod == "" || (d.ServiceID == nil && d.OrderID == nil) {
		return "Missing required fields."
	}
	if d.ServiceCost.Float64() <= 0 {
		return "Service cost must be a positive number."
	}
	if !d.PaymentMethod.Valid() {
		return "Invalid payment method. Allowed values are 'Online' and 'Cash'."
	}
	if d.PaymentType != "" && d.PaymentType != models.PaymentTypeService {
		return "Service payments must have payment type 'Service'."
	}
	if d.ServiceID != nil && !d.ServiceID.IsWholePositive() {
		return "Invalid service ID"
	}
	if d.OrderID != nil && !d.OrderID.IsWholePositive() {
		return "Invalid order ID"
	}
	return ""
}

// CreateServicePayment bills a service request and links the payment back to it
func (ac *Controller) CreateServicePayment(c *gin.Context) {
	var details servicePaymentDetails
	if err := json.Unmarshal([]byte(c.PostForm("paymentDetails")), &details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment details."})
		return
	}
	if msg := details.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}
	ctx := c.Request.Context()

	cost := details.ServiceCost.Float64()
	var (
		service models.Service
		payment models.Payment
	)
	err := database.WithTransaction(ctx, ac.DB, func(tx *gorm.DB) error {
		query := tx.Model(&models.Service{})
		if details.ServiceID != nil {
			query = query.Where("service_id = ?", details.ServiceID.Int())
		} else {
			query = query.Where("payment_id IS NULL").Order("service_id DESC")
		}
		if details.OrderID != nil {
			query = query.Where("order_id = ?", details.OrderID.Int())
		}
		if err := query.First(&service).Error; err != nil {
			return err
		}
		if service.PaymentID != nil {
			return errServiceAlreadyPaid
		}

		bill, err := ac.formBill(c)
		if err != nil {
			return fmt.Errorf("%w: %v", errBillUpload, err)
		}

		payment = models.Payment{
			OrderID:       service.OrderID,
			PaymentAmount: cost,
			PaymentMethod: details.PaymentMethod,
			PaymentType:   models.PaymentTypeService,
			PaymentStatus: models.PaymentStatusPending,
			Bill:          bill,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&service).Updates(map[string]interface{}{
			"payment_id":   payment.ID,
			"service_cost": cost,
		}).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Service request not found."})
		return
	case errors.Is(err, errServiceAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"message": "A payment is already linked to this service request."})
		return
	case errors.Is(err, errBillUpload):
		log.Printf("❌ Error storing service bill: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload bill file."})
		return
	case err != nil:
		log.Printf("❌ Error creating service payment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process service payment."})
		return
	}

	log.Printf("🔧 Service %d billed %.2f (payment %d)", service.ID, cost, payment.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Service payment created successfully.",
		"paymentId": payment.ID,
		"serviceId": service.ID,
	})
}
