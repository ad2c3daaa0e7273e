package customer

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/services"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type placeOrderRequest struct {
	ProductID   *utils.FlexFloat `json:"product_id" label:"Product" binding:"required,gt=0,whole,lte=2147483647"`
	Quantity    *utils.FlexFloat `json:"quantity" label:"Quantity" binding:"required,gt=0,whole,lte=2147483647"`
	NoOfEnds    *utils.FlexFloat `json:"no_of_ends" label:"No of Ends" binding:"required,gt=0,whole,lte=2147483647"`
	CreelType   string           `json:"creel_type" binding:"required,creeltype"`
	CreelPitch  *utils.FlexFloat `json:"creel_pitch" label:"Creel Pitch" binding:"required,gt=0"`
	BobinLength *utils.FlexFloat `json:"bobin_length" label:"Bobin Length" binding:"required,gt=0"`
}

// placeOrderMessage maps a bind failure to the storefront's order form messages
func placeOrderMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || verrs[0].Tag() == "required" {
		return "All fields are required."
	}
	if verrs[0].StructField() == "ProductID" {
		return "Invalid product."
	}
	return utils.ValidationMessage(err)
}

// PlaceOrder records a custom creel order and returns a WhatsApp link that notifies the owner
func (cc *Controller) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": placeOrderMessage(err)})
		return
	}
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	productID := uint(req.ProductID.Int())
	var product models.Product
	err := cc.DB.WithContext(ctx).Where("product_id = ? AND deleted = ?", productID, false).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	order := models.Order{
		UserID:      user.ID,
		OrderStatus: models.OrderStatusPending,
	}
	detail := models.OrderDetail{
		ProductID:   productID,
		Quantity:    req.Quantity.Int(),
		NoOfEnds:    req.NoOfEnds.Int(),
		CreelType:   models.CreelType(req.CreelType),
		CreelPitch:  req.CreelPitch.Float64(),
		BobinLength: req.BobinLength.Float64(),
	}

	err = database.WithTransaction(ctx, cc.DB, func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		detail.OrderID = order.ID
		return tx.Create(&detail).Error
	})
	if err != nil {
		log.Printf("❌ Error placing order for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to place order."})
		return
	}

	text := services.OrderMessage{
		OrderID:     order.ID,
		ProductID:   productID,
		Quantity:    detail.Quantity,
		NoOfEnds:    detail.NoOfEnds,
		CreelType:   string(detail.CreelType),
		CreelPitch:  detail.CreelPitch,
		BobinLength: detail.BobinLength,
	}.Text()
	whatsappURL := services.WhatsAppURL(cc.OwnerNumber, text)

	cc.notifyOwner(ctx, "New order placed",
		user.FullName()+" ordered "+strconv.Itoa(detail.Quantity)+" x "+product.Name,
		map[string]string{"order_id": strconv.FormatUint(uint64(order.ID), 10)},
		text)

	log.Printf("📦 Order %d placed by user %d", order.ID, user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"orderId":     order.ID,
		"whatsappURL": whatsappURL,
	})
}

// orderRow is one line of the customer's order history: an order line joined
// with one of its payments, if any.
type orderRow struct {
	OrderID           uint                   `json:"order_id"`
	OrderStatus       models.OrderStatus     `json:"order_status"`
	OrderDate         time.Time              `json:"order_date"`
	ProductID         uint                   `json:"product_id"`
	ProductName       string                 `json:"product_name"`
	Quantity          int                    `json:"quantity"`
	NoOfEnds          int                    `json:"no_of_ends"`
	CreelType         models.CreelType       `json:"creel_type"`
	CreelPitch        float64                `json:"creel_pitch"`
	BobinLength       float64                `json:"bobin_length"`
	PaymentAmount     *float64               `json:"payment_amount"`
	PaymentStatus     *models.PaymentStatus  `json:"payment_status"`
	InstallmentNumber *int                   `json:"installment_number"`
	PaymentType       *models.PaymentType    `json:"payment_type"`
	PaymentMethod     *models.PaymentMethod  `json:"payment_method"`
	RemainingAmount   *float64               `json:"remaining_amount"`
	DeliveryStatus    *models.DeliveryStatus `json:"delivery_status"`
	ServiceStatus     *models.ServiceStatus  `json:"service_status"`
	UserFirstName     string                 `json:"user_first_name"`
	UserEmail         string                 `json:"user_email"`
	UserPhoneNumber   string                 `json:"user_phone_number"`
}

// ListOrders returns the caller's order history
func (cc *Controller) ListOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var orders []models.Order
	err := cc.DB.WithContext(c.Request.Context()).
		Preload("Details.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_id ASC") }).
		Preload("Delivery").
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("service_id ASC") }).
		Where("user_id = ?", user.ID).
		Order("order_date DESC, order_id DESC").
		Find(&orders).Error
	if err != nil {
		log.Printf("Error fetching orders for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}

	rows := []orderRow{}
	for _, order := range orders {
		for _, detail := range order.Details {
			base := orderRow{
				OrderID:         order.ID,
				OrderStatus:     order.OrderStatus,
				OrderDate:       order.OrderDate,
				ProductID:       detail.ProductID,
				Quantity:        detail.Quantity,
				NoOfEnds:        detail.NoOfEnds,
				CreelType:       detail.CreelType,
				CreelPitch:      detail.CreelPitch,
				BobinLength:     detail.BobinLength,
				UserFirstName:   user.FirstName,
				UserEmail:       user.Email,
				UserPhoneNumber: user.PhoneNumber,
			}
			if detail.Product != nil {
				base.ProductName = detail.Product.Name
			}
			if order.Delivery != nil {
				base.DeliveryStatus = &order.Delivery.DeliveryStatus
			}
			if n := len(order.Services); n > 0 {
				base.ServiceStatus = &order.Services[n-1].ServiceStatus
			}

			if len(order.Payments) == 0 {
				rows = append(rows, base)
				continue
			}
			for i := range order.Payments {
				p := &order.Payments[i]
				row := base
				row.PaymentAmount = &p.PaymentAmount
				row.PaymentStatus = &p.PaymentStatus
				row.InstallmentNumber = p.InstallmentNumber
				row.PaymentType = &p.PaymentType
				row.PaymentMethod = &p.PaymentMethod
				row.RemainingAmount = p.RemainingAmount
				rows = append(rows, row)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"orders": rows})
}
