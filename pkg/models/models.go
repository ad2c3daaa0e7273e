package models

import (
	"time"
)

// User model
type User struct {
	ID               uint       `gorm:"primaryKey;autoIncrement;column:user_id" json:"user_id"`
	FirstName        string     `gorm:"not null;column:first_name" json:"first_name"`
	LastName         string     `gorm:"not null;column:last_name" json:"last_name"`
	Email            string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PhoneNumber      string     `gorm:"column:phone_number" json:"phone_number"`
	CompanyName      *string    `gorm:"column:company_name" json:"company_name"`
	CompanyAddress   *string    `gorm:"column:company_address" json:"company_address"`
	AddressCity      *string    `gorm:"column:address_city" json:"address_city"`
	AddressState     *string    `gorm:"column:address_state" json:"address_state"`
	AddressCountry   *string    `gorm:"column:address_country" json:"address_country"`
	Pincode          *string    `gorm:"column:pincode" json:"pincode"`
	GSTNo            *string    `gorm:"column:gst_no" json:"GST_no"`
	Password         string     `gorm:"not null;column:user_password" json:"-"`
	UserType         Role       `gorm:"type:varchar(20);default:'Customer';column:user_type" json:"user_type"`
	EmailVerified    bool       `gorm:"default:false;column:email_verified" json:"email_verified"`
	ResetToken       *string    `gorm:"column:reset_token" json:"-"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expires" json:"-"`
	RegistrationDate time.Time  `gorm:"autoCreateTime;column:registration_date" json:"registration_date"`

	// Relationships
	Orders   []Order    `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	Feedback []Feedback `gorm:"foreignKey:UserID" json:"feedback,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// PendingRegistration is a staged signup waiting for its email OTP
type PendingRegistration struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	FirstName      string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName       string    `gorm:"not null;column:last_name" json:"last_name"`
	Email          string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PhoneNumber    string    `gorm:"column:phone_number" json:"phone_number"`
	CompanyName    *string   `gorm:"column:company_name" json:"company_name"`
	CompanyAddress *string   `gorm:"column:company_address" json:"company_address"`
	AddressCity    *string   `gorm:"column:address_city" json:"address_city"`
	AddressState   *string   `gorm:"column:address_state" json:"address_state"`
	AddressCountry *string   `gorm:"column:address_country" json:"address_country"`
	Pincode        *string   `gorm:"column:pincode" json:"pincode"`
	GSTNo          *string   `gorm:"column:gst_no" json:"GST_no"`
	Password       string    `gorm:"not null;column:user_password" json:"-"`
	OTP            string    `gorm:"not null;column:otp" json:"-"`
	OTPExpiration  time.Time `gorm:"not null;column:otp_expiration" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (PendingRegistration) TableName() string {
	return "pending_registrations"
}

// ToUser promotes the staged row into a verified customer account
func (p PendingRegistration) ToUser() User {
	return User{
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		PhoneNumber:    p.PhoneNumber,
		CompanyName:    p.CompanyName,
		CompanyAddress: p.CompanyAddress,
		AddressCity:    p.AddressCity,
		AddressState:   p.AddressState,
		AddressCountry: p.AddressCountry,
		Pincode:        p.Pincode,
		GSTNo:          p.GSTNo,
		Password:       p.Password,
		UserType:       RoleCustomer,
		EmailVerified:  true,
	}
}

// Category model
type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:category_id" json:"category_id"`
	OwnerID     *uint     `gorm:"column:user_id" json:"owner_id"`
	Name        string    `gorm:"not null;column:category_name" json:"category_name"`
	Description string    `gorm:"column:category_description" json:"category_description"`
	Images      []string  `gorm:"serializer:json;column:category_img" json:"category_img"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;column:update_at" json:"update_at"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// Product model
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:product_id" json:"product_id"`
	CategoryID  uint      `gorm:"not null;index;column:category_id" json:"category_id"`
	OwnerID     *uint     `gorm:"column:user_id" json:"owner_id"`
	Name        string    `gorm:"not null;column:product_name" json:"product_name"`
	Description []string  `gorm:"serializer:json;column:product_description" json:"product_description"`
	Images      []string  `gorm:"serializer:json;column:product_img" json:"product_img"`
	Deleted     bool      `gorm:"not null;default:false;column:deleted" json:"deleted"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;column:update_at" json:"update_at"`

	Category *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// Order model
type Order struct {
	ID          uint        `gorm:"primaryKey;autoIncrement;column:order_id" json:"order_id"`
	UserID      uint        `gorm:"not null;index;column:user_id" json:"user_id"`
	OrderStatus OrderStatus `gorm:"type:varchar(20);not null;default:'Pending';column:order_status" json:"order_status"`
	OrderDate   time.Time   `gorm:"autoCreateTime;column:order_date" json:"order_date"`

	User     *User         `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Details  []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	Payments []Payment     `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	Delivery *Delivery     `gorm:"foreignKey:OrderID" json:"delivery,omitempty"`
	Services []Service     `gorm:"foreignKey:OrderID" json:"services,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderDetail is one custom-specified line item of an order
type OrderDetail struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:order_details_id" json:"order_details_id"`
	OrderID     uint      `gorm:"not null;index;column:order_id" json:"order_id"`
	ProductID   uint      `gorm:"not null;index;column:product_id" json:"product_id"`
	Quantity    int       `gorm:"not null;column:quantity" json:"quantity"`
	NoOfEnds    int       `gorm:"not null;column:no_of_ends" json:"no_of_ends"`
	CreelType   CreelType `gorm:"type:varchar(1);not null;column:creel_type" json:"creel_type"`
	CreelPitch  float64   `gorm:"not null;column:creel_pitch" json:"creel_pitch"`
	BobinLength float64   `gorm:"not null;column:bobin_length" json:"bobin_length"`

	Product *Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
}

func (OrderDetail) TableName() string {
	return "order_details"
}

// Payment model; installments of an order share its total amount
type Payment struct {
	ID                uint          `gorm:"primaryKey;autoIncrement;column:payment_id" json:"payment_id"`
	OrderID           uint          `gorm:"not null;index;column:order_id" json:"order_id"`
	PaymentAmount     float64       `gorm:"not null;column:payment_amount" json:"payment_amount"`
	TotalAmount       *float64      `gorm:"column:total_amount" json:"total_amount"`
	RemainingAmount   *float64      `gorm:"column:remaining_amount" json:"remaining_amount"`
	InstallmentNumber *int          `gorm:"column:installment_number" json:"installment_number"`
	PaymentMethod     PaymentMethod `gorm:"type:varchar(20);not null;column:payment_method" json:"payment_method"`
	PaymentType       PaymentType   `gorm:"type:varchar(20);not null;default:'Product';column:payment_type" json:"payment_type"`
	PaymentStatus     PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending';column:payment_status" json:"payment_status"`
	PaymentDate       time.Time     `gorm:"autoCreateTime;column:payment_date" json:"payment_date"`
	RazorpayOrderID   *string       `gorm:"index;column:razorpay_order_id" json:"razorpay_order_id"`
	Bill              *string       `gorm:"column:bill" json:"bill"`
	CreatedAt         time.Time     `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime;column:update_at" json:"update_at"`

	Order *Order `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// Delivery model; at most one per order
type Delivery struct {
	ID             uint           `gorm:"primaryKey;autoIncrement;column:delivery_id" json:"delivery_id"`
	OrderID        uint           `gorm:"uniqueIndex;not null;column:order_id" json:"order_id"`
	PaymentID      uint           `gorm:"not null;column:payment_id" json:"payment_id"`
	DeliveryDate   time.Time      `gorm:"not null;column:delivery_date" json:"delivery_date"`
	DeliveryStatus DeliveryStatus `gorm:"type:varchar(20);not null;default:'Pending';column:delivery_status" json:"delivery_status"`

	Order   *Order   `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
	Payment *Payment `gorm:"foreignKey:PaymentID;references:ID" json:"payment,omitempty"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

// Service is a post-delivery maintenance request
type Service struct {
	ID            uint          `gorm:"primaryKey;autoIncrement;column:service_id" json:"service_id"`
	OrderID       uint          `gorm:"not null;index;column:order_id" json:"order_id"`
	UserID        uint          `gorm:"not null;index;column:user_id" json:"user_id"`
	PaymentID     *uint         `gorm:"column:payment_id" json:"payment_id"`
	RequestedDate time.Time     `gorm:"autoCreateTime;column:requested_date" json:"requested_date"`
	CompletedDate *time.Time    `gorm:"column:completed_date" json:"completed_date"`
	ServiceType   string        `gorm:"not null;column:service_type" json:"service_type"`
	ServiceNotes  string        `gorm:"column:service_notes" json:"service_notes"`
	ServiceCost   *float64      `gorm:"column:service_cost" json:"service_cost"`
	ServiceStatus ServiceStatus `gorm:"type:varchar(20);not null;default:'Pending';column:service_status" json:"service_status"`

	Order   *Order   `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
	User    *User    `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Payment *Payment `gorm:"foreignKey:PaymentID;references:ID" json:"payment,omitempty"`
}

func (Service) TableName() string {
	return "services"
}

// Feedback model
type Feedback struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:feedback_id" json:"feedback_id"`
	ProductID uint      `gorm:"not null;index;column:product_id" json:"product_id"`
	UserID    uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	Comment   string    `gorm:"not null;column:comment" json:"comment"`
	Rating    int       `gorm:"not null;column:rating" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`

	User    *User    `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&PendingRegistration{},
		&Category{},
		&Product{},
		&Order{},
		&OrderDetail{},
		&Payment{},
		&Delivery{},
		&Service{},
		&Feedback{},
	}
}
