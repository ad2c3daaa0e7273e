package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/razorpay/razorpay-go"
)

// ErrGatewayUnavailable is returned when no payment gateway credentials are configured
var ErrGatewayUnavailable = errors.New("payment gateway not configured")

// GatewayOrderRequest describes a gateway order for one installment
type GatewayOrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]interface{}
}

// PaymentGateway creates gateway orders and verifies checkout callbacks
type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (map[string]interface{}, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}

// RazorpayGateway is the Razorpay implementation of PaymentGateway
type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

// NewRazorpayGateway initializes the Razorpay client; nil when credentials are missing
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	if keyID == "" || keySecret == "" {
		log.Println("⚠️  RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET not set")
		return nil
	}
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder creates a Razorpay order with automatic capture
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req GatewayOrderRequest) (map[string]interface{}, error) {
	if g == nil || g.client == nil {
		return nil, ErrGatewayUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	data := map[string]interface{}{
		"amount":          req.AmountPaise,
		"currency":        currency,
		"receipt":         req.Receipt,
		"payment_capture": 1,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	return body, nil
}

func (g *RazorpayGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(g.keySecret, gatewayOrderID, paymentID, signature)
}

// VerifyPaymentSignature checks hex(HMAC-SHA256(secret, orderID|paymentID)) against signature
func VerifyPaymentSignature(secret, gatewayOrderID, paymentID, signature string) bool {
	if secret == "" {
		return false
	}
	return hmac.Equal([]byte(PaymentSignature(secret, gatewayOrderID, paymentID)), []byte(signature))
}

// PaymentSignature computes the checkout callback signature
func PaymentSignature(secret, gatewayOrderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}
