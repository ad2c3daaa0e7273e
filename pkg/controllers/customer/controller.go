package customer

import (
	"context"
	"log"
	"time"

	"radhe_backend/pkg/services"

	"gorm.io/gorm"
)

const notifyTimeout = 10 * time.Second

// Controller serves the signed-in customer's orders, payments and service requests
type Controller struct {
	DB          *gorm.DB
	Gateway     services.PaymentGateway
	Notifier    services.Notifier
	WhatsApp    services.WhatsAppSender
	OwnerNumber string

	// async runs owner notifications; tests replace it to run inline
	async func(func())
}

// New wires the customer controller. gateway and whatsapp may be nil.
func New(db *gorm.DB, gateway services.PaymentGateway, notifier services.Notifier, whatsapp services.WhatsAppSender, ownerNumber string) *Controller {
	if notifier == nil {
		notifier = services.LogNotifier{}
	}
	return &Controller{
		DB:          db,
		Gateway:     gateway,
		Notifier:    notifier,
		WhatsApp:    whatsapp,
		OwnerNumber: ownerNumber,
		async:       func(fn func()) { go fn() },
	}
}

// notifyOwner pushes an alert without holding up the response
func (cc *Controller) notifyOwner(ctx context.Context, title, body string, data map[string]string, whatsappText string) {
	ctx = context.WithoutCancel(ctx)
	cc.async(func() {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		if err := cc.Notifier.Notify(ctx, title, body, data); err != nil {
			log.Printf("⚠️  Owner notification failed: %v", err)
		}
		if cc.WhatsApp != nil && whatsappText != "" {
			if err := cc.WhatsApp.SendMessage(ctx, cc.OwnerNumber, whatsappText); err != nil {
				log.Printf("⚠️  WhatsApp message to owner failed: %v", err)
			}
		}
	})
}
