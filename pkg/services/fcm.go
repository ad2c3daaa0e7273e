package services

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// Notifier pushes an alert to the Owner's devices
type Notifier interface {
	Notify(ctx context.Context, title, body string, data map[string]string) error
}

// FCMNotifier publishes to a Firebase Cloud Messaging topic the Owner apps subscribe to
type FCMNotifier struct {
	client *messaging.Client
	topic  string
}

// NewFCMNotifier initializes Firebase Cloud Messaging from a service account file
func NewFCMNotifier(ctx context.Context, credentialsFile, topic string) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}

	return &FCMNotifier{client: client, topic: topic}, nil
}

func (n *FCMNotifier) Notify(ctx context.Context, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: n.topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := n.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// LogNotifier writes alerts to the log when FCM is not configured
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, title, body string, data map[string]string) error {
	log.Printf("🔔 %s: %s %v", title, body, data)
	return nil
}
