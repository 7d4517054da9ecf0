package push

import (
	"context"
	"fmt"

	"umsshop/orders-service/internal/app/orders/entity"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// messagingClient часть *messaging.Client, нужная для отправки
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender отправляет push через Firebase Cloud Messaging
type FCMSender struct {
	client messagingClient
}

// NewFCMSender инициализирует Firebase app из файла service account
func NewFCMSender(ctx context.Context, projectID, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebase messaging client: %w", err)
	}

	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, msg entity.PushMessage) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}

// NopSender используется, когда FCM не настроен
type NopSender struct{}

func (NopSender) Send(context.Context, entity.PushMessage) error { return nil }
