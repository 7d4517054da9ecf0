package infrastructure

import (
	"context"

	"umsshop/orders-service/internal/app/orders/entity"
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// PushSender отправка push уведомления на одно устройство
type PushSender interface {
	Send(ctx context.Context, msg entity.PushMessage) error
}
