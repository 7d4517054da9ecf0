package repository

import (
	"context"
	"errors"

	"umsshop/orders-service/internal/app/orders/entity"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderExists   = errors.New("order already exists")
	ErrUserNotFound  = errors.New("user not found")
)

// FieldUpdate дополнительный SET вместе с записью истории.
// Path может быть вложенным: "deliveryDetails.status".
type FieldUpdate struct {
	Path  string
	Value interface{}
}

// OrderRepository заказы в DynamoDB.
// AppendStatus и AppendMessage добавляют в список одним UpdateItem без чтения документа.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	ListByEmail(ctx context.Context, email string) ([]entity.Order, error)
	AppendStatus(ctx context.Context, orderID string, entry entity.StatusEntry, extra ...FieldUpdate) (*entity.Order, error)
	AppendMessage(ctx context.Context, orderID string, msg entity.Message) (*entity.Order, error)
	Delete(ctx context.Context, orderID string) error
}

// UserDirectory чтение push токена владельца заказа из таблицы Users
type UserDirectory interface {
	PushToken(ctx context.Context, seq int64) (string, error)
}
