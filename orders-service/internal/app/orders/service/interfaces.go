package service

import (
	"context"

	"umsshop/orders-service/internal/app/orders/entity"
	"umsshop/pkg/audit"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, caller entity.Caller, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, caller entity.Caller, orderID string) (*entity.Order, error)
	ListOrders(ctx context.Context) ([]entity.Order, error)
	ListMyOrders(ctx context.Context, caller entity.Caller) ([]entity.Order, error)
	RecordPayment(ctx context.Context, actor audit.Actor, caller entity.Caller, orderID string, req *entity.PaymentRequest) (*entity.Order, error)
	UpdateDelivery(ctx context.Context, actor audit.Actor, orderID string, req *entity.DeliveryRequest) (*entity.Order, error)
	UpdatePacking(ctx context.Context, actor audit.Actor, orderID string, req *entity.PackingRequest) (*entity.Order, error)
	AddMessage(ctx context.Context, actor audit.Actor, caller entity.Caller, orderID string, text string) (*entity.Order, error)
	DeleteOrder(ctx context.Context, actor audit.Actor, orderID string) error
}
