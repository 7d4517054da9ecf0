package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"umsshop/orders-service/internal/app/orders/entity"
	"umsshop/orders-service/internal/app/orders/infrastructure"
	"umsshop/orders-service/internal/app/orders/repository"
	"umsshop/pkg/audit"
	"umsshop/pkg/dynamo"
	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"github.com/google/uuid"
)

const serviceName = "orders-service"

// OrderService ведет историю статусов заказа и рассылает уведомления.
// Каждое изменение статуса это одна атомарная запись в statusHistory.
type OrderService struct {
	repo      repository.OrderRepository
	users     repository.UserDirectory
	publisher infrastructure.MessagePublisher
	push      infrastructure.PushSender
	recorder  audit.Recorder
	now       func() time.Time
}

// NewOrderService создает новый сервис заказов с внедрением зависимостей
func NewOrderService(
	repo repository.OrderRepository,
	users repository.UserDirectory,
	publisher infrastructure.MessagePublisher,
	push infrastructure.PushSender,
	recorder audit.Recorder,
) *OrderService {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &OrderService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		push:      push,
		recorder:  recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder сохраняет заказ со статусом Order и первой записью истории
func (s *OrderService) CreateOrder(ctx context.Context, caller entity.Caller, req *entity.CreateOrderRequest) (*entity.Order, error) {
	if caller.Email == "" {
		return nil, fmt.Errorf("%w: customer email is required", ErrInvalidOrder)
	}

	now := s.now()
	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order := &entity.Order{
		OrderID:         newOrderID(now),
		UserSeq:         caller.Seq,
		UserEmail:       caller.Email,
		Customer:        req.Customer,
		OrderItems:      items,
		TotalAmount:     req.TotalAmount,
		Status:          entity.StatusOrder,
		StatusHistory:   []entity.StatusEntry{{NewStatus: entity.StatusOrder, Timestamp: now}},
		DeliveryDetails: entity.DeliveryDetails{Address: req.Address},
		Messages:        []entity.Message{},
		Date:            now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrderStatusChanges.WithLabelValues("order").Inc()
	s.recorder.Record(ctx, audit.Actor{Manager: caller.Email}, audit.ActionOrderCreate,
		fmt.Sprintf("order %s created (%d items)", order.OrderID, len(items)))

	logger.Info().
		Str("order_id", order.OrderID).
		Str("user_email", order.UserEmail).
		Msg("Order created")

	return order, nil
}

// GetOrder покупатель видит только свои заказы, чужой заказ для него не существует
func (s *OrderService) GetOrder(ctx context.Context, caller entity.Caller, orderID string) (*entity.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapRepoError(err, "failed to get order")
	}
	if !caller.Admin && !strings.EqualFold(order.UserEmail, caller.Email) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapRepoError(err, "failed to list orders")
	}
	return orders, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, caller entity.Caller) ([]entity.Order, error) {
	orders, err := s.repo.ListByEmail(ctx, caller.Email)
	if err != nil {
		return nil, mapRepoError(err, "failed to list orders")
	}
	return orders, nil
}

// AppendStatusHistory добавляет запись истории и меняет status одним UpdateItem.
// Ограничений на переходы нет.
func (s *OrderService) AppendStatusHistory(ctx context.Context, orderID, newStatus, trackingNumber, changedBy string, extra ...repository.FieldUpdate) (*entity.Order, error) {
	if strings.TrimSpace(newStatus) == "" {
		return nil, ErrInvalidOrderStatus
	}

	entry := entity.StatusEntry{
		NewStatus:      newStatus,
		TrackingNumber: trackingNumber,
		Timestamp:      s.now(),
		ChangedBy:      changedBy,
	}

	order, err := s.repo.AppendStatus(ctx, orderID, entry, extra...)
	if err != nil {
		return nil, mapRepoError(err, "failed to append status history")
	}

	s.publish(ctx, entity.OrderEvent{
		EventType:      entity.EventStatusChanged,
		OrderID:        order.OrderID,
		UserSeq:        order.UserSeq,
		UserEmail:      order.UserEmail,
		Status:         newStatus,
		TrackingNumber: trackingNumber,
		Timestamp:      entry.Timestamp,
	})

	return order, nil
}

// RecordPayment фиксирует способ оплаты, в истории статусом становится сам способ
func (s *OrderService) RecordPayment(ctx context.Context, actor audit.Actor, caller entity.Caller, orderID string, req *entity.PaymentRequest) (*entity.Order, error) {
	if !entity.IsPaymentMethod(req.Method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidOrderStatus, req.Method)
	}
	if err := s.authorize(ctx, caller, orderID); err != nil {
		return nil, err
	}

	extra := []repository.FieldUpdate{
		{Path: "paymentMethod", Value: req.Method},
		{Path: "paymentStatus", Value: paymentStatus(req.Method)},
	}
	if req.CaptureID != "" {
		extra = append(extra, repository.FieldUpdate{Path: "captureId", Value: req.CaptureID})
	}

	order, err := s.AppendStatusHistory(ctx, orderID, req.Method, "", actor.Manager, extra...)
	if err != nil {
		return nil, err
	}

	metrics.OrderStatusChanges.WithLabelValues("payment").Inc()
	s.recorder.Record(ctx, actor, audit.ActionOrderPayment, fmt.Sprintf("order %s paid via %s", orderID, req.Method))
	return order, nil
}

// paymentStatus PayPal подтверждается capture, остальные ожидают оплаты
func paymentStatus(method string) string {
	if method == entity.StatusPaypal {
		return "COMPLETED"
	}
	return "PENDING"
}

func (s *OrderService) UpdateDelivery(ctx context.Context, actor audit.Actor, orderID string, req *entity.DeliveryRequest) (*entity.Order, error) {
	if !entity.IsDeliveryStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown delivery status %q", ErrInvalidOrderStatus, req.Status)
	}

	extra := []repository.FieldUpdate{{Path: "deliveryDetails.status", Value: req.Status}}
	if req.TrackingNumber != "" {
		extra = append(extra, repository.FieldUpdate{Path: "deliveryDetails.trackingNumber", Value: req.TrackingNumber})
	}

	order, err := s.AppendStatusHistory(ctx, orderID, req.Status, req.TrackingNumber, actor.Manager, extra...)
	if err != nil {
		return nil, err
	}

	metrics.OrderStatusChanges.WithLabelValues("delivery").Inc()
	s.recorder.Record(ctx, actor, audit.ActionOrderDelivery,
		fmt.Sprintf("order %s delivery %s %s", orderID, req.Status, req.TrackingNumber))
	return order, nil
}

func (s *OrderService) UpdatePacking(ctx context.Context, actor audit.Actor, orderID string, req *entity.PackingRequest) (*entity.Order, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, ErrInvalidOrderStatus
	}

	now := s.now()
	extra := []repository.FieldUpdate{
		{Path: "packing.status", Value: status},
		{Path: "packing.note", Value: req.Note},
		{Path: "packing.updatedAt", Value: now},
	}

	order, err := s.AppendStatusHistory(ctx, orderID, entity.PackingStatusPrefix+status, "", actor.Manager, extra...)
	if err != nil {
		return nil, err
	}

	metrics.OrderStatusChanges.WithLabelValues("packing").Inc()
	s.recorder.Record(ctx, actor, audit.ActionOrderPacking, fmt.Sprintf("order %s packing %s", orderID, status))
	return order, nil
}

// AddMessage добавляет сообщение в чат заказа.
// Сообщение администратора уходит покупателю push уведомлением и событием ORDER_MESSAGE.
func (s *OrderService) AddMessage(ctx context.Context, actor audit.Actor, caller entity.Caller, orderID string, text string) (*entity.Order, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrInvalidOrder)
	}
	if err := s.authorize(ctx, caller, orderID); err != nil {
		return nil, err
	}

	sender := entity.SenderCustomer
	if caller.Admin {
		sender = entity.SenderAdmin
	}
	msg := entity.Message{Sender: sender, Text: text, Timestamp: s.now()}

	order, err := s.repo.AppendMessage(ctx, orderID, msg)
	if err != nil {
		return nil, mapRepoError(err, "failed to add message")
	}

	if sender == entity.SenderAdmin {
		s.recorder.Record(ctx, actor, audit.ActionOrderMessage, fmt.Sprintf("message to order %s", orderID))
		s.publish(ctx, entity.OrderEvent{
			EventType: entity.EventMessage,
			OrderID:   order.OrderID,
			UserSeq:   order.UserSeq,
			UserEmail: order.UserEmail,
			Message:   text,
			Timestamp: msg.Timestamp,
		})
	}

	s.notifyOnAdminMessage(ctx, order)
	return order, nil
}

// notifyOnAdminMessage push владельцу заказа, если последнее сообщение от Admin.
// Ошибки только логируются, повторов нет.
func (s *OrderService) notifyOnAdminMessage(ctx context.Context, order *entity.Order) {
	last := order.LastMessage()
	if last == nil || last.Sender != entity.SenderAdmin {
		return
	}

	log := logger.With().Str("order_id", order.OrderID).Int64("user_seq", order.UserSeq).Logger()

	token, err := s.users.PushToken(ctx, order.UserSeq)
	if err != nil {
		metrics.PushNotificationsSent.WithLabelValues(serviceName, "failed").Inc()
		log.Warn().Err(err).Msg("Failed to load push token")
		return
	}
	if token == "" {
		metrics.PushNotificationsSent.WithLabelValues(serviceName, "skipped").Inc()
		log.Debug().Msg("User has no push token, skipping notification")
		return
	}

	err = s.push.Send(ctx, entity.PushMessage{
		Token: token,
		Title: "New message on order " + order.OrderID,
		Body:  last.Text,
		Data:  map[string]string{"orderId": order.OrderID, "type": "message"},
	})
	if err != nil {
		metrics.PushNotificationsSent.WithLabelValues(serviceName, "failed").Inc()
		log.Error().Err(err).Msg("Failed to send push notification")
		return
	}

	metrics.PushNotificationsSent.WithLabelValues(serviceName, "sent").Inc()
}

func (s *OrderService) DeleteOrder(ctx context.Context, actor audit.Actor, orderID string) error {
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return mapRepoError(err, "failed to delete order")
	}

	s.recorder.Record(ctx, actor, audit.ActionOrderDelete, fmt.Sprintf("order %s deleted", orderID))
	logger.Info().Str("order_id", orderID).Str("actor", actor.Manager).Msg("Order deleted")
	return nil
}

// authorize покупатель может менять только свой заказ
func (s *OrderService) authorize(ctx context.Context, caller entity.Caller, orderID string) error {
	if caller.Admin {
		return nil
	}
	_, err := s.GetOrder(ctx, caller, orderID)
	return err
}

// publish ошибка Kafka не отменяет уже записанное изменение
func (s *OrderService) publish(ctx context.Context, event entity.OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("order_id", event.OrderID).Msg("Failed to marshal order event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, event.OrderID, data); err != nil {
		logger.Error().
			Err(err).
			Str("order_id", event.OrderID).
			Str("event_type", event.EventType).
			Msg("Failed to publish order event")
	}
}

func mapRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return ErrOrderNotFound
	case errors.Is(err, dynamo.ErrIndexUnavailable):
		return ErrIndexUnavailable
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// newOrderID ORD-20260102-1a2b3c4d
func newOrderID(now time.Time) string {
	return "ORD-" + now.Format("20060102") + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
