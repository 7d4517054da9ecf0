package service

import (
	"context"
	"errors"
	"fmt"

	"umsshop/pkg/logger"
	"umsshop/users-service/internal/app/users/entity"
)

// EventProcessor превращает события заказов и Q&A в уведомления
type EventProcessor struct {
	notifier NotificationServiceInterface
}

func NewEventProcessor(notifier NotificationServiceInterface) *EventProcessor {
	return &EventProcessor{notifier: notifier}
}

// HandleOrderEvent неизвестный тип события пропускается без ошибки
func (p *EventProcessor) HandleOrderEvent(ctx context.Context, event *entity.OrderEvent) error {
	in, ok := orderNotification(event)
	if !ok {
		logger.Debug().Str("event_type", event.EventType).Str("order_id", event.OrderID).Msg("Skipping order event")
		return nil
	}
	return p.deliver(ctx, event.UserSeq, in)
}

func (p *EventProcessor) HandleQnAEvent(ctx context.Context, event *entity.QnAEvent) error {
	if event.EventType != entity.EventQnAAnswered {
		logger.Debug().Str("event_type", event.EventType).Msg("Skipping qna event")
		return nil
	}

	return p.deliver(ctx, event.UserSeq, entity.NotificationInput{
		Code:       "QNA_ANSWERED",
		Category:   entity.CategoryQnA,
		Title:      "Your question was answered",
		En:         fmt.Sprintf("Your question \"%s\" has been answered.", event.Title),
		Kr:         fmt.Sprintf("문의하신 \"%s\"에 답변이 등록되었습니다.", event.Title),
		QuestionID: event.QuestionID,
	})
}

// deliver пользователь без записи в Users не повод повторять событие
func (p *EventProcessor) deliver(ctx context.Context, seq int64, in entity.NotificationInput) error {
	if seq == 0 {
		logger.Warn().Str("code", in.Code).Msg("Event has no user seq, skipping")
		return nil
	}

	_, err := p.notifier.AddNotification(ctx, seq, in)
	if errors.Is(err, ErrUserNotFound) {
		logger.Warn().Int64("user_seq", seq).Str("code", in.Code).Msg("User not found for notification, skipping")
		return nil
	}
	return err
}

// orderNotification категория выбирается по новому статусу
func orderNotification(e *entity.OrderEvent) (entity.NotificationInput, bool) {
	switch e.EventType {
	case entity.EventOrderMessage:
		return entity.NotificationInput{
			Code:     "ORDER_MESSAGE",
			Category: entity.CategoryMessage,
			Title:    "New message on order " + e.OrderID,
			En:       e.Message,
			Kr:       e.Message,
			OrderID:  e.OrderID,
		}, true
	case entity.EventOrderStatusChanged:
	default:
		return entity.NotificationInput{}, false
	}

	in := entity.NotificationInput{
		Code:     "ORDER_STATUS",
		Category: statusCategory(e.Status),
		Title:    "Order " + e.OrderID + ": " + e.Status,
		En:       fmt.Sprintf("Your order %s is now %s.", e.OrderID, e.Status),
		Kr:       fmt.Sprintf("주문 %s 상태가 %s(으)로 변경되었습니다.", e.OrderID, e.Status),
		OrderID:  e.OrderID,
	}
	if e.TrackingNumber != "" {
		in.En += " Tracking number: " + e.TrackingNumber
		in.Kr += " 송장번호: " + e.TrackingNumber
	}
	return in, true
}

func statusCategory(status string) string {
	switch status {
	case "Paypal", "Pay in Cash", "EMS":
		return entity.CategoryPayment
	case "In Delivery", "Delivered":
		return entity.CategoryDelivery
	}
	return entity.CategoryOrder
}
