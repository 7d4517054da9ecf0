package service

import (
	"context"
	"errors"
	"testing"

	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleOrderEvent_StatusCategories(t *testing.T) {
	tests := []struct {
		status   string
		category string
	}{
		{"Paypal", entity.CategoryPayment},
		{"Pay in Cash", entity.CategoryPayment},
		{"EMS", entity.CategoryPayment},
		{"In Delivery", entity.CategoryDelivery},
		{"Delivered", entity.CategoryDelivery},
		{"Packing: Packed", entity.CategoryOrder},
		{"Order", entity.CategoryOrder},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			// Arrange
			notifier := new(mocks.MockNotifier)
			p := NewEventProcessor(notifier)
			ctx := context.Background()
			event := &entity.OrderEvent{EventType: entity.EventOrderStatusChanged, OrderID: "ORD-1", UserSeq: 42, Status: tt.status}
			notifier.On("AddNotification", ctx, int64(42), mock.MatchedBy(func(in entity.NotificationInput) bool {
				return in.Category == tt.category && in.OrderID == "ORD-1"
			})).Return(true, nil)

			// Act
			err := p.HandleOrderEvent(ctx, event)

			// Assert
			require.NoError(t, err)
			notifier.AssertExpectations(t)
		})
	}
}

func TestHandleOrderEvent_TrackingNumberInBody(t *testing.T) {
	// Arrange
	notifier := new(mocks.MockNotifier)
	p := NewEventProcessor(notifier)
	ctx := context.Background()
	event := &entity.OrderEvent{
		EventType:      entity.EventOrderStatusChanged,
		OrderID:        "ORD-1",
		UserSeq:        42,
		Status:         "In Delivery",
		TrackingNumber: "EE123456789KR",
	}
	var got entity.NotificationInput
	notifier.On("AddNotification", ctx, int64(42), mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(entity.NotificationInput) }).
		Return(true, nil)

	// Act
	err := p.HandleOrderEvent(ctx, event)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, got.En, "EE123456789KR")
}

func TestHandleOrderEvent_Message(t *testing.T) {
	// Arrange
	notifier := new(mocks.MockNotifier)
	p := NewEventProcessor(notifier)
	ctx := context.Background()
	event := &entity.OrderEvent{EventType: entity.EventOrderMessage, OrderID: "ORD-1", UserSeq: 42, Message: "Shipped today"}
	notifier.On("AddNotification", ctx, int64(42), mock.MatchedBy(func(in entity.NotificationInput) bool {
		return in.Category == entity.CategoryMessage && in.En == "Shipped today"
	})).Return(true, nil)

	// Act
	err := p.HandleOrderEvent(ctx, event)

	// Assert
	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestHandleOrderEvent_UnknownTypeSkipped(t *testing.T) {
	// Arrange
	notifier := new(mocks.MockNotifier)
	p := NewEventProcessor(notifier)

	// Act
	err := p.HandleOrderEvent(context.Background(), &entity.OrderEvent{EventType: "ORDER_ARCHIVED", UserSeq: 42})

	// Assert
	require.NoError(t, err)
	notifier.AssertNotCalled(t, "AddNotification", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleOrderEvent_UnknownUserSkipped(t *testing.T) {
	// Arrange
	notifier := new(mocks.MockNotifier)
	p := NewEventProcessor(notifier)
	ctx := context.Background()
	notifier.On("AddNotification", ctx, int64(42), mock.Anything).Return(false, ErrUserNotFound)

	// Act
	err := p.HandleOrderEvent(ctx, &entity.OrderEvent{EventType: entity.EventOrderStatusChanged, UserSeq: 42, Status: "Delivered"})

	// Assert
	require.NoError(t, err)
}

func TestHandleOrderEvent_StoreErrorReturned(t *testing.T) {
	// Arrange
	notifier := new(mocks.MockNotifier)
	p := NewEventProcessor(notifier)
	ctx := context.Background()
	notifier.On("AddNotification", ctx, int64(42), mock.Anything).Return(false, errors.New("throttled"))

	// Act
	err := p.HandleOrderEvent(ctx, &entity.OrderEvent{EventType: entity.EventOrderStatusChanged, UserSeq: 42, Status: "Delivered"})

	// Assert
	require.Error(t, err)
}

func TestHandleQnAEvent_Answered(t *testing.T) {
	// Arrange
	notifier := new(mocks.MockNotifier)
	p := NewEventProcessor(notifier)
	ctx := context.Background()
	event := &entity.QnAEvent{EventType: entity.EventQnAAnswered, QuestionID: "q-1", UserSeq: 9, Title: "Sizing"}
	notifier.On("AddNotification", ctx, int64(9), mock.MatchedBy(func(in entity.NotificationInput) bool {
		return in.Category == entity.CategoryQnA && in.QuestionID == "q-1"
	})).Return(true, nil)

	// Act
	err := p.HandleQnAEvent(ctx, event)

	// Assert
	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestHandleQnAEvent_MissingSeqSkipped(t *testing.T) {
	// Arrange
	notifier := new(mocks.MockNotifier)
	p := NewEventProcessor(notifier)

	// Act
	err := p.HandleQnAEvent(context.Background(), &entity.QnAEvent{EventType: entity.EventQnAAnswered, QuestionID: "q-1"})

	// Assert
	require.NoError(t, err)
	notifier.AssertNotCalled(t, "AddNotification", mock.Anything, mock.Anything, mock.Anything)
}
