package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/repository"
	"umsshop/users-service/internal/app/users/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newNotificationService() (*NotificationService, *mocks.MockUserRepository) {
	repo := new(mocks.MockUserRepository)
	s := NewNotificationService(repo)
	s.now = func() time.Time { return fixedNow }
	return s, repo
}

func deliveryInput() entity.NotificationInput {
	return entity.NotificationInput{
		Code:     "ORDER_STATUS",
		Category: entity.CategoryDelivery,
		Title:    "Order ORD-1: In Delivery",
		En:       "Your order ORD-1 is now In Delivery.",
		Kr:       "배송중",
		OrderID:  "ORD-1",
	}
}

// ===================== AddNotification Tests =====================

func TestAddNotification_StoredWhenCategoryMissing(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	repo.On("GetBySeq", ctx, int64(7)).Return(&entity.User{Seq: 7}, nil)
	repo.On("AppendNotification", ctx, int64(7), mock.MatchedBy(func(n entity.Notification) bool {
		return n.Category == entity.CategoryDelivery && !n.Read && n.Timestamp.Equal(fixedNow) && n.OrderID == "ORD-1"
	})).Return(nil)

	// Act
	stored, err := s.AddNotification(ctx, 7, deliveryInput())

	// Assert
	require.NoError(t, err)
	assert.True(t, stored)
	repo.AssertExpectations(t)
}

func TestAddNotification_StoredWhenCategoryEnabled(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	user := &entity.User{Seq: 7, Notifications: map[string]bool{entity.CategoryDelivery: true}}
	repo.On("GetBySeq", ctx, int64(7)).Return(user, nil)
	repo.On("AppendNotification", ctx, int64(7), mock.Anything).Return(nil)

	// Act
	stored, err := s.AddNotification(ctx, 7, deliveryInput())

	// Assert
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestAddNotification_DisabledCategoryLeavesNotiUnchanged(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	user := &entity.User{Seq: 7, Notifications: map[string]bool{entity.CategoryDelivery: false}}
	repo.On("GetBySeq", ctx, int64(7)).Return(user, nil)

	// Act
	stored, err := s.AddNotification(ctx, 7, deliveryInput())

	// Assert
	require.NoError(t, err)
	assert.False(t, stored)
	repo.AssertNotCalled(t, "AppendNotification", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddNotification_OtherCategoryDisabledDoesNotMatter(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	user := &entity.User{Seq: 7, Notifications: map[string]bool{entity.CategoryPayment: false}}
	repo.On("GetBySeq", ctx, int64(7)).Return(user, nil)
	repo.On("AppendNotification", ctx, int64(7), mock.Anything).Return(nil)

	// Act
	stored, err := s.AddNotification(ctx, 7, deliveryInput())

	// Assert
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestAddNotification_DisabledBetweenReadAndWrite(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	repo.On("GetBySeq", ctx, int64(7)).Return(&entity.User{Seq: 7}, nil)
	repo.On("AppendNotification", ctx, int64(7), mock.Anything).Return(repository.ErrNotificationDisabled)

	// Act
	stored, err := s.AddNotification(ctx, 7, deliveryInput())

	// Assert
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestAddNotification_UnknownCategory(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	in := deliveryInput()
	in.Category = "promo"

	// Act
	_, err := s.AddNotification(context.Background(), 7, in)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidRequest)
	repo.AssertNotCalled(t, "GetBySeq", mock.Anything, mock.Anything)
}

func TestAddNotification_UserNotFound(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	repo.On("GetBySeq", ctx, int64(7)).Return(nil, repository.ErrUserNotFound)

	// Act
	_, err := s.AddNotification(ctx, 7, deliveryInput())

	// Assert
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddNotification_StoreError(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	repo.On("GetBySeq", ctx, int64(7)).Return(&entity.User{Seq: 7}, nil)
	repo.On("AppendNotification", ctx, int64(7), mock.Anything).Return(errors.New("throttled"))

	// Act
	stored, err := s.AddNotification(ctx, 7, deliveryInput())

	// Assert
	require.Error(t, err)
	assert.False(t, stored)
	assert.Contains(t, err.Error(), "throttled")
}

// ===================== List / MarkRead Tests =====================

func TestListNotifications_CountsUnread(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	user := &entity.User{Seq: 7, Noti: []entity.Notification{
		{Code: "A", Read: true},
		{Code: "B"},
		{Code: "C"},
	}}
	repo.On("GetBySeq", ctx, int64(7)).Return(user, nil)

	// Act
	resp, err := s.ListNotifications(ctx, 7)

	// Assert
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 3)
	assert.Equal(t, 2, resp.Unread)
}

func TestListNotifications_EmptyIsNotNil(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	repo.On("GetBySeq", ctx, int64(7)).Return(&entity.User{Seq: 7}, nil)

	// Act
	resp, err := s.ListNotifications(ctx, 7)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, resp.Notifications)
	assert.Zero(t, resp.Unread)
}

func TestMarkRead_Success(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	repo.On("MarkRead", ctx, int64(7), 2).Return(nil)

	// Act
	err := s.MarkRead(ctx, 7, 2)

	// Assert
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMarkRead_NegativeIndex(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()

	// Act
	err := s.MarkRead(context.Background(), 7, -1)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidRequest)
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_OutOfRange(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	repo.On("MarkRead", ctx, int64(7), 9).Return(repository.ErrNotificationNotFound)

	// Act
	err := s.MarkRead(ctx, 7, 9)

	// Assert
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestMarkAllRead_UsesCurrentLength(t *testing.T) {
	// Arrange
	s, repo := newNotificationService()
	ctx := context.Background()
	user := &entity.User{Seq: 7, Noti: make([]entity.Notification, 4)}
	repo.On("GetBySeq", ctx, int64(7)).Return(user, nil)
	repo.On("MarkAllRead", ctx, int64(7), 4).Return(nil)

	// Act
	err := s.MarkAllRead(ctx, 7)

	// Assert
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
