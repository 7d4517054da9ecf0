package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"
	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/repository"
)

// NotificationService добавляет уведомления в noti с учетом настроек пользователя
type NotificationService struct {
	users repository.UserRepository
	now   func() time.Time
}

// NewNotificationService создает сервис уведомлений
func NewNotificationService(users repository.UserRepository) *NotificationService {
	return &NotificationService{
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// AddNotification проверяет настройку категории и атомарно добавляет запись в noti.
// Выключенная категория не считается ошибкой.
func (s *NotificationService) AddNotification(ctx context.Context, seq int64, in entity.NotificationInput) (bool, error) {
	if !entity.IsCategory(in.Category) {
		return false, fmt.Errorf("%w: unknown notification category %q", ErrInvalidRequest, in.Category)
	}

	user, err := s.users.GetBySeq(ctx, seq)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to load user: %w", err)
	}

	if !entity.Allowed(user.Notifications, in.Category) {
		metrics.NotificationsDropped.WithLabelValues(in.Category, "disabled").Inc()
		logger.Debug().
			Int64("user_seq", seq).
			Str("category", in.Category).
			Msg("Notification category disabled, dropping")
		return false, nil
	}

	err = s.users.AppendNotification(ctx, seq, in.Record(s.now()))
	if errors.Is(err, repository.ErrNotificationDisabled) {
		// Настройку выключили между чтением и записью
		metrics.NotificationsDropped.WithLabelValues(in.Category, "disabled_race").Inc()
		logger.Debug().
			Int64("user_seq", seq).
			Str("category", in.Category).
			Msg("Notification category disabled during append, dropping")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to store notification: %w", err)
	}

	metrics.NotificationsStored.WithLabelValues(in.Category).Inc()
	return true, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, seq int64) (*entity.NotificationListResponse, error) {
	user, err := s.getUser(ctx, seq)
	if err != nil {
		return nil, err
	}

	resp := &entity.NotificationListResponse{Notifications: user.Noti}
	if resp.Notifications == nil {
		resp.Notifications = []entity.Notification{}
	}
	for _, n := range resp.Notifications {
		if !n.Read {
			resp.Unread++
		}
	}
	return resp, nil
}

// MarkRead index это позиция в noti, как ее отдает ListNotifications
func (s *NotificationService) MarkRead(ctx context.Context, seq int64, index int) error {
	if index < 0 {
		return fmt.Errorf("%w: negative notification index", ErrInvalidRequest)
	}

	err := s.users.MarkRead(ctx, seq, index)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, seq int64) error {
	user, err := s.getUser(ctx, seq)
	if err != nil {
		return err
	}

	if err := s.users.MarkAllRead(ctx, seq, len(user.Noti)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) getUser(ctx context.Context, seq int64) (*entity.User, error) {
	user, err := s.users.GetBySeq(ctx, seq)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
