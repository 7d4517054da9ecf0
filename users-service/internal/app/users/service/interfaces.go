package service

import (
	"context"

	"umsshop/pkg/audit"
	"umsshop/users-service/internal/app/users/entity"

	"github.com/google/uuid"
)

// NotificationServiceInterface фильтр настроек и список noti пользователя
type NotificationServiceInterface interface {
	// AddNotification false без ошибки, если категория выключена у пользователя
	AddNotification(ctx context.Context, seq int64, in entity.NotificationInput) (bool, error)
	ListNotifications(ctx context.Context, seq int64) (*entity.NotificationListResponse, error)
	MarkRead(ctx context.Context, seq int64, index int) error
	MarkAllRead(ctx context.Context, seq int64) error
}

type UserServiceInterface interface {
	GetUser(ctx context.Context, seq int64) (*entity.User, error)
	ListUsers(ctx context.Context, approvalStatus string) ([]entity.User, error)
	UpdateApproval(ctx context.Context, actor audit.Actor, seq int64, status string) (*entity.User, error)
	GetSettings(ctx context.Context, seq int64) (map[string]bool, error)
	UpdateSettings(ctx context.Context, actor audit.Actor, seq int64, settings map[string]bool) (map[string]bool, error)
	RegisterFCMToken(ctx context.Context, seq int64, token string) error
}

type ManagerServiceInterface interface {
	CreateManager(ctx context.Context, actor audit.Actor, req *entity.CreateManagerRequest) (*entity.Manager, error)
	ListManagers(ctx context.Context) ([]entity.Manager, error)
	UpdateRole(ctx context.Context, actor audit.Actor, id uuid.UUID, role string) error
	DeleteManager(ctx context.Context, actor audit.Actor, id uuid.UUID) error
}

// EventProcessorInterface обработка событий из Kafka
type EventProcessorInterface interface {
	HandleOrderEvent(ctx context.Context, event *entity.OrderEvent) error
	HandleQnAEvent(ctx context.Context, event *entity.QnAEvent) error
}

// ReminderServiceInterface напоминание о заявках на одобрение
type ReminderServiceInterface interface {
	SendPendingApprovalReminder(ctx context.Context) (int, error)
}
