package repository

import (
	"context"
	"errors"

	"umsshop/users-service/internal/app/users/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationDisabled = errors.New("notification category disabled")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrManagerNotFound      = errors.New("manager not found")
	ErrManagerExists        = errors.New("manager with this email already exists")
)

// UserRepository пользователи в DynamoDB.
// Все изменения noti идут через UpdateItem без перезаписи всего документа.
type UserRepository interface {
	GetBySeq(ctx context.Context, seq int64) (*entity.User, error)
	ListByApproval(ctx context.Context, status string) ([]entity.User, error)
	UpdateApproval(ctx context.Context, seq int64, status string) (*entity.User, error)
	UpdateSettings(ctx context.Context, seq int64, settings map[string]bool) (*entity.User, error)
	SetFCMToken(ctx context.Context, seq int64, token string) error
	// AppendNotification list_append в noti при условии, что категория не выключена.
	// ErrNotificationDisabled, если условие не выполнилось.
	AppendNotification(ctx context.Context, seq int64, n entity.Notification) error
	MarkRead(ctx context.Context, seq int64, index int) error
	MarkAllRead(ctx context.Context, seq int64, count int) error
}

// ManagerRepository аккаунты back-office в PostgreSQL
type ManagerRepository interface {
	Create(ctx context.Context, m *entity.Manager) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Manager, error)
	List(ctx context.Context) ([]entity.Manager, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
