package mocks

import (
	"context"

	"umsshop/pkg/audit"
	"umsshop/users-service/internal/app/users/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetBySeq(ctx context.Context, seq int64) (*entity.User, error) {
	args := m.Called(ctx, seq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ListByApproval(ctx context.Context, status string) ([]entity.User, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateApproval(ctx context.Context, seq int64, status string) (*entity.User, error) {
	args := m.Called(ctx, seq, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateSettings(ctx context.Context, seq int64, settings map[string]bool) (*entity.User, error) {
	args := m.Called(ctx, seq, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) SetFCMToken(ctx context.Context, seq int64, token string) error {
	args := m.Called(ctx, seq, token)
	return args.Error(0)
}

func (m *MockUserRepository) AppendNotification(ctx context.Context, seq int64, n entity.Notification) error {
	args := m.Called(ctx, seq, n)
	return args.Error(0)
}

func (m *MockUserRepository) MarkRead(ctx context.Context, seq int64, index int) error {
	args := m.Called(ctx, seq, index)
	return args.Error(0)
}

func (m *MockUserRepository) MarkAllRead(ctx context.Context, seq int64, count int) error {
	args := m.Called(ctx, seq, count)
	return args.Error(0)
}

// MockManagerRepository мок для ManagerRepository
type MockManagerRepository struct {
	mock.Mock
}

func (m *MockManagerRepository) Create(ctx context.Context, manager *entity.Manager) error {
	args := m.Called(ctx, manager)
	return args.Error(0)
}

func (m *MockManagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Manager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Manager), args.Error(1)
}

func (m *MockManagerRepository) List(ctx context.Context) ([]entity.Manager, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Manager), args.Error(1)
}

func (m *MockManagerRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockManagerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailer мок для util.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// MockRecorder мок для audit.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, actor audit.Actor, action audit.ActionType, details string) {
	m.Called(ctx, actor, action, details)
}

// MockAuditStore мок для audit.Store
type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) Append(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditStore) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.Entry), args.Error(1)
}

// MockNotifier мок для service.NotificationServiceInterface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AddNotification(ctx context.Context, seq int64, in entity.NotificationInput) (bool, error) {
	args := m.Called(ctx, seq, in)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotifier) ListNotifications(ctx context.Context, seq int64) (*entity.NotificationListResponse, error) {
	args := m.Called(ctx, seq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NotificationListResponse), args.Error(1)
}

func (m *MockNotifier) MarkRead(ctx context.Context, seq int64, index int) error {
	args := m.Called(ctx, seq, index)
	return args.Error(0)
}

func (m *MockNotifier) MarkAllRead(ctx context.Context, seq int64) error {
	args := m.Called(ctx, seq)
	return args.Error(0)
}
