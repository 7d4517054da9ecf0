package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReminderService мок для ReminderServiceInterface
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) SendPendingApprovalReminder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewCronScheduler(t *testing.T) {
	// Arrange
	svc := new(MockReminderService)

	// Act
	scheduler := NewCronScheduler(svc)

	// Assert
	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, svc, scheduler.reminders)
}

func TestCronScheduler_Start_Success(t *testing.T) {
	// Arrange
	scheduler := NewCronScheduler(new(MockReminderService))

	// Act
	err := scheduler.Start(context.Background(), "0 0 * * * *")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	// Cleanup
	scheduler.Stop()
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	// Arrange
	scheduler := NewCronScheduler(new(MockReminderService))

	// Act
	err := scheduler.Start(context.Background(), "invalid cron expression")

	// Assert
	assert.Error(t, err)
	assert.Empty(t, scheduler.GetEntries())
}

func TestCronScheduler_Start_FiveFieldRejected(t *testing.T) {
	// Arrange
	scheduler := NewCronScheduler(new(MockReminderService))

	// Act
	err := scheduler.Start(context.Background(), "*/5 * * * *")

	// Assert
	assert.Error(t, err)
}

func TestCronScheduler_RunReminder(t *testing.T) {
	// Arrange
	svc := new(MockReminderService)
	scheduler := NewCronScheduler(svc)
	ctx := context.Background()
	svc.On("SendPendingApprovalReminder", ctx).Return(2, nil).Once()
	svc.On("SendPendingApprovalReminder", ctx).Return(0, errors.New("smtp down")).Once()

	// Act
	scheduler.runReminder(ctx)
	scheduler.runReminder(ctx)

	// Assert
	svc.AssertNumberOfCalls(t, "SendPendingApprovalReminder", 2)
}
