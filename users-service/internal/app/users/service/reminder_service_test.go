package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"umsshop/pkg/audit"
	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSendPendingApprovalReminder_SendsMail(t *testing.T) {
	// Arrange
	repo := new(mocks.MockUserRepository)
	mailer := new(mocks.MockMailer)
	recorder := new(mocks.MockRecorder)
	s := NewReminderService(repo, mailer, "boss@ums.shop", recorder)
	ctx := context.Background()
	pending := []entity.User{
		{Seq: 3, Name: "Park", Email: "park@example.com", ApprovalStatus: entity.ApprovalRequest},
		{Seq: 4, Name: "<Choi>", Email: "choi@example.com", ApprovalStatus: entity.ApprovalRequest},
	}
	repo.On("ListByApproval", ctx, entity.ApprovalRequest).Return(pending, nil)
	mailer.On("Send", ctx, "boss@ums.shop", "[UMS SHOP] 2 account(s) waiting for approval",
		mock.MatchedBy(func(body string) bool {
			return !strings.Contains(body, "<Choi>") && strings.Contains(body, "park@example.com")
		})).Return(nil)
	recorder.On("Record", ctx, audit.SystemActor("users-service"), audit.ActionApprovalReminder, "2 pending sent to boss@ums.shop").Return()

	// Act
	n, err := s.SendPendingApprovalReminder(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	mailer.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestSendPendingApprovalReminder_NothingPending(t *testing.T) {
	// Arrange
	repo := new(mocks.MockUserRepository)
	mailer := new(mocks.MockMailer)
	s := NewReminderService(repo, mailer, "boss@ums.shop", nil)
	ctx := context.Background()
	repo.On("ListByApproval", ctx, entity.ApprovalRequest).Return([]entity.User{}, nil)

	// Act
	n, err := s.SendPendingApprovalReminder(ctx)

	// Assert
	require.NoError(t, err)
	assert.Zero(t, n)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendPendingApprovalReminder_NoAdminEmail(t *testing.T) {
	// Arrange
	repo := new(mocks.MockUserRepository)
	mailer := new(mocks.MockMailer)
	s := NewReminderService(repo, mailer, "", nil)

	// Act
	n, err := s.SendPendingApprovalReminder(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Zero(t, n)
	repo.AssertNotCalled(t, "ListByApproval", mock.Anything, mock.Anything)
}

func TestSendPendingApprovalReminder_MailError(t *testing.T) {
	// Arrange
	repo := new(mocks.MockUserRepository)
	mailer := new(mocks.MockMailer)
	s := NewReminderService(repo, mailer, "boss@ums.shop", nil)
	ctx := context.Background()
	repo.On("ListByApproval", ctx, entity.ApprovalRequest).Return([]entity.User{{Seq: 3}}, nil)
	mailer.On("Send", ctx, "boss@ums.shop", mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))

	// Act
	n, err := s.SendPendingApprovalReminder(ctx)

	// Assert
	require.Error(t, err)
	assert.Equal(t, 1, n)
}
