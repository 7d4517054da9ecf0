package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"umsshop/pkg/audit"
	"umsshop/pkg/logger"
	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/repository"
)

// UserService одобрение аккаунтов и настройки уведомлений покупателей
type UserService struct {
	users    repository.UserRepository
	notifier NotificationServiceInterface
	recorder audit.Recorder
}

// NewUserService создает сервис пользователей
func NewUserService(users repository.UserRepository, notifier NotificationServiceInterface, recorder audit.Recorder) *UserService {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &UserService{users: users, notifier: notifier, recorder: recorder}
}

func (s *UserService) GetUser(ctx context.Context, seq int64) (*entity.User, error) {
	user, err := s.users.GetBySeq(ctx, seq)
	if err != nil {
		return nil, mapUserError(err, "failed to get user")
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, approvalStatus string) ([]entity.User, error) {
	if !isApprovalStatus(approvalStatus) {
		return nil, fmt.Errorf("%w: unknown approval status %q", ErrInvalidRequest, approvalStatus)
	}

	users, err := s.users.ListByApproval(ctx, approvalStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateApproval меняет статус заявки и отправляет пользователю уведомление account
func (s *UserService) UpdateApproval(ctx context.Context, actor audit.Actor, seq int64, status string) (*entity.User, error) {
	if !isApprovalStatus(status) {
		return nil, fmt.Errorf("%w: unknown approval status %q", ErrInvalidRequest, status)
	}

	user, err := s.users.UpdateApproval(ctx, seq, status)
	if err != nil {
		return nil, mapUserError(err, "failed to update approval")
	}

	s.recorder.Record(ctx, actor, audit.ActionUserApproval, fmt.Sprintf("user %d (%s) -> %s", seq, user.Email, status))

	if in, ok := approvalNotification(status); ok {
		if _, err := s.notifier.AddNotification(ctx, seq, in); err != nil {
			logger.Warn().Err(err).Int64("user_seq", seq).Msg("Failed to notify user about approval")
		}
	}

	return user, nil
}

func approvalNotification(status string) (entity.NotificationInput, bool) {
	switch status {
	case entity.ApprovalApprove:
		return entity.NotificationInput{
			Code:     "ACCOUNT_APPROVED",
			Category: entity.CategoryAccount,
			Title:    "Account approved",
			En:       "Your UMS SHOP account has been approved.",
			Kr:       "UMS SHOP 계정이 승인되었습니다.",
		}, true
	case entity.ApprovalReject:
		return entity.NotificationInput{
			Code:     "ACCOUNT_REJECTED",
			Category: entity.CategoryAccount,
			Title:    "Account rejected",
			En:       "Your UMS SHOP account request has been rejected.",
			Kr:       "UMS SHOP 계정 신청이 거절되었습니다.",
		}, true
	}
	return entity.NotificationInput{}, false
}

// GetSettings все категории, отсутствующие ключи считаются включенными
func (s *UserService) GetSettings(ctx context.Context, seq int64) (map[string]bool, error) {
	user, err := s.users.GetBySeq(ctx, seq)
	if err != nil {
		return nil, mapUserError(err, "failed to get user")
	}
	return effectiveSettings(user.Notifications), nil
}

func (s *UserService) UpdateSettings(ctx context.Context, actor audit.Actor, seq int64, settings map[string]bool) (map[string]bool, error) {
	if len(settings) == 0 {
		return nil, fmt.Errorf("%w: no settings supplied", ErrInvalidRequest)
	}

	changes := make([]string, 0, len(settings))
	for category, enabled := range settings {
		if !entity.IsCategory(category) {
			return nil, fmt.Errorf("%w: unknown notification category %q", ErrInvalidRequest, category)
		}
		changes = append(changes, fmt.Sprintf("%s=%t", category, enabled))
	}
	sort.Strings(changes)

	user, err := s.users.UpdateSettings(ctx, seq, settings)
	if err != nil {
		return nil, mapUserError(err, "failed to update notification settings")
	}

	s.recorder.Record(ctx, actor, audit.ActionNotificationSettings,
		fmt.Sprintf("user %d: %s", seq, strings.Join(changes, ", ")))

	return effectiveSettings(user.Notifications), nil
}

func (s *UserService) RegisterFCMToken(ctx context.Context, seq int64, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidRequest)
	}

	if err := s.users.SetFCMToken(ctx, seq, token); err != nil {
		return mapUserError(err, "failed to register push token")
	}
	return nil
}

func effectiveSettings(stored map[string]bool) map[string]bool {
	out := make(map[string]bool, len(entity.Categories()))
	for _, c := range entity.Categories() {
		out[c] = entity.Allowed(stored, c)
	}
	return out
}

func isApprovalStatus(s string) bool {
	return s == entity.ApprovalRequest || s == entity.ApprovalApprove || s == entity.ApprovalReject
}

func mapUserError(err error, msg string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
