package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"umsshop/pkg/audit"
	"umsshop/pkg/logger"
	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/repository"
	"umsshop/users-service/internal/app/users/util"
)

// ReminderService письмо администратору о пользователях, ожидающих одобрения
type ReminderService struct {
	users      repository.UserRepository
	mailer     util.Mailer
	adminEmail string
	recorder   audit.Recorder
}

func NewReminderService(users repository.UserRepository, mailer util.Mailer, adminEmail string, recorder audit.Recorder) *ReminderService {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &ReminderService{users: users, mailer: mailer, adminEmail: adminEmail, recorder: recorder}
}

// SendPendingApprovalReminder возвращает число заявок; письмо уходит только если они есть
func (s *ReminderService) SendPendingApprovalReminder(ctx context.Context) (int, error) {
	if s.adminEmail == "" {
		logger.Debug().Msg("ADMIN_EMAIL not configured, skipping approval reminder")
		return 0, nil
	}

	pending, err := s.users.ListByApproval(ctx, entity.ApprovalRequest)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending users: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	subject := fmt.Sprintf("[UMS SHOP] %d account(s) waiting for approval", len(pending))
	if err := s.mailer.Send(ctx, s.adminEmail, subject, reminderBody(pending)); err != nil {
		return len(pending), err
	}

	s.recorder.Record(ctx, audit.SystemActor("users-service"), audit.ActionApprovalReminder,
		fmt.Sprintf("%d pending sent to %s", len(pending), s.adminEmail))
	logger.Info().Int("pending", len(pending)).Msg("Approval reminder sent")
	return len(pending), nil
}

func reminderBody(users []entity.User) string {
	var b strings.Builder
	b.WriteString("<p>The following accounts are waiting for approval:</p><ul>")
	for _, u := range users {
		fmt.Fprintf(&b, "<li>#%d %s (%s) %s</li>",
			u.Seq, html.EscapeString(u.Name), html.EscapeString(u.Email), html.EscapeString(u.Company))
	}
	b.WriteString("</ul>")
	return b.String()
}
