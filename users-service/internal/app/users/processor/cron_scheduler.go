package processor

import (
	"context"

	"umsshop/pkg/logger"
	"umsshop/users-service/internal/app/users/service"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодическое напоминание о заявках на одобрение
type CronScheduler struct {
	cron      *cron.Cron
	reminders service.ReminderServiceInterface
}

func NewCronScheduler(reminders service.ReminderServiceInterface) *CronScheduler {
	l := logger.With().Str("component", "cron").Logger()
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.PrintfLogger(&l)))

	return &CronScheduler{
		cron:      c,
		reminders: reminders,
	}
}

// Start schedule в формате с секундами, например "0 0 * * * *"
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() { s.runReminder(ctx) })
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *CronScheduler) runReminder(ctx context.Context) {
	log := logger.WithFields(map[string]interface{}{"component": "cron", "job": "approval_reminder"})

	n, err := s.reminders.SendPendingApprovalReminder(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Approval reminder failed")
		return
	}
	log.Debug().Int("pending", n).Msg("Approval reminder job completed")
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
