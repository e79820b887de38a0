// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"fintrack/internal/logger"
	"fintrack/internal/metrics"
	"fintrack/internal/notify"
	"fintrack/internal/services"
)

// ReminderSource lists subscriptions that need a billing reminder and records
// sent reminders.
type ReminderSource interface {
	ListDueForReminder(within time.Duration) ([]services.DueReminder, error)
	MarkReminded(subscriptionID string, billingDate time.Time) error
}

// ReminderScheduler emails owners of subscriptions that bill soon.
type ReminderScheduler struct {
	cronEngine *cron.Cron
	source     ReminderSource
	mailer     notify.Mailer
	spec       string
	daysAhead  int
	log        *zap.SugaredLogger
}

// NewReminderScheduler creates a scheduler that runs on the cron spec and
// reminds about billing dates up to daysAhead days away.
func NewReminderScheduler(source ReminderSource, mailer notify.Mailer, spec string, daysAhead int) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine: cron.New(cron.WithLocation(time.UTC)),
		source:     source,
		mailer:     mailer,
		spec:       spec,
		daysAhead:  daysAhead,
		log:        logger.Named("scheduler"),
	}
}

// Start registers the reminder job and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.spec, func() {
		sent, failed, err := s.RunReminders(context.Background())
		if err != nil {
			s.log.Errorw("Reminder job failed", "error", err)
			return
		}
		s.log.Infow("Reminder job finished", "sent", sent, "failed", failed)
	})
	if err != nil {
		return fmt.Errorf("adding reminder job %q: %w", s.spec, err)
	}

	s.cronEngine.Start()
	s.log.Infow("Reminder scheduler started", "spec", s.spec, "days_ahead", s.daysAhead)
	return nil
}

// Stop stops the cron engine and waits for a running job to finish.
func (s *ReminderScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("Reminder scheduler stopped")
}

// RunReminders sends one reminder per due subscription. A failed email is
// logged and left unmarked so the next run retries it.
func (s *ReminderScheduler) RunReminders(ctx context.Context) (sent, failed int, err error) {
	due, err := s.source.ListDueForReminder(time.Duration(s.daysAhead) * 24 * time.Hour)
	if err != nil {
		return 0, 0, err
	}

	for _, r := range due {
		if ctx.Err() != nil {
			return sent, failed, ctx.Err()
		}

		msg := notify.SubscriptionReminder(r.User.Email, r.User.FullName,
			r.Subscription.Name, r.Subscription.Amount, r.Subscription.NextBillingDate)
		if err := s.mailer.Send(ctx, msg); err != nil {
			failed++
			metrics.RemindersSent.WithLabelValues("failed").Inc()
			s.log.Warnw("Failed to send reminder",
				"subscription_id", r.Subscription.ID,
				"error", err,
			)
			continue
		}

		if err := s.source.MarkReminded(r.Subscription.ID, r.Subscription.NextBillingDate); err != nil {
			s.log.Errorw("Failed to mark reminder as sent",
				"subscription_id", r.Subscription.ID,
				"error", err,
			)
		}
		sent++
		metrics.RemindersSent.WithLabelValues("sent").Inc()
	}
	return sent, failed, nil
}
