package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/events"
	"fintrack/internal/models"
)

type fakeUsers struct {
	user *models.User
	err  error
}

func (f *fakeUsers) GetUserByID(string) (*models.User, error) { return f.user, f.err }

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func paidEvent() *events.SubscriptionPaid {
	return &events.SubscriptionPaid{
		SubscriptionName: "Spotify",
		UserID:           "0190a6b4-0000-7000-8000-000000000001",
		Amount:           decimal.RequireFromString("11.99"),
		PaidFor:          time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		NextBillingDate:  time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestReceiptSender_HandleSubscriptionPaid(t *testing.T) {
	t.Run("mails_owner", func(t *testing.T) {
		mailer := &recordingMailer{}
		users := &fakeUsers{user: &models.User{FullName: "Jane", Email: "jane@example.com"}}

		if err := NewReceiptSender(users, mailer).HandleSubscriptionPaid(context.Background(), paidEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(mailer.sent) != 1 || mailer.sent[0].To != "jane@example.com" {
			t.Fatalf("unexpected messages %+v", mailer.sent)
		}
		if mailer.sent[0].Subject != "Payment recorded: Spotify" {
			t.Errorf("unexpected subject %q", mailer.sent[0].Subject)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		mailer := &recordingMailer{}
		users := &fakeUsers{err: errors.New("not found")}

		if err := NewReceiptSender(users, mailer).HandleSubscriptionPaid(context.Background(), paidEvent()); err == nil {
			t.Fatal("expected error")
		}
		if len(mailer.sent) != 0 {
			t.Error("expected no mail")
		}
	})

	t.Run("mail_failure_propagates", func(t *testing.T) {
		mailer := &recordingMailer{err: errors.New("smtp down")}
		users := &fakeUsers{user: &models.User{Email: "jane@example.com"}}

		if err := NewReceiptSender(users, mailer).HandleSubscriptionPaid(context.Background(), paidEvent()); err == nil {
			t.Fatal("expected error")
		}
	})
}
