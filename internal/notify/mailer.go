// Package notify delivers transactional email over SMTP.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"

	"fintrack/internal/logger"
)

// Message is a plain-text email addressed to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends email messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	return &SMTPMailer{dialer: d, from: cfg.From}
}

// Send delivers msg. The SMTP client has no context support, so ctx is only
// checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	email := mail.NewMessage()
	email.SetHeader("From", m.from)
	email.SetHeader("To", msg.To)
	email.SetHeader("Subject", msg.Subject)
	email.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(email); err != nil {
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. It is used
// when SMTP is not configured.
type LogMailer struct {
	log *zap.SugaredLogger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{log: logger.Named("mail")}
}

// Send logs msg and always succeeds.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Infow("Mail delivery disabled, dropping message",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}

// PasswordReset builds the password reset email.
func PasswordReset(to, fullName, link string) Message {
	return Message{
		To:      to,
		Subject: "Password Reset Request",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou requested a password reset. Use the link below to choose a new password:\n\n%s\n\n"+
				"The link expires in one hour. If you did not request this, you can ignore this email.\n",
			fullName, link),
	}
}

// SubscriptionReminder builds the upcoming-billing reminder email.
func SubscriptionReminder(to, fullName, subscription string, amount decimal.Decimal, billingDate time.Time) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Upcoming payment: %s", subscription),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour subscription %s (%s) is due on %s.\n",
			fullName, subscription, amount.StringFixed(2), billingDate.Format("2006-01-02")),
	}
}

// PaymentReceipt builds the receipt sent after a subscription is paid.
func PaymentReceipt(to, fullName, subscription string, amount decimal.Decimal, paidFor, nextBilling time.Time) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Payment recorded: %s", subscription),
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe recorded a payment of %s for %s billed on %s.\nNext billing date: %s.\n",
			fullName, amount.StringFixed(2), subscription,
			paidFor.Format("2006-01-02"), nextBilling.Format("2006-01-02")),
	}
}
