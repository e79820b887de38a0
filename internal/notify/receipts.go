package notify

import (
	"context"
	"fmt"

	"fintrack/internal/events"
	"fintrack/internal/models"
)

// UserFinder looks up the owner of an event.
type UserFinder interface {
	GetUserByID(id string) (*models.User, error)
}

// ReceiptSender emails payment receipts for subscription.paid events.
type ReceiptSender struct {
	users  UserFinder
	mailer Mailer
}

// NewReceiptSender creates a ReceiptSender.
func NewReceiptSender(users UserFinder, mailer Mailer) *ReceiptSender {
	return &ReceiptSender{users: users, mailer: mailer}
}

// HandleSubscriptionPaid sends the receipt for event to its owner.
func (r *ReceiptSender) HandleSubscriptionPaid(ctx context.Context, event *events.SubscriptionPaid) error {
	user, err := r.users.GetUserByID(event.UserID)
	if err != nil {
		return fmt.Errorf("loading user %s: %w", event.UserID, err)
	}

	msg := PaymentReceipt(user.Email, user.FullName, event.SubscriptionName,
		event.Amount, event.PaidFor, event.NextBillingDate)
	return r.mailer.Send(ctx, msg)
}
