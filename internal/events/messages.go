// Package events publishes and consumes domain events over RabbitMQ.
package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// TypeSubscriptionPaid is the routing key and type of SubscriptionPaid.
const TypeSubscriptionPaid = "subscription.paid"

// SubscriptionPaid is emitted after a subscription payment has been recorded.
type SubscriptionPaid struct {
	SubscriptionID   string          `json:"subscriptionId"`
	SubscriptionName string          `json:"subscriptionName"`
	UserID           string          `json:"userId"`
	ExpenseID        string          `json:"expenseId"`
	Amount           decimal.Decimal `json:"amount"`
	PaidFor          time.Time       `json:"paidFor"`
	NextBillingDate  time.Time       `json:"nextBillingDate"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

// NewSubscriptionPaid builds the event for a completed payment.
func NewSubscriptionPaid(result *models.PaymentResult) *SubscriptionPaid {
	return &SubscriptionPaid{
		SubscriptionID:   result.Subscription.ID,
		SubscriptionName: result.Subscription.Name,
		UserID:           result.Subscription.UserID,
		ExpenseID:        result.Expense.ID,
		Amount:           result.Expense.Amount,
		PaidFor:          result.Expense.Date,
		NextBillingDate:  result.Subscription.NextBillingDate,
		OccurredAt:       time.Now().UTC(),
	}
}

// ToJSON encodes the event.
func (e *SubscriptionPaid) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// SubscriptionPaidFromJSON decodes an event body.
func SubscriptionPaidFromJSON(data []byte) (*SubscriptionPaid, error) {
	var msg SubscriptionPaid
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
