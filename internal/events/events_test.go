package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/logger"
	"fintrack/internal/models"
)

func init() {
	logger.Init("test")
}

func samplePayment() *models.PaymentResult {
	sub := models.Subscription{
		UserID:          "0190a6b4-0000-7000-8000-000000000001",
		Name:            "Netflix",
		Amount:          decimal.RequireFromString("9.99"),
		NextBillingDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
	}
	sub.ID = "0190a6b4-0000-7000-8000-000000000002"
	exp := models.Expense{
		UserID: sub.UserID,
		Amount: sub.Amount,
		Date:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	exp.ID = "0190a6b4-0000-7000-8000-000000000003"
	return &models.PaymentResult{Subscription: &sub, Expense: &exp}
}

func TestSubscriptionPaid_RoundTrip(t *testing.T) {
	event := NewSubscriptionPaid(samplePayment())

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := SubscriptionPaidFromJSON(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.SubscriptionID != event.SubscriptionID || got.ExpenseID != event.ExpenseID || got.UserID != event.UserID {
		t.Errorf("ids not preserved: %+v", got)
	}
	if !got.Amount.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("expected amount 9.99, got %s", got.Amount)
	}
	if !got.PaidFor.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) ||
		!got.NextBillingDate.Equal(time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("dates not preserved: %+v", got)
	}
}

func TestSubscriptionPaidFromJSON_Invalid(t *testing.T) {
	if _, err := SubscriptionPaidFromJSON([]byte("{")); err == nil {
		t.Error("expected decode error")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.PublishSubscriptionPaid(context.Background(), NewSubscriptionPaid(samplePayment())); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecide(t *testing.T) {
	body, _ := NewSubscriptionPaid(samplePayment()).ToJSON()
	ok := func(context.Context, *SubscriptionPaid) error { return nil }
	fail := func(context.Context, *SubscriptionPaid) error { return errors.New("smtp down") }

	tests := []struct {
		name        string
		body        []byte
		redelivered bool
		handle      SubscriptionPaidHandler
		want        outcome
	}{
		{"handled_is_acked", body, false, ok, ack},
		{"bad_body_is_dropped", []byte("not json"), false, ok, drop},
		{"first_failure_is_requeued", body, false, fail, requeue},
		{"repeated_failure_is_dropped", body, true, fail, drop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decide(context.Background(), tt.body, tt.redelivered, tt.handle); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
