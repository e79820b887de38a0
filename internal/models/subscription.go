package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a recurring monthly charge
type Subscription struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"userId"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	StartDate       time.Time       `gorm:"not null" json:"startDate"`
	NextBillingDate time.Time       `gorm:"not null;index" json:"nextBillingDate"`
	Icon            string          `json:"icon,omitempty"`
	LastReminderFor *time.Time      `json:"-"`
}

// PaymentResult is returned after a subscription has been paid.
type PaymentResult struct {
	Message      string        `json:"message"`
	Subscription *Subscription `json:"subscription"`
	Expense      *Expense      `json:"expense"`
}
