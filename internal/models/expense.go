package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spending record
type Expense struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;index:idx_expenses_user_date" json:"userId"`
	Name     string          `gorm:"size:100;not null" json:"name"`
	Category Category        `gorm:"size:32;not null" json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date     time.Time       `gorm:"not null;index:idx_expenses_user_date" json:"date"`
	Icon     string          `json:"icon,omitempty"`
}

// Forecast is the month-to-date spending projection.
type Forecast struct {
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	AverageDaily     decimal.Decimal `json:"averageDaily"`
	DaysSoFar        int             `json:"daysSoFar"`
	TotalDaysInMonth int             `json:"totalDaysInMonth"`
	Forecast         decimal.Decimal `json:"forecast"`
}
