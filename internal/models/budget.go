package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CycleType determines how a budget's end date is derived
type CycleType string

const (
	CycleMonthly CycleType = "monthly"
	CycleWeekly  CycleType = "weekly"
	CycleCustom  CycleType = "custom"
)

// IsValid reports whether t is a supported cycle type.
func (t CycleType) IsValid() bool {
	switch t {
	case CycleMonthly, CycleWeekly, CycleCustom:
		return true
	}
	return false
}

// CategoryAllocation earmarks part of a budget for one category.
type CategoryAllocation struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Budget represents a date-bounded spending plan
type Budget struct {
	Base
	UserID              string               `gorm:"type:uuid;not null;index" json:"userId"`
	Name                string               `gorm:"size:100;not null" json:"name"`
	OverallAmount       decimal.Decimal      `gorm:"type:numeric(14,2);not null" json:"overallAmount"`
	CycleType           CycleType            `gorm:"size:16;not null" json:"cycleType"`
	StartDate           time.Time            `gorm:"not null;index" json:"startDate"`
	EndDate             time.Time            `gorm:"not null" json:"endDate"`
	CategoryAllocations []CategoryAllocation `gorm:"type:jsonb;serializer:json" json:"categoryAllocations"`
}

// AllocationSpend is an allocation together with what has been spent
// against it.
type AllocationSpend struct {
	Category  Category        `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// BudgetWithSpend is the read model returned for a single budget.
type BudgetWithSpend struct {
	Budget
	CategoryAllocations []AllocationSpend `json:"categoryAllocations"`
	TotalSpentOverall   decimal.Decimal   `json:"totalSpentOverall"`
}
