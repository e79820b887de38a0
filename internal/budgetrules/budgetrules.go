// Package budgetrules holds the invariants a budget must satisfy before it is
// persisted. The checks are independent of the storage engine.
package budgetrules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// MaxNameLength bounds budget, expense and subscription names.
const MaxNameLength = 100

// AmountScale is the number of decimal places stored for money columns.
const AmountScale = 2

// HasCents reports whether d fits the numeric(14,2) money columns without
// rounding. Allocation amounts live in a JSON column and are exempt.
func HasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(AmountScale))
}

// Budget checks the full set of budget invariants and reports every violation
// in a single INVALID_INPUT error.
func Budget(b *models.Budget) error {
	var msgs []string

	name := strings.TrimSpace(b.Name)
	if name == "" {
		msgs = append(msgs, "Budget name is required.")
	} else if len([]rune(name)) > MaxNameLength {
		msgs = append(msgs, fmt.Sprintf("Budget name cannot be more than %d characters.", MaxNameLength))
	}
	if !b.OverallAmount.IsPositive() {
		msgs = append(msgs, "Overall budget amount must be greater than 0.")
	} else if !HasCents(b.OverallAmount) {
		msgs = append(msgs, "Overall budget amount cannot have more than 2 decimal places.")
	}
	if !b.CycleType.IsValid() {
		msgs = append(msgs, "Invalid cycle type.")
	}
	if b.EndDate.Before(b.StartDate) {
		msgs = append(msgs, "End date cannot be before start date.")
	}
	msgs = append(msgs, allocationMessages(b.OverallAmount, b.CategoryAllocations)...)

	if len(msgs) > 0 {
		return apperrors.Validation(msgs...)
	}
	return nil
}

func allocationMessages(overall decimal.Decimal, allocations []models.CategoryAllocation) []string {
	var msgs []string
	seen := make(map[models.Category]bool, len(allocations))
	total := decimal.Zero

	for _, a := range allocations {
		if !a.Category.IsValid() {
			msgs = append(msgs, fmt.Sprintf("Invalid category '%s'.", a.Category))
		}
		if seen[a.Category] {
			msgs = append(msgs, fmt.Sprintf("Duplicate category '%s' in allocations.", a.Category))
		}
		seen[a.Category] = true

		if !a.Amount.IsPositive() {
			msgs = append(msgs, fmt.Sprintf("Allocation amount for '%s' must be greater than 0.", a.Category))
		}
		total = total.Add(a.Amount)
	}

	if total.GreaterThan(overall.Add(models.AllocationEpsilon)) {
		msgs = append(msgs, fmt.Sprintf("Sum of category allocations (%s) cannot exceed overall budget amount (%s).",
			total.StringFixed(2), overall.StringFixed(2)))
	}
	return msgs
}
