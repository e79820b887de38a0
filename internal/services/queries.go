package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

// clock returns the current time in UTC. Services keep it as a field so
// tests can pin "now".
func clock() time.Time {
	return time.Now().UTC()
}

// checkID rejects identifiers that could never match a record.
func checkID(id string) error {
	if !uuid.IsValid(id) {
		return apperrors.ErrInvalidReference
	}
	return nil
}

// spendFilter selects the expenses that contribute to a spending total.
type spendFilter struct {
	UserID   string
	From     time.Time
	To       time.Time
	Category *models.Category
}

func (f spendFilter) apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Expense{}).
		Where("user_id = ? AND date >= ? AND date <= ?", f.UserID, f.From, f.To)
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	return q
}

// sumExpenses returns the total amount of the expenses matching f.
func sumExpenses(db *gorm.DB, f spendFilter) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := f.apply(db).Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}
