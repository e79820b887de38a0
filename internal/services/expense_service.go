package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/budgetrules"
	"fintrack/internal/cycle"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// expenseService handles expense records and the reports derived from them.
type expenseService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db, now: clock}
}

// AddExpense validates and records a new expense. A missing date defaults to now.
func (s *expenseService) AddExpense(userID string, in ExpenseInput) (*models.Expense, error) {
	var msgs []string

	name := strings.TrimSpace(in.Name)
	if name == "" {
		msgs = append(msgs, "Expense name is required.")
	} else if len([]rune(name)) > budgetrules.MaxNameLength {
		msgs = append(msgs, fmt.Sprintf("Expense name cannot be more than %d characters.", budgetrules.MaxNameLength))
	}
	if in.Category == "" {
		msgs = append(msgs, "Category is required.")
	} else if !in.Category.IsValid() {
		msgs = append(msgs, fmt.Sprintf("Invalid category: %s.", in.Category))
	}
	if in.Amount == nil || !in.Amount.IsPositive() {
		msgs = append(msgs, "Amount must be a positive number.")
	} else if !budgetrules.HasCents(*in.Amount) {
		msgs = append(msgs, "Amount cannot have more than 2 decimal places.")
	}
	if len(msgs) > 0 {
		return nil, apperrors.Validation(msgs...)
	}

	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}

	expense := &models.Expense{
		UserID:   userID,
		Name:     name,
		Category: in.Category,
		Amount:   *in.Amount,
		Date:     date,
		Icon:     in.Icon,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// ListExpenses returns the user's expenses, most recent first.
func (s *expenseService) ListExpenses(userID string) ([]models.Expense, error) {
	expenses := make([]models.Expense, 0)
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC").Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// DeleteExpense removes one of the user's expenses.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	if err := checkID(expenseID); err != nil {
		return err
	}

	res := s.db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// CategorySpendingLast30Days sums spending per category from midnight thirty
// days ago until now. Categories without spending are omitted.
func (s *expenseService) CategorySpendingLast30Days(userID string) (map[models.Category]decimal.Decimal, error) {
	now := s.now()
	window := spendFilter{
		UserID: userID,
		From:   cycle.StartOfDay(now.AddDate(0, 0, -30)),
		To:     now,
	}

	rows, err := window.apply(s.db).
		Select("category, COALESCE(SUM(amount), 0)").
		Group("category").
		Rows()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer rows.Close()

	spending := make(map[models.Category]decimal.Decimal)
	for rows.Next() {
		var (
			category models.Category
			total    decimal.Decimal
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if total.IsZero() {
			continue
		}
		spending[category] = total.Round(2)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spending, nil
}

// ForecastMonthlySpending projects this month's spending from the average
// daily spend so far.
func (s *expenseService) ForecastMonthlySpending(userID string) (*models.Forecast, error) {
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	total, err := sumExpenses(s.db, spendFilter{UserID: userID, From: startOfMonth, To: now})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	daysSoFar := now.Day()
	daysInMonth := cycle.DaysInMonth(now)

	averageDaily := decimal.Zero
	if daysSoFar > 0 {
		averageDaily = total.Div(decimal.NewFromInt(int64(daysSoFar)))
	}
	forecast := averageDaily.Mul(decimal.NewFromInt(int64(daysInMonth)))

	return &models.Forecast{
		TotalSpent:       total,
		AverageDaily:     averageDaily.Round(2),
		DaysSoFar:        daysSoFar,
		TotalDaysInMonth: daysInMonth,
		Forecast:         forecast.Round(2),
	}, nil
}
