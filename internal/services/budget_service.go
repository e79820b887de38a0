package services

import (
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"fintrack/internal/budgetrules"
	"fintrack/internal/cycle"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget validates the input, resolves the period end date and
// persists a new budget.
func (s *budgetService) CreateBudget(userID string, in BudgetInput) (*models.Budget, error) {
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "Budget name is required.")
	}
	if in.OverallAmount == nil {
		missing = append(missing, "Overall budget amount is required.")
	}
	if in.CycleType == nil || *in.CycleType == "" {
		missing = append(missing, "Cycle type is required.")
	}
	if in.StartDate == nil || in.StartDate.IsZero() {
		missing = append(missing, "Start date is required.")
	}
	if len(missing) > 0 {
		return nil, apperrors.Validation(missing...)
	}

	endDate, err := cycle.ResolveEndDate(*in.StartDate, *in.CycleType, in.EndDate)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:              userID,
		Name:                strings.TrimSpace(*in.Name),
		OverallAmount:       *in.OverallAmount,
		CycleType:           *in.CycleType,
		StartDate:           in.StartDate.UTC(),
		EndDate:             endDate.UTC(),
		CategoryAllocations: []models.CategoryAllocation{},
	}
	if in.CategoryAllocations != nil {
		budget.CategoryAllocations = copyAllocations(*in.CategoryAllocations)
	}

	if err := budgetrules.Budget(budget); err != nil {
		return nil, err
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// ListBudgets returns every budget of the user, newest period first.
func (s *budgetService) ListBudgets(userID string) ([]models.Budget, error) {
	budgets := make([]models.Budget, 0)
	if err := s.db.Where("user_id = ?", userID).
		Order("start_date DESC").Order("name ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// getBudget fetches a budget owned by the user.
func (s *budgetService) getBudget(userID, budgetID string) (*models.Budget, error) {
	if err := checkID(budgetID); err != nil {
		return nil, err
	}

	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetWithSpend returns a budget with the total spent in its period and
// the spent/remaining figures for each allocation. The overall sum and the
// per-category sums are computed concurrently.
func (s *budgetService) GetBudgetWithSpend(userID, budgetID string) (*models.BudgetWithSpend, error) {
	budget, err := s.getBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	window := spendFilter{
		UserID: userID,
		From:   cycle.StartOfDay(budget.StartDate),
		To:     cycle.EndOfDay(budget.EndDate),
	}

	result := &models.BudgetWithSpend{
		Budget:              *budget,
		CategoryAllocations: make([]models.AllocationSpend, len(budget.CategoryAllocations)),
	}

	var g errgroup.Group
	g.Go(func() error {
		total, err := sumExpenses(s.db, window)
		if err != nil {
			return err
		}
		result.TotalSpentOverall = total
		return nil
	})
	for i, alloc := range budget.CategoryAllocations {
		i, alloc := i, alloc
		g.Go(func() error {
			filter := window
			filter.Category = &alloc.Category
			spent, err := sumExpenses(s.db, filter)
			if err != nil {
				return err
			}
			result.CategoryAllocations[i] = models.AllocationSpend{
				Category:  alloc.Category,
				Amount:    alloc.Amount,
				Spent:     spent,
				Remaining: alloc.Amount.Sub(spent),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return result, nil
}

// UpdateBudget applies the fields present in the input. The end date is
// recomputed whenever the start date or cycle type changes, or when a custom
// budget receives a new end date; the stored end date is the custom fallback.
func (s *budgetService) UpdateBudget(userID, budgetID string, in BudgetInput) (*models.Budget, error) {
	budget, err := s.getBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		budget.Name = strings.TrimSpace(*in.Name)
	}
	if in.OverallAmount != nil {
		budget.OverallAmount = *in.OverallAmount
	}

	startDate := budget.StartDate
	if in.StartDate != nil {
		startDate = in.StartDate.UTC()
	}
	cycleType := budget.CycleType
	if in.CycleType != nil {
		cycleType = *in.CycleType
	}

	if in.StartDate != nil || in.CycleType != nil || (cycleType == models.CycleCustom && in.EndDate != nil) {
		customEnd := budget.EndDate
		if in.EndDate != nil {
			customEnd = *in.EndDate
		}
		endDate, err := cycle.ResolveEndDate(startDate, cycleType, &customEnd)
		if err != nil {
			return nil, err
		}
		budget.EndDate = endDate.UTC()
	}
	budget.StartDate = startDate
	budget.CycleType = cycleType

	if in.CategoryAllocations != nil {
		budget.CategoryAllocations = copyAllocations(*in.CategoryAllocations)
	}

	if err := budgetrules.Budget(budget); err != nil {
		return nil, err
	}

	if err := s.db.Save(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget removes a budget. Expenses recorded in its period are kept.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	if err := checkID(budgetID); err != nil {
		return err
	}

	res := s.db.Where("id = ? AND user_id = ?", budgetID, userID).Delete(&models.Budget{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// copyAllocations returns a fresh, non-nil slice so that a stored budget never
// shares its allocations with the caller.
func copyAllocations(in []models.CategoryAllocation) []models.CategoryAllocation {
	out := make([]models.CategoryAllocation, len(in))
	copy(out, in)
	return out
}
