package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(fullName, email, password, profileImageURL string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	CreatePasswordResetToken(email string) (*models.User, string, error)
	ResetPassword(token, newPassword string) (*models.User, error)
}

// BudgetInput carries the fields of a budget create or update request.
// A nil field is treated as absent.
type BudgetInput struct {
	Name                *string
	OverallAmount       *decimal.Decimal
	CycleType           *models.CycleType
	StartDate           *time.Time
	EndDate             *time.Time
	CategoryAllocations *[]models.CategoryAllocation
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, input BudgetInput) (*models.Budget, error)
	ListBudgets(userID string) ([]models.Budget, error)
	GetBudgetWithSpend(userID, budgetID string) (*models.BudgetWithSpend, error)
	UpdateBudget(userID, budgetID string, input BudgetInput) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
}

// ExpenseInput carries the fields of a new expense.
type ExpenseInput struct {
	Name     string
	Category models.Category
	Amount   *decimal.Decimal
	Date     *time.Time
	Icon     string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	AddExpense(userID string, input ExpenseInput) (*models.Expense, error)
	ListExpenses(userID string) ([]models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	CategorySpendingLast30Days(userID string) (map[models.Category]decimal.Decimal, error)
	ForecastMonthlySpending(userID string) (*models.Forecast, error)
}

// SubscriptionInput carries the fields of a new subscription.
type SubscriptionInput struct {
	Name            string
	Amount          *decimal.Decimal
	StartDate       *time.Time
	NextBillingDate *time.Time
	Icon            string
}

// DueReminder pairs a subscription that is about to bill with its owner.
type DueReminder struct {
	Subscription models.Subscription
	User         models.User
}

// SubscriptionServicer defines the contract for subscription-related business logic.
type SubscriptionServicer interface {
	AddSubscription(userID string, input SubscriptionInput) (*models.Subscription, error)
	ListSubscriptions(userID string) ([]models.Subscription, error)
	DeleteSubscription(userID, subscriptionID string) error
	PaySubscription(userID, subscriptionID string) (*models.PaymentResult, error)
	ListDueForReminder(within time.Duration) ([]DueReminder, error)
	MarkReminded(subscriptionID string, billingDate time.Time) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	ListActivity(userID string, page pagination.PageRequest) ([]models.AuditLog, int64, error)
}
