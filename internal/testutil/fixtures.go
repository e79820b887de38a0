package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		FullName: "Test User",
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense creates an expense in the given category.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, category models.Category, amount string, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Expense %d", nextID()),
		Category: category,
		Amount:   Dec(amount),
		Date:     date.UTC(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates a custom-cycle budget covering [start, end].
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, overall string, start, end time.Time, allocations ...models.CategoryAllocation) *models.Budget {
	t.Helper()

	if allocations == nil {
		allocations = []models.CategoryAllocation{}
	}
	budget := &models.Budget{
		UserID:              userID,
		Name:                fmt.Sprintf("Test Budget %d", nextID()),
		OverallAmount:       Dec(overall),
		CycleType:           models.CycleCustom,
		StartDate:           start.UTC(),
		EndDate:             end.UTC(),
		CategoryAllocations: allocations,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestSubscription creates a subscription due on nextBilling.
func CreateTestSubscription(t *testing.T, db *gorm.DB, userID string, amount string, nextBilling time.Time) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		UserID:          userID,
		Name:            fmt.Sprintf("Test Subscription %d", nextID()),
		Amount:          Dec(amount),
		StartDate:       nextBilling.UTC(),
		NextBillingDate: nextBilling.UTC(),
		Icon:            "🎬",
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}
