package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

const testBudgetID = "0190a6b4-0000-7000-8000-0000000000bb"

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn       func(userID string, in services.BudgetInput) (*models.Budget, error)
	listBudgetsFn        func(userID string) ([]models.Budget, error)
	getBudgetWithSpendFn func(userID, budgetID string) (*models.BudgetWithSpend, error)
	updateBudgetFn       func(userID, budgetID string, in services.BudgetInput) (*models.Budget, error)
	deleteBudgetFn       func(userID, budgetID string) error
}

func (m *mockBudgetService) CreateBudget(userID string, in services.BudgetInput) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, in)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) ListBudgets(userID string) ([]models.Budget, error) {
	if m.listBudgetsFn != nil {
		return m.listBudgetsFn(userID)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetWithSpend(userID, budgetID string) (*models.BudgetWithSpend, error) {
	if m.getBudgetWithSpendFn != nil {
		return m.getBudgetWithSpendFn(userID, budgetID)
	}
	return &models.BudgetWithSpend{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID string, in services.BudgetInput) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, in)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.GET("/budgets/category-spending-last-30-days", handler.GetCategorySpendingLast30Days)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.BudgetInput
		svc := &mockBudgetService{
			createBudgetFn: func(userID string, in services.BudgetInput) (*models.Budget, error) {
				got = in
				return &models.Budget{
					Base:          models.Base{ID: testBudgetID},
					UserID:        userID,
					Name:          *in.Name,
					OverallAmount: *in.OverallAmount,
					CycleType:     *in.CycleType,
					StartDate:     *in.StartDate,
					EndDate:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockExpenseService{}))

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"January","overallAmount":1000,"cycleType":"monthly","startDate":"2024-01-01",
			  "categoryAllocations":[{"category":"Groceries","amount":"300.50"}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected parsed start date, got %v", got.StartDate)
		}
		if got.EndDate != nil {
			t.Errorf("expected no end date, got %v", got.EndDate)
		}
		if got.CategoryAllocations == nil || len(*got.CategoryAllocations) != 1 ||
			!(*got.CategoryAllocations)[0].Amount.Equal(decimal.RequireFromString("300.5")) {
			t.Errorf("unexpected allocations %+v", got.CategoryAllocations)
		}
		result := parseJSON(t, rec)
		if result["name"] != "January" || result["overallAmount"].(float64) != 1000 {
			t.Errorf("unexpected body %v", result)
		}
	})

	t.Run("returns 400 on invalid cycle type", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockExpenseService{}))

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Jan","overallAmount":100,"cycleType":"yearly","startDate":"2024-01-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unparsable date", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockExpenseService{}))

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Jan","overallAmount":100,"cycleType":"monthly","startDate":"01/01/2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if msg := parseJSON(t, rec)["message"]; msg != "Invalid startDate provided." {
			t.Errorf("unexpected message %v", msg)
		}
	})

	t.Run("passes service validation errors through", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(string, services.BudgetInput) (*models.Budget, error) {
				return nil, apperrors.Validation("Budget name is required.", "Start date is required.")
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockExpenseService{}))

		rec := doRequest(r, "POST", "/budgets", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if msg := parseJSON(t, rec)["message"]; msg != "Budget name is required. Start date is required." {
			t.Errorf("unexpected message %v", msg)
		}
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	t.Run("returns 200 with an empty array", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockExpenseService{}))

		rec := doRequest(r, "GET", "/budgets", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := parseJSONArray(t, rec); len(got) != 0 {
			t.Errorf("expected empty array, got %v", got)
		}
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns budget with spend", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetWithSpendFn: func(_, budgetID string) (*models.BudgetWithSpend, error) {
				return &models.BudgetWithSpend{
					Budget: models.Budget{Base: models.Base{ID: budgetID}, Name: "Jan"},
					CategoryAllocations: []models.AllocationSpend{{
						Category:  models.CategoryGroceries,
						Amount:    decimal.NewFromInt(300),
						Spent:     decimal.NewFromInt(120),
						Remaining: decimal.NewFromInt(180),
					}},
					TotalSpentOverall: decimal.NewFromInt(120),
				}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockExpenseService{}))

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["totalSpentOverall"].(float64) != 120 {
			t.Errorf("unexpected total %v", result["totalSpentOverall"])
		}
		alloc := result["categoryAllocations"].([]interface{})[0].(map[string]interface{})
		if alloc["remaining"].(float64) != 180 {
			t.Errorf("unexpected allocation %v", alloc)
		}
	})

	t.Run("returns 400 on malformed id without calling the service", func(t *testing.T) {
		called := false
		svc := &mockBudgetService{
			getBudgetWithSpendFn: func(_, _ string) (*models.BudgetWithSpend, error) {
				called = true
				return nil, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockExpenseService{}))

		rec := doRequest(r, "GET", "/budgets/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_REFERENCE")
		if called {
			t.Error("service must not be called for a malformed id")
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetWithSpendFn: func(_, _ string) (*models.BudgetWithSpend, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockExpenseService{}))

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var got services.BudgetInput
		svc := &mockBudgetService{
			updateBudgetFn: func(_, _ string, in services.BudgetInput) (*models.Budget, error) {
				got = in
				return &models.Budget{Name: "Renamed"}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockExpenseService{}))

		rec := doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"name":"Renamed"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name == nil || *got.Name != "Renamed" {
			t.Errorf("expected name, got %v", got.Name)
		}
		if got.OverallAmount != nil || got.CycleType != nil || got.StartDate != nil || got.CategoryAllocations != nil {
			t.Errorf("expected absent fields to stay nil, got %+v", got)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(_, _ string, _ services.BudgetInput) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockExpenseService{}))

		rec := doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"name":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockExpenseService{}))

		rec := doRequest(r, "DELETE", "/budgets/"+testBudgetID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["message"] != "Budget deleted successfully." {
			t.Error("unexpected message")
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			deleteBudgetFn: func(_, _ string) error { return apperrors.ErrBudgetNotFound },
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockExpenseService{}))

		rec := doRequest(r, "DELETE", "/budgets/"+testBudgetID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetCategorySpendingLast30Days(t *testing.T) {
	svc := &mockExpenseService{
		categorySpendingFn: func(string) (map[models.Category]decimal.Decimal, error) {
			return map[models.Category]decimal.Decimal{models.CategoryGroceries: decimal.NewFromInt(50)}, nil
		},
	}
	r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, svc))

	rec := doRequest(r, "GET", "/budgets/category-spending-last-30-days", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if len(result) != 1 || result["Groceries"].(float64) != 50 {
		t.Errorf("expected {Groceries: 50}, got %v", result)
	}
}
