package services

import (
	"reflect"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func newSubscriptionServiceAt(t *testing.T, now time.Time) (*subscriptionService, *models.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := &subscriptionService{db: db, now: func() time.Time { return now }}
	return svc, testutil.CreateTestUser(t, db)
}

func TestAddSubscription(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())

		sub, err := svc.AddSubscription(user.ID, SubscriptionInput{
			Name:            " Netflix ",
			Amount:          decPtr("15.49"),
			StartDate:       timePtr(testutil.Date(2024, 1, 5)),
			NextBillingDate: timePtr(testutil.Date(2024, 3, 5)),
			Icon:            "🎬",
		})
		testutil.AssertNoError(t, err)

		if sub.Name != "Netflix" || sub.Icon != "🎬" {
			t.Errorf("unexpected subscription %+v", sub)
		}
	})

	t.Run("rejects_invalid_fields", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())

		_, err := svc.AddSubscription(user.ID, SubscriptionInput{Name: " ", Amount: decPtr("0")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		want := "Subscription name is required. A valid positive amount is required. Invalid startDate provided. Invalid nextBillingDate provided."
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})

	t.Run("rejects_sub_cent_amount", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())

		_, err := svc.AddSubscription(user.ID, SubscriptionInput{
			Name:            "Cloud",
			Amount:          decPtr("9.999"),
			StartDate:       timePtr(testutil.Date(2024, 1, 5)),
			NextBillingDate: timePtr(testutil.Date(2024, 3, 5)),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		if err.Error() != "Amount cannot have more than 2 decimal places." {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestListSubscriptions(t *testing.T) {
	t.Run("orders_by_next_billing_then_name", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())

		for _, tc := range []struct {
			name string
			next time.Time
		}{
			{"Spotify", testutil.Date(2024, 3, 10)},
			{"Netflix", testutil.Date(2024, 3, 5)},
			{"Gym", testutil.Date(2024, 3, 10)},
		} {
			_, err := svc.AddSubscription(user.ID, SubscriptionInput{
				Name: tc.name, Amount: decPtr("1"), StartDate: timePtr(tc.next), NextBillingDate: timePtr(tc.next),
			})
			testutil.AssertNoError(t, err)
		}

		first, err := svc.ListSubscriptions(user.ID)
		testutil.AssertNoError(t, err)
		second, err := svc.ListSubscriptions(user.ID)
		testutil.AssertNoError(t, err)

		var names []string
		for _, s := range first {
			names = append(names, s.Name)
		}
		if want := []string{"Netflix", "Gym", "Spotify"}; !reflect.DeepEqual(names, want) {
			t.Errorf("expected %v, got %v", want, names)
		}
		if len(first) != len(second) {
			t.Fatalf("expected repeated reads to match")
		}
		for i := range first {
			if first[i].ID != second[i].ID || !first[i].NextBillingDate.Equal(second[i].NextBillingDate) {
				t.Errorf("expected repeated reads to match at %d", i)
			}
		}
	})
}

func TestDeleteSubscription(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())
		sub := testutil.CreateTestSubscription(t, svc.db, user.ID, "5", testutil.Date(2024, 3, 5))

		testutil.AssertNoError(t, svc.DeleteSubscription(user.ID, sub.ID))
		testutil.AssertAppError(t, svc.DeleteSubscription(user.ID, sub.ID), "SUBSCRIPTION_NOT_FOUND")
	})

	t.Run("malformed_id", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())
		testutil.AssertAppError(t, svc.DeleteSubscription(user.ID, "x"), "INVALID_REFERENCE")
	})
}

func TestPaySubscription(t *testing.T) {
	t.Run("records_expense_and_advances_date", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())
		sub := testutil.CreateTestSubscription(t, svc.db, user.ID, "9.99", testutil.Date(2024, 3, 5))

		result, err := svc.PaySubscription(user.ID, sub.ID)
		testutil.AssertNoError(t, err)

		want := "Subscription '" + sub.Name + "' paid and expense recorded. Next billing: 2024-04-05"
		if result.Message != want {
			t.Errorf("expected message %q, got %q", want, result.Message)
		}
		if !result.Subscription.NextBillingDate.Equal(testutil.Date(2024, 4, 5)) {
			t.Errorf("expected next billing 2024-04-05, got %s", result.Subscription.NextBillingDate)
		}

		var expenses []models.Expense
		if err := svc.db.Where("user_id = ?", user.ID).Find(&expenses).Error; err != nil {
			t.Fatalf("failed to load expenses: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("expected exactly one expense, got %d", len(expenses))
		}
		e := expenses[0]
		if !e.Amount.Equal(testutil.Dec("9.99")) || e.Category != models.CategorySubscription {
			t.Errorf("unexpected expense %+v", e)
		}
		if !e.Date.Equal(testutil.Date(2024, 3, 5)) {
			t.Errorf("expected expense dated 2024-03-05, got %s", e.Date)
		}
		if e.Name != sub.Name || e.Icon != sub.Icon || e.ID != result.Expense.ID {
			t.Errorf("expense does not mirror subscription: %+v", e)
		}

		var stored models.Subscription
		if err := svc.db.First(&stored, "id = ?", sub.ID).Error; err != nil {
			t.Fatalf("failed to reload subscription: %v", err)
		}
		if !stored.NextBillingDate.Equal(testutil.Date(2024, 4, 5)) {
			t.Errorf("expected persisted next billing 2024-04-05, got %s", stored.NextBillingDate)
		}
	})

	t.Run("month_end_overflows_into_march", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())
		sub := testutil.CreateTestSubscription(t, svc.db, user.ID, "5", testutil.Date(2024, 1, 31))

		result, err := svc.PaySubscription(user.ID, sub.ID)
		testutil.AssertNoError(t, err)

		if !result.Subscription.NextBillingDate.Equal(testutil.Date(2024, 3, 2)) {
			t.Errorf("expected overflow to 2024-03-02, got %s", result.Subscription.NextBillingDate)
		}
	})

	t.Run("not_found_writes_nothing", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())
		other := testutil.CreateTestUser(t, svc.db)
		sub := testutil.CreateTestSubscription(t, svc.db, other.ID, "5", testutil.Date(2024, 3, 5))

		_, err := svc.PaySubscription(user.ID, sub.ID)
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")

		var count int64
		svc.db.Model(&models.Expense{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no expenses, got %d", count)
		}
	})

	t.Run("rolls_back_expense_when_update_fails", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, time.Now())
		sub := testutil.CreateTestSubscription(t, svc.db, user.ID, "5", testutil.Date(2024, 3, 5))

		if err := svc.db.Exec(`CREATE TRIGGER block_sub_update BEFORE UPDATE ON subscriptions
			BEGIN SELECT RAISE(ABORT, 'blocked'); END`).Error; err != nil {
			t.Fatalf("failed to create trigger: %v", err)
		}

		_, err := svc.PaySubscription(user.ID, sub.ID)
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")

		var count int64
		svc.db.Model(&models.Expense{}).Count(&count)
		if count != 0 {
			t.Errorf("expected expense insert to be rolled back, found %d", count)
		}
	})
}

func TestListDueForReminder(t *testing.T) {
	now := time.Date(2024, 3, 3, 8, 0, 0, 0, time.UTC)

	t.Run("selects_upcoming_unreminded", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, now)
		soon := testutil.CreateTestSubscription(t, svc.db, user.ID, "5", testutil.Date(2024, 3, 5))
		testutil.CreateTestSubscription(t, svc.db, user.ID, "5", testutil.Date(2024, 3, 20))
		reminded := testutil.CreateTestSubscription(t, svc.db, user.ID, "5", testutil.Date(2024, 3, 4))
		testutil.AssertNoError(t, svc.MarkReminded(reminded.ID, reminded.NextBillingDate))

		due, err := svc.ListDueForReminder(3 * 24 * time.Hour)
		testutil.AssertNoError(t, err)

		if len(due) != 1 {
			t.Fatalf("expected 1 due subscription, got %d", len(due))
		}
		if due[0].Subscription.ID != soon.ID || due[0].User.Email != user.Email {
			t.Errorf("unexpected reminder %+v", due[0])
		}
	})

	t.Run("reminds_again_after_payment", func(t *testing.T) {
		svc, user := newSubscriptionServiceAt(t, now)
		sub := testutil.CreateTestSubscription(t, svc.db, user.ID, "5", testutil.Date(2024, 3, 4))
		testutil.AssertNoError(t, svc.MarkReminded(sub.ID, sub.NextBillingDate))

		// A later billing date no longer matches the reminded one.
		if err := svc.db.Model(&models.Subscription{}).Where("id = ?", sub.ID).
			Update("next_billing_date", testutil.Date(2024, 3, 5)).Error; err != nil {
			t.Fatalf("failed to move billing date: %v", err)
		}

		due, err := svc.ListDueForReminder(3 * 24 * time.Hour)
		testutil.AssertNoError(t, err)
		if len(due) != 1 {
			t.Errorf("expected reminder for the new billing date, got %d", len(due))
		}
	})

	t.Run("mark_unknown", func(t *testing.T) {
		svc, _ := newSubscriptionServiceAt(t, now)
		testutil.AssertAppError(t, svc.MarkReminded("0190f1c2-7a3b-7c4d-8e5f-0123456789ab", now), "SUBSCRIPTION_NOT_FOUND")
	})
}
