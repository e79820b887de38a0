package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/budgetrules"
	"fintrack/internal/cycle"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// subscriptionService handles recurring subscriptions and their billing.
type subscriptionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB) SubscriptionServicer {
	return &subscriptionService{db: db, now: clock}
}

// AddSubscription validates and stores a new subscription.
func (s *subscriptionService) AddSubscription(userID string, in SubscriptionInput) (*models.Subscription, error) {
	var msgs []string

	name := strings.TrimSpace(in.Name)
	if name == "" {
		msgs = append(msgs, "Subscription name is required.")
	}
	if in.Amount == nil || !in.Amount.IsPositive() {
		msgs = append(msgs, "A valid positive amount is required.")
	} else if !budgetrules.HasCents(*in.Amount) {
		msgs = append(msgs, "Amount cannot have more than 2 decimal places.")
	}
	if in.StartDate == nil || in.StartDate.IsZero() {
		msgs = append(msgs, "Invalid startDate provided.")
	}
	if in.NextBillingDate == nil || in.NextBillingDate.IsZero() {
		msgs = append(msgs, "Invalid nextBillingDate provided.")
	}
	if len(msgs) > 0 {
		return nil, apperrors.Validation(msgs...)
	}

	sub := &models.Subscription{
		UserID:          userID,
		Name:            name,
		Amount:          *in.Amount,
		StartDate:       in.StartDate.UTC(),
		NextBillingDate: in.NextBillingDate.UTC(),
		Icon:            in.Icon,
	}
	if err := s.db.Create(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

// ListSubscriptions returns the user's subscriptions, soonest billing first.
func (s *subscriptionService) ListSubscriptions(userID string) ([]models.Subscription, error) {
	subs := make([]models.Subscription, 0)
	if err := s.db.Where("user_id = ?", userID).
		Order("next_billing_date ASC").Order("name ASC").
		Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subs, nil
}

// DeleteSubscription removes one of the user's subscriptions.
func (s *subscriptionService) DeleteSubscription(userID, subscriptionID string) error {
	if err := checkID(subscriptionID); err != nil {
		return err
	}

	res := s.db.Where("id = ? AND user_id = ?", subscriptionID, userID).Delete(&models.Subscription{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrSubscriptionNotFound
	}
	return nil
}

// PaySubscription records the charge for the current billing date as an
// expense and moves the billing date forward one calendar month. Both writes
// happen in one transaction.
func (s *subscriptionService) PaySubscription(userID, subscriptionID string) (*models.PaymentResult, error) {
	if err := checkID(subscriptionID); err != nil {
		return nil, err
	}

	var (
		sub     models.Subscription
		expense models.Expense
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", subscriptionID, userID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrSubscriptionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		expense = models.Expense{
			UserID:   sub.UserID,
			Name:     sub.Name,
			Category: models.CategorySubscription,
			Amount:   sub.Amount,
			Date:     sub.NextBillingDate,
			Icon:     sub.Icon,
		}
		if err := tx.Create(&expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		sub.NextBillingDate = cycle.AdvanceMonth(sub.NextBillingDate)
		if err := tx.Save(&sub).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &models.PaymentResult{
		Message: fmt.Sprintf("Subscription '%s' paid and expense recorded. Next billing: %s",
			sub.Name, sub.NextBillingDate.UTC().Format("2006-01-02")),
		Subscription: &sub,
		Expense:      &expense,
	}, nil
}

// ListDueForReminder returns subscriptions billing within the given horizon
// whose owner has not yet been reminded about the current billing date.
func (s *subscriptionService) ListDueForReminder(within time.Duration) ([]DueReminder, error) {
	cutoff := cycle.EndOfDay(s.now().Add(within))

	var subs []models.Subscription
	if err := s.db.
		Where("next_billing_date <= ?", cutoff).
		Where("last_reminder_for IS NULL OR last_reminder_for <> next_billing_date").
		Order("next_billing_date ASC").
		Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(subs) == 0 {
		return nil, nil
	}

	userIDs := make([]string, 0, len(subs))
	for _, sub := range subs {
		userIDs = append(userIDs, sub.UserID)
	}
	var users []models.User
	if err := s.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	due := make([]DueReminder, 0, len(subs))
	for _, sub := range subs {
		owner, ok := byID[sub.UserID]
		if !ok {
			continue
		}
		due = append(due, DueReminder{Subscription: sub, User: owner})
	}
	return due, nil
}

// MarkReminded records that a reminder for billingDate has been sent.
func (s *subscriptionService) MarkReminded(subscriptionID string, billingDate time.Time) error {
	res := s.db.Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		Update("last_reminder_for", billingDate.UTC())
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrSubscriptionNotFound
	}
	return nil
}
