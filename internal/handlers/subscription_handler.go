package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/cycle"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/metrics"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// SubscriptionHandler handles subscription-related requests
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
	auditService        services.AuditServicer
	publisher           events.Publisher
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer, auditService services.AuditServicer, publisher events.Publisher) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		auditService:        auditService,
		publisher:           publisher,
	}
}

// AddSubscriptionRequest represents the payload for a new subscription
type AddSubscriptionRequest struct {
	Name            string           `json:"name" binding:"max=100"`
	Amount          *decimal.Decimal `json:"amount" swaggertype:"number"`
	StartDate       string           `json:"startDate"`
	NextBillingDate string           `json:"nextBillingDate"`
	Icon            string           `json:"icon" binding:"max=255"`
}

// DeleteSubscriptionResponse confirms a deletion
type DeleteSubscriptionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// lenientDate returns nil for unparsable input so the service reports the
// field as invalid.
func lenientDate(s string) *time.Time {
	t, err := cycle.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// AddSubscription handles creating a subscription
// @Summary     Add subscription
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddSubscriptionRequest true "Subscription details"
// @Success     201 {object} models.Subscription "Subscription created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [post]
func (h *SubscriptionHandler) AddSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	sub, err := h.subscriptionService.AddSubscription(userID, services.SubscriptionInput{
		Name:            req.Name,
		Amount:          req.Amount,
		StartDate:       lenientDate(req.StartDate),
		NextBillingDate: lenientDate(req.NextBillingDate),
		Icon:            req.Icon,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// GetSubscriptions handles listing subscriptions
// @Summary     List subscriptions
// @Description List subscriptions of the authenticated user, soonest billing first
// @Tags        subscriptions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Subscription "Subscriptions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [get]
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subs, err := h.subscriptionService.ListSubscriptions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// DeleteSubscription handles deleting a subscription
// @Summary     Delete subscription
// @Tags        subscriptions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subscription ID"
// @Success     200 {object} DeleteSubscriptionResponse "Subscription deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Router      /subscriptions/{id} [delete]
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	subID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.subscriptionService.DeleteSubscription(userID, subID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteSubscriptionResponse{Message: "Subscription deleted", ID: subID})
}

// PaySubscription records a payment for a subscription
// @Summary     Pay subscription
// @Description Record the payment due on nextBillingDate as an expense dated that day and advance nextBillingDate by one calendar month
// @Tags        subscriptions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subscription ID"
// @Success     200 {object} models.PaymentResult "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id}/pay [post]
func (h *SubscriptionHandler) PaySubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	subID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.subscriptionService.PaySubscription(userID, subID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics.SubscriptionsPaid.Inc()
	h.auditService.Log(userID, models.AuditActionSubscriptionPaid, "subscription", subID, c.ClientIP(),
		map[string]interface{}{
			"expenseId":       result.Expense.ID,
			"amount":          result.Expense.Amount.String(),
			"nextBillingDate": result.Subscription.NextBillingDate.Format("2006-01-02"),
		})
	if err := h.publisher.PublishSubscriptionPaid(c.Request.Context(), events.NewSubscriptionPaid(result)); err != nil {
		logger.Named("events").Warnw("Failed to publish subscription payment",
			"subscription_id", subID,
			"error", err,
		)
	}

	c.JSON(http.StatusOK, result)
}
