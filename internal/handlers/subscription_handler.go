package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// SubscriptionHandler handles subscription-related requests.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
	auditService        services.AuditServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer, auditService services.AuditServicer) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, auditService: auditService}
}

// CreateSubscriptionRequest represents the request payload for creating a subscription.
type CreateSubscriptionRequest struct {
	Name         string              `json:"name" binding:"required,min=1,max=200"`
	Amount       int64               `json:"amount" binding:"required,gte=0"`
	BillingCycle models.BillingCycle `json:"billing_cycle" binding:"required,billing_cycle"`
	StartDate    time.Time           `json:"start_date" binding:"required"`
	Category     string              `json:"category" binding:"max=100"`
}

// UpdateSubscriptionRequest represents the request payload for updating a subscription.
type UpdateSubscriptionRequest struct {
	Name         *string                    `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Amount       *int64                     `json:"amount,omitempty" binding:"omitempty,gte=0"`
	BillingCycle *models.BillingCycle       `json:"billing_cycle,omitempty" binding:"omitempty,billing_cycle"`
	StartDate    *time.Time                 `json:"start_date,omitempty"`
	Category     *string                    `json:"category,omitempty" binding:"omitempty,max=100"`
	Status       *models.SubscriptionStatus `json:"status,omitempty" binding:"omitempty,subscription_status"`
}

// CreateSubscription handles creating a new subscription.
// @Summary     Create subscription
// @Description Create a recurring subscription and log its first payment
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubscriptionRequest true "Subscription details"
// @Success     201 {object} models.Subscription "Subscription created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	subscription, err := h.subscriptionService.CreateSubscription(
		userID, req.Name, req.Amount, req.BillingCycle, req.StartDate, req.Category,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SUBSCRIPTION", "subscription", subscription.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "billing_cycle": string(req.BillingCycle), "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"subscription": subscription})
}

// GetSubscriptions handles listing the user's subscriptions.
// @Summary     Get subscriptions
// @Description Get a paginated list of the user's subscriptions, nearest payment first
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Subscription] "Paginated subscriptions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [get]
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.subscriptionService.GetUserSubscriptions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSubscription handles retrieving a specific subscription.
// @Summary     Get subscription by ID
// @Description Get a specific subscription by ID
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Subscription ID"
// @Success     200 {object} models.Subscription "Subscription details"
// @Failure     400 {object} ErrorResponse "Invalid subscription ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subscriptionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	subscription, err := h.subscriptionService.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": subscription})
}

// UpdateSubscription handles updating a subscription.
// @Summary     Update subscription
// @Description Update a subscription; the next payment date is recomputed when the cycle or start date changes
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                        true "Subscription ID"
// @Param       request body UpdateSubscriptionRequest  true "Field changes"
// @Success     200 {object} models.Subscription "Updated subscription"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [put]
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subscriptionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	subscription, err := h.subscriptionService.UpdateSubscription(userID, subscriptionID, services.SubscriptionUpdate{
		Name:         req.Name,
		Amount:       req.Amount,
		BillingCycle: req.BillingCycle,
		StartDate:    req.StartDate,
		Category:     req.Category,
		Status:       req.Status,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SUBSCRIPTION", "subscription", subscriptionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"subscription": subscription})
}

// DeleteSubscription handles deleting a subscription.
// @Summary     Delete subscription
// @Description Delete a subscription and its mirrored transaction
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Subscription ID"
// @Success     204 "Subscription deleted"
// @Failure     400 {object} ErrorResponse "Invalid subscription ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [delete]
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subscriptionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.subscriptionService.DeleteSubscription(userID, subscriptionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SUBSCRIPTION", "subscription", subscriptionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
