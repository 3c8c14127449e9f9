package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"time"
)

// subscriptionService handles subscription-related business logic.
type subscriptionService struct {
	db   *gorm.DB
	sync LedgerSyncer
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB, sync LedgerSyncer) SubscriptionServicer {
	return &subscriptionService{db: db, sync: sync}
}

// CreateSubscription persists a new subscription with its derived next
// payment date and records the shadow transaction for the first payment.
func (s *subscriptionService) CreateSubscription(
	userID uint,
	name string,
	amount int64,
	cycle models.BillingCycle,
	startDate time.Time,
	category string,
) (*models.Subscription, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	if category == "" {
		category = models.DefaultSubscriptionCategory
	}

	subscription := &models.Subscription{
		UserID:          userID,
		Name:            name,
		Amount:          amount,
		BillingCycle:    cycle,
		StartDate:       startDate,
		NextPaymentDate: models.NextPayment(startDate, cycle),
		Category:        category,
		Status:          models.SubscriptionStatusActive,
	}

	if err := s.db.Create(subscription).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sync.SyncCreate(userID, models.OriginSubscription, subscription.ID, subscriptionShadow(subscription))

	return subscription, nil
}

// GetUserSubscriptions returns the user's subscriptions with the nearest
// payment first.
func (s *subscriptionService) GetUserSubscriptions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Subscription], error) {
	page.Defaults()

	base := s.db.Model(&models.Subscription{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var subscriptions []models.Subscription
	if err := base.Order("next_payment_date").Scopes(pagination.Paginate(page)).Find(&subscriptions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(subscriptions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSubscriptionByID returns a subscription by ID if it belongs to the user.
func (s *subscriptionService) GetSubscriptionByID(userID, subscriptionID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := s.db.Where("id = ? AND user_id = ?", subscriptionID, userID).First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &subscription, nil
}

// UpdateSubscription applies field changes, recomputing the next payment date
// whenever the billing cycle or start date moves, and brings the shadow
// transaction in line. The subscription update always stands regardless of
// sync outcome.
func (s *subscriptionService) UpdateSubscription(userID, subscriptionID uint, update SubscriptionUpdate) (*models.Subscription, error) {
	subscription, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
		}
		updates["name"] = *update.Name
	}
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
		}
		updates["amount"] = *update.Amount
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}

	cycle := subscription.BillingCycle
	start := subscription.StartDate
	cycleChanged := false
	if update.BillingCycle != nil {
		cycle = *update.BillingCycle
		updates["billing_cycle"] = cycle
		cycleChanged = true
	}
	if update.StartDate != nil {
		start = *update.StartDate
		updates["start_date"] = start
		cycleChanged = true
	}
	if cycleChanged {
		updates["next_payment_date"] = models.NextPayment(start, cycle)
	}

	if len(updates) > 0 {
		if err := s.db.Model(subscription).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		s.sync.SyncUpdate(userID, models.OriginSubscription, subscription.ID, subscriptionShadow(subscription))
	}

	return subscription, nil
}

// DeleteSubscription removes a subscription and its shadow transaction.
func (s *subscriptionService) DeleteSubscription(userID, subscriptionID uint) error {
	subscription, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(subscription).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sync.SyncDelete(userID, models.OriginSubscription, subscription.ID)
	return nil
}

// subscriptionShadow maps a subscription to the fields its shadow transaction
// mirrors. The first payment is logged on the start date.
func subscriptionShadow(sub *models.Subscription) ShadowFields {
	return ShadowFields{
		Category:    sub.Category,
		Description: fmt.Sprintf("%s (%s subscription)", sub.Name, sub.BillingCycle),
		Amount:      sub.Amount,
		Date:        sub.StartDate,
	}
}
