package models

import "time"

// BillingCycle represents how often a subscription renews.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// SubscriptionStatus represents the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// DefaultSubscriptionCategory is used when the user supplies no category.
const DefaultSubscriptionCategory = "General"

// Subscription represents a recurring paid service. NextPaymentDate is
// derived from StartDate and BillingCycle and must be recomputed whenever
// either changes. Amounts are stored in cents.
type Subscription struct {
	Base
	UserID          uint               `gorm:"not null;index" json:"user_id"`
	Name            string             `gorm:"not null" json:"name"`
	Amount          int64              `gorm:"type:bigint;not null" json:"amount"`
	BillingCycle    BillingCycle       `gorm:"not null" json:"billing_cycle"`
	StartDate       time.Time          `gorm:"not null" json:"start_date"`
	NextPaymentDate time.Time          `gorm:"not null;index" json:"next_payment_date"`
	Category        string             `gorm:"not null;default:General" json:"category"`
	Status          SubscriptionStatus `gorm:"not null;default:active" json:"status"`
}

// NextPayment returns the start date advanced by one billing cycle.
func NextPayment(start time.Time, cycle BillingCycle) time.Time {
	if cycle == BillingCycleYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}
