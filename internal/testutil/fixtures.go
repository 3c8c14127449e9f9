package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneta/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a manual transaction of the given type and
// amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		Category:   fmt.Sprintf("Test Category %d", nextID()),
		Amount:     amount,
		Type:       txType,
		Date:       time.Now(),
		OriginType: models.OriginManual,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestInvestment creates a lump-sum Gold investment with the given
// amount (in cents), dated 2024-01-01.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID uint, amount int64) *models.Investment {
	t.Helper()

	date := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	inv := &models.Investment{
		UserID:    userID,
		Category:  models.InvestmentCategoryGold,
		Amount:    amount,
		Kind:      models.InvestmentKindLumpSum,
		Date:      date,
		StartDate: date,
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateTestSubscription creates a monthly subscription with the given
// amount (in cents), starting 2024-01-01.
func CreateTestSubscription(t *testing.T, db *gorm.DB, userID uint, amount int64) *models.Subscription {
	t.Helper()

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	sub := &models.Subscription{
		UserID:          userID,
		Name:            fmt.Sprintf("Test Service %d", nextID()),
		Amount:          amount,
		BillingCycle:    models.BillingCycleMonthly,
		StartDate:       start,
		NextPaymentDate: models.NextPayment(start, models.BillingCycleMonthly),
		Category:        models.DefaultSubscriptionCategory,
		Status:          models.SubscriptionStatusActive,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}

// CreateTestGoal creates a goal with the given target and current amounts
// (in cents), with the reached flag derived.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, target, current int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Title:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
		Reached:       models.GoalReached(current, target),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
