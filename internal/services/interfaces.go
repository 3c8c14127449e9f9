package services

import (
	"time"

	"moneta/internal/models"
	"moneta/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// ShadowFields carries the transaction fields a shadow entry mirrors from its
// source record.
type ShadowFields struct {
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Date        time.Time `json:"date"`
}

// SyncDriftStats summarizes the outbox state. Failed is the observable drift
// metric: every failed intent is a source record whose shadow transaction may
// be missing or stale.
type SyncDriftStats struct {
	Pending int64 `json:"pending"`
	Applied int64 `json:"applied"`
	Failed  int64 `json:"failed"`
}

// LedgerSyncer keeps shadow transactions consistent with their source
// investment/subscription records. The Sync methods are best-effort: they
// never return an error, never roll back the source write, and record every
// step as a durable intent so failures stay visible and retryable.
type LedgerSyncer interface {
	SyncCreate(userID uint, source models.TransactionOrigin, sourceID uint, fields ShadowFields)
	SyncUpdate(userID uint, source models.TransactionOrigin, sourceID uint, fields ShadowFields)
	SyncDelete(userID uint, source models.TransactionOrigin, sourceID uint)
	RetryFailed(limit int) (int, error)
	DriftStats(userID uint) (*SyncDriftStats, error)
}

// InvestmentUpdate holds optional field changes for an investment.
type InvestmentUpdate struct {
	Category         *models.InvestmentCategory
	Description      *string
	Amount           *int64
	Kind             *models.InvestmentKind
	Date             *time.Time
	StartDate        *time.Time
	AnnualReturnRate *float64
	ExpectedEndDate  *time.Time
}

// InvestmentProjection is the estimated value of a single investment at a
// point in time. HasProjection is false when the investment has no expected
// return rate; ProjectedValue then equals the invested amount and should be
// displayed as "no projection available".
type InvestmentProjection struct {
	InvestmentID   uint      `json:"investment_id"`
	Months         int       `json:"months"`
	InvestedAmount int64     `json:"invested_amount"`
	ProjectedValue int64     `json:"projected_value"`
	HasProjection  bool      `json:"has_projection"`
	AsOf           time.Time `json:"as_of"`
}

// PortfolioSummary aggregates all of a user's investments.
type PortfolioSummary struct {
	TotalInvested  int64 `json:"total_invested"`
	CurrentValue   int64 `json:"current_value"`
	ProjectedAtEnd int64 `json:"projected_at_end"`
	Investments    int   `json:"investments"`
}

// InvestmentServicer defines the contract for investment-related business logic.
type InvestmentServicer interface {
	CreateInvestment(userID uint, category models.InvestmentCategory, description string, amount int64, kind models.InvestmentKind, date, startDate time.Time, annualReturnRate float64, expectedEndDate *time.Time) (*models.Investment, error)
	GetUserInvestments(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	GetInvestmentByID(userID, investmentID uint) (*models.Investment, error)
	UpdateInvestment(userID, investmentID uint, update InvestmentUpdate) (*models.Investment, error)
	DeleteInvestment(userID, investmentID uint) error
	ProjectInvestment(userID, investmentID uint, at *time.Time) (*InvestmentProjection, error)
	GetPortfolio(userID uint) (*PortfolioSummary, error)
}

// SubscriptionUpdate holds optional field changes for a subscription.
type SubscriptionUpdate struct {
	Name         *string
	Amount       *int64
	BillingCycle *models.BillingCycle
	StartDate    *time.Time
	Category     *string
	Status       *models.SubscriptionStatus
}

// SubscriptionServicer defines the contract for subscription-related business logic.
type SubscriptionServicer interface {
	CreateSubscription(userID uint, name string, amount int64, cycle models.BillingCycle, startDate time.Time, category string) (*models.Subscription, error)
	GetUserSubscriptions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Subscription], error)
	GetSubscriptionByID(userID, subscriptionID uint) (*models.Subscription, error)
	UpdateSubscription(userID, subscriptionID uint, update SubscriptionUpdate) (*models.Subscription, error)
	DeleteSubscription(userID, subscriptionID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	MinAmount *int64
	MaxAmount *int64
}

// TransactionUpdate holds optional field changes for a user transaction.
type TransactionUpdate struct {
	Category    *string
	Description *string
	Amount      *int64
	Type        *models.TransactionType
	Date        *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, category, description string, amount int64, txType models.TransactionType, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// GoalUpdate holds optional field changes for a goal.
type GoalUpdate struct {
	Title        *string
	TargetAmount *int64
	Deadline     *time.Time
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID uint, title string, targetAmount int64, deadline *time.Time) (*models.Goal, error)
	GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	AddFunds(userID, goalID uint, delta int64) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, update GoalUpdate) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
