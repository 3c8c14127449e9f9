package models

import "time"

// TransactionType represents the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionOrigin identifies where a transaction came from. Manual entries
// are created by the user; investment and subscription entries are shadow
// records generated by the ledger sync and keyed back to their source via
// OriginID.
type TransactionOrigin string

const (
	OriginManual       TransactionOrigin = "manual"
	OriginInvestment   TransactionOrigin = "investment"
	OriginSubscription TransactionOrigin = "subscription"
)

// Transaction represents a ledger entry. Amounts are stored in cents.
type Transaction struct {
	Base
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	Category    string            `gorm:"not null" json:"category"`
	Description string            `json:"description"`
	Amount      int64             `gorm:"type:bigint;not null" json:"amount"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Date        time.Time         `gorm:"not null;index" json:"date"`
	OriginType  TransactionOrigin `gorm:"not null;default:manual;index:idx_transactions_origin" json:"origin_type"`
	OriginID    *uint             `gorm:"index:idx_transactions_origin" json:"origin_id,omitempty"`
}

// IsShadow reports whether the transaction was generated by the ledger sync.
func (t *Transaction) IsShadow() bool {
	return t.OriginType != OriginManual && t.OriginType != ""
}
