package models

import "time"

// InvestmentCategory is the closed set of investment categories.
type InvestmentCategory string

const (
	InvestmentCategoryStocks      InvestmentCategory = "Stocks"
	InvestmentCategoryMutualFunds InvestmentCategory = "Mutual Funds"
	InvestmentCategoryGold        InvestmentCategory = "Gold"
	InvestmentCategoryRealEstate  InvestmentCategory = "Real Estate"
	InvestmentCategoryCrypto      InvestmentCategory = "Crypto"
	InvestmentCategoryOther       InvestmentCategory = "Other"
)

// InvestmentCategories lists every valid category.
var InvestmentCategories = []InvestmentCategory{
	InvestmentCategoryStocks,
	InvestmentCategoryMutualFunds,
	InvestmentCategoryGold,
	InvestmentCategoryRealEstate,
	InvestmentCategoryCrypto,
	InvestmentCategoryOther,
}

// ValidInvestmentCategory reports whether c is one of the known categories.
func ValidInvestmentCategory(c InvestmentCategory) bool {
	for _, known := range InvestmentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// InvestmentKind distinguishes one-time from recurring contributions.
type InvestmentKind string

const (
	InvestmentKindLumpSum   InvestmentKind = "lumpSum"
	InvestmentKindRecurring InvestmentKind = "recurring"
)

// Investment represents a user's investment position. For lump-sum
// investments Amount is the principal; for recurring investments it is the
// monthly contribution. Amounts are stored in cents.
type Investment struct {
	Base
	UserID           uint               `gorm:"not null;index" json:"user_id"`
	Category         InvestmentCategory `gorm:"not null" json:"category"`
	Description      string             `json:"description"`
	Amount           int64              `gorm:"type:bigint;not null" json:"amount"`
	Kind             InvestmentKind     `gorm:"not null" json:"kind"`
	Date             time.Time          `gorm:"not null;index" json:"date"`
	StartDate        time.Time          `gorm:"not null" json:"start_date"`
	AnnualReturnRate float64            `gorm:"not null;default:0" json:"annual_return_rate"`
	ExpectedEndDate  *time.Time         `json:"expected_end_date,omitempty"`
}
