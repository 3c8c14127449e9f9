package models

import "time"

// Goal represents a savings goal. Reached is derived: it must equal
// GoalReached(CurrentAmount, TargetAmount) after every write that touches
// either amount, and is never set independently. Amounts are stored in cents.
type Goal struct {
	Base
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Title         string     `gorm:"not null" json:"title"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Reached       bool       `gorm:"not null;default:false" json:"reached"`
}

// GoalReached reports whether a goal with the given amounts is reached.
// Every write path that changes CurrentAmount or TargetAmount must persist
// the result of this function, so the derived flag can never go stale.
func GoalReached(currentAmount, targetAmount int64) bool {
	return currentAmount >= targetAmount
}
