package models

import "time"

// User represents the user model in the database.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Transactions  []Transaction  `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Investments   []Investment   `gorm:"foreignKey:UserID" json:"investments,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID" json:"subscriptions,omitempty"`
	Goals         []Goal         `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}
