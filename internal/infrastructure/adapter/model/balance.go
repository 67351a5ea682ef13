package model

import (
	"time"
)

// Balance represents the database model for token balances
type Balance struct {
	UserID         string    `gorm:"primaryKey;size:255"`
	Balance        int64     `gorm:"not null;check:balance >= 0"`
	LifetimeEarned int64     `gorm:"not null;default:0"`
	LifetimeSpent  int64     `gorm:"not null;default:0"`
	DailySpent     int64     `gorm:"not null;default:0"`
	DailyLimit     int64     `gorm:"not null"`
	LastResetDate  time.Time `gorm:"not null;type:date"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for Balance
func (Balance) TableName() string {
	return "token_balances"
}
