package model

import (
	"time"
)

// Transaction represents the database model for ledger transactions.
// Rows are append-only; there is no update path.
type Transaction struct {
	ID           string    `gorm:"primaryKey;size:36"`
	UserID       string    `gorm:"not null;index;size:255"`
	Amount       int64     `gorm:"not null"` // signed: positive credit, negative debit
	Type         string    `gorm:"not null;size:20;index"`
	Operation    string    `gorm:"not null;size:50"`
	Description  string    `gorm:"type:text"`
	Metadata     string    `gorm:"type:jsonb"`
	BalanceAfter int64     `gorm:"not null"`
	RefundOf     *string   `gorm:"uniqueIndex;size:36"` // unique: one refund per charge
	CreatedAt    time.Time `gorm:"not null;index"`

	// Define relationships
	User Balance `gorm:"foreignKey:UserID;references:UserID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "token_transactions"
}
