package model

import (
	"time"
)

// CreditTransaction represents the database model for ledger transactions.
// The composite unique index on (user_id, transaction_key) is what makes
// retried payment callbacks and monthly refills idempotent: the database
// rejects the second insert atomically.
type CreditTransaction struct {
	ID             uint64  `gorm:"primaryKey;autoIncrement"`
	UserID         string  `gorm:"not null;size:255;index:idx_user_created,priority:1;uniqueIndex:idx_user_txn_key,priority:1"`
	Amount         int64   `gorm:"not null"`
	Type           string  `gorm:"not null;size:50"`
	TransactionKey *string `gorm:"size:255;uniqueIndex:idx_user_txn_key,priority:2"`
	RunningBalance *int64
	IsActive       bool      `gorm:"not null;default:true"`
	BlockID        string    `gorm:"size:255"`
	Metadata       string    `gorm:"type:jsonb;default:'{}'"`
	CreatedAt      time.Time `gorm:"not null;index:idx_user_created,priority:2"`
}

// TableName specifies the table name for CreditTransaction
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
