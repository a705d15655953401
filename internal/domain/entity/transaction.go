package entity

import (
	"fmt"
	"time"

	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	tport "github.com/blockforge/credit-ledger/internal/domain/port/core"
)

// TransactionType represents the kind of credit transaction
type TransactionType string

// Transaction types
const (
	TypeUsage TransactionType = "USAGE"
	TypeTopUp TransactionType = "TOP_UP"
	TypeGrant TransactionType = "GRANT"
)

// CreditTransaction represents a single entry in a user's credit ledger.
// Transactions are append-only: once created they are never deleted and the
// only permitted mutation is activating a pending top-up during reconciliation.
type CreditTransaction struct {
	ID             uint64          // Internal identifier assigned by the store
	UserID         string          // ID of the user this transaction belongs to
	Amount         int64           // Signed credit delta (negative = debit)
	Type           TransactionType // Kind of transaction
	TransactionKey *string         // Optional idempotency key, unique per (UserID, TransactionKey)
	RunningBalance *int64          // Balance snapshot as of this transaction; nil while pending
	IsActive       bool            // Whether this transaction counts toward the balance
	BlockID        string          // Block that produced a USAGE charge, if any
	Metadata       map[string]any  // Provenance (matched cost filter, checkout session, ...)
	CreatedAt      time.Time       // Logical ordering key for balance reconstruction
}

// NewCreditTransaction creates a transaction with basic validation.
// Pending transactions (isActive=false) carry no running balance; the balance
// snapshot is computed at activation time by the reconciliation flow.
func NewCreditTransaction(
	userID string,
	amount int64,
	transactionType TransactionType,
	timeProvider tport.TimeProvider,
) (*CreditTransaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if !isValidTransactionType(transactionType) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, transactionType)
	}

	return &CreditTransaction{
		UserID:    userID,
		Amount:    amount,
		Type:      transactionType,
		IsActive:  true,
		Metadata:  map[string]any{},
		CreatedAt: timeProvider.Now(),
	}, nil
}

// WithKey sets the idempotency key for this transaction
func (t *CreditTransaction) WithKey(key string) *CreditTransaction {
	t.TransactionKey = &key
	return t
}

// WithRunningBalance records the balance snapshot as of this transaction
func (t *CreditTransaction) WithRunningBalance(balance int64) *CreditTransaction {
	t.RunningBalance = &balance
	return t
}

// MarkPending flags the transaction as not yet counting toward the balance
func (t *CreditTransaction) MarkPending() *CreditTransaction {
	t.IsActive = false
	t.RunningBalance = nil
	return t
}

// Key returns the idempotency key, or "" when none was set
func (t *CreditTransaction) Key() string {
	if t.TransactionKey == nil {
		return ""
	}
	return *t.TransactionKey
}

// IsDebit returns true if this transaction decreases the user's balance
func (t *CreditTransaction) IsDebit() bool {
	return t.Amount < 0
}

// isValidTransactionType validates if the transaction type is allowed
func isValidTransactionType(transactionType TransactionType) bool {
	return transactionType == TypeUsage ||
		transactionType == TypeTopUp ||
		transactionType == TypeGrant
}
