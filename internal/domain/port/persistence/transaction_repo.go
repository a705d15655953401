package persistence

import (
	"context"
	"time"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
)

// TransactionRepository defines essential methods to interact with the credit
// transaction ledger. All queries are scoped by user.
type TransactionRepository interface {
	// Create appends a new transaction to the ledger.
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If a transaction with the same (user, key) already exists
	// - ErrDatabaseConnection: If the database cannot be reached
	Create(ctx context.Context, transaction *entity.CreditTransaction) error

	// FindLatestSnapshot returns the most recent active transaction for the
	// user that carries a running balance and was created at or before asOf,
	// or nil if no such transaction exists.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If the database cannot be reached
	FindLatestSnapshot(ctx context.Context, userID string, asOf time.Time) (*entity.CreditTransaction, error)

	// SumActiveAmounts returns the sum of amounts over the user's active
	// transactions created within [from, to]. Used as the snapshot fallback.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If the database cannot be reached
	SumActiveAmounts(ctx context.Context, userID string, from, to time.Time) (int64, error)

	// FindByKey retrieves a transaction by its (user, key) identity.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction with that key exists
	// - ErrDatabaseConnection: If the database cannot be reached
	FindByKey(ctx context.Context, userID, transactionKey string) (*entity.CreditTransaction, error)

	// FindLatestPendingTopUp returns the most recent inactive TOP_UP
	// transaction matching the given session ID or user ID. Exactly one of
	// the two filters is expected to be non-empty.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no pending top-up matches
	// - ErrDatabaseConnection: If the database cannot be reached
	FindLatestPendingTopUp(ctx context.Context, sessionID, userID string) (*entity.CreditTransaction, error)

	// Activate flips a pending transaction to active, stamping its running
	// balance and activation time. This is the single permitted mutation of
	// an existing transaction and must only be called while holding the
	// user's lock.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction with that key exists
	// - ErrDatabaseConnection: If the database cannot be reached
	Activate(ctx context.Context, userID, transactionKey string, runningBalance int64, activatedAt time.Time, metadata map[string]any) error
}
