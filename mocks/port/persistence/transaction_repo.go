package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
)

// MockTransactionRepository is a testify mock for the TransactionRepository port
type MockTransactionRepository struct {
	mock.Mock
}

// Create mocks appending a transaction to the ledger
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *entity.CreditTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

// FindLatestSnapshot mocks the balance snapshot lookup
func (m *MockTransactionRepository) FindLatestSnapshot(ctx context.Context, userID string, asOf time.Time) (*entity.CreditTransaction, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CreditTransaction), args.Error(1)
}

// SumActiveAmounts mocks the monthly amount sum
func (m *MockTransactionRepository) SumActiveAmounts(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

// FindByKey mocks the transaction lookup by idempotency key
func (m *MockTransactionRepository) FindByKey(ctx context.Context, userID, transactionKey string) (*entity.CreditTransaction, error) {
	args := m.Called(ctx, userID, transactionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CreditTransaction), args.Error(1)
}

// FindLatestPendingTopUp mocks the pending top-up lookup
func (m *MockTransactionRepository) FindLatestPendingTopUp(ctx context.Context, sessionID, userID string) (*entity.CreditTransaction, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CreditTransaction), args.Error(1)
}

// Activate mocks flipping a pending transaction active
func (m *MockTransactionRepository) Activate(ctx context.Context, userID, transactionKey string, runningBalance int64, activatedAt time.Time, metadata map[string]any) error {
	args := m.Called(ctx, userID, transactionKey, runningBalance, activatedAt, metadata)
	return args.Error(0)
}
