package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	usecaseport "github.com/blockforge/credit-ledger/internal/domain/port/usecase"
)

// MockCreditUseCase is a testify mock for the CreditUseCase port
type MockCreditUseCase struct {
	mock.Mock
}

// GetCredits mocks the balance query
func (m *MockCreditUseCase) GetCredits(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// SpendCredits mocks charging for a block invocation
func (m *MockCreditUseCase) SpendCredits(ctx context.Context, userID, blockID string, inputData map[string]any, dataSize, runTime float64) (int64, error) {
	args := m.Called(ctx, userID, blockID, inputData, dataSize, runTime)
	return args.Get(0).(int64), args.Error(1)
}

// TopUpCredits mocks an immediate credit
func (m *MockCreditUseCase) TopUpCredits(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

// TopUpIntent mocks creating a checkout intent
func (m *MockCreditUseCase) TopUpIntent(ctx context.Context, userID string, amount int64) (string, error) {
	args := m.Called(ctx, userID, amount)
	return args.String(0), args.Error(1)
}

// FulfillCheckout mocks reconciling a pending top-up
func (m *MockCreditUseCase) FulfillCheckout(ctx context.Context, req usecaseport.FulfillRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
