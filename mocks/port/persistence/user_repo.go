package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
)

// MockUserRepository is a testify mock for the UserRepository port
type MockUserRepository struct {
	mock.Mock
}

// GetByID mocks the user lookup
func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// SetGatewayCustomerID mocks persisting the gateway customer reference
func (m *MockUserRepository) SetGatewayCustomerID(ctx context.Context, userID, customerID string) error {
	args := m.Called(ctx, userID, customerID)
	return args.Error(0)
}
