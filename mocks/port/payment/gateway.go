package payment

import (
	"context"

	"github.com/stretchr/testify/mock"

	paymentport "github.com/blockforge/credit-ledger/internal/domain/port/payment"
)

// MockGateway is a testify mock for the payment Gateway port
type MockGateway struct {
	mock.Mock
}

// CreateCustomer mocks registering a customer at the gateway
func (m *MockGateway) CreateCustomer(ctx context.Context, name, email string) (string, error) {
	args := m.Called(ctx, name, email)
	return args.String(0), args.Error(1)
}

// CreateCheckoutSession mocks creating a hosted checkout
func (m *MockGateway) CreateCheckoutSession(ctx context.Context, customerID string, amount int64) (*paymentport.CheckoutSession, error) {
	args := m.Called(ctx, customerID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentport.CheckoutSession), args.Error(1)
}

// RetrieveSession mocks re-querying the gateway for payment status
func (m *MockGateway) RetrieveSession(ctx context.Context, sessionID string) (*paymentport.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentport.CheckoutSession), args.Error(1)
}
