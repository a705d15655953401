package persistence

import (
	"context"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
)

// UserRepository defines methods to interact with user records. The ledger
// only needs users for their payment-gateway customer reference.
type UserRepository interface {
	// GetByID retrieves a user by its ID.
	//
	// Possible errors:
	// - ErrUserNotFound: If no user with that ID exists
	// - ErrDatabaseConnection: If the database cannot be reached
	GetByID(ctx context.Context, userID string) (*entity.User, error)

	// SetGatewayCustomerID stores the external payment customer reference so
	// subsequent top-ups reuse the same customer.
	//
	// Possible errors:
	// - ErrUserNotFound: If no user with that ID exists
	// - ErrDatabaseConnection: If the database cannot be reached
	SetGatewayCustomerID(ctx context.Context, userID, customerID string) error
}
