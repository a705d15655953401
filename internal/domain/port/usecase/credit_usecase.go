package usecase

import "context"

// FulfillRequest identifies which pending top-up to reconcile. Exactly one of
// SessionID and UserID must be set: by session when the gateway callback
// carries one, by user when polling for the most recent pending top-up.
type FulfillRequest struct {
	SessionID string
	UserID    string
}

// CreditUseCase is the ledger's public contract. Three interchangeable
// strategies implement it (standard, beta monthly refill, disabled), selected
// once at startup.
type CreditUseCase interface {
	// GetCredits returns the user's current balance
	GetCredits(ctx context.Context, userID string) (int64, error)

	// SpendCredits charges the user for a block invocation and returns the
	// amount charged. A block with no matching cost rule charges zero.
	SpendCredits(ctx context.Context, userID, blockID string, inputData map[string]any, dataSize, runTime float64) (int64, error)

	// TopUpCredits credits the user immediately, without the payment gateway
	TopUpCredits(ctx context.Context, userID string, amount int64) error

	// TopUpIntent creates a gateway checkout session, stakes a pending
	// top-up transaction and returns the redirect URL
	TopUpIntent(ctx context.Context, userID string, amount int64) (string, error)

	// FulfillCheckout activates a pending top-up exactly once, after
	// re-checking payment status with the gateway. Repeated calls for an
	// already fulfilled session are no-ops.
	FulfillCheckout(ctx context.Context, req FulfillRequest) error
}
