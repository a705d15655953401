package payment

import "context"

// Payment statuses reported by the gateway for a checkout session
const (
	StatusPaid              = "paid"
	StatusUnpaid            = "unpaid"
	StatusNoPaymentRequired = "no_payment_required"
)

// CheckoutSession is the gateway's handle for a hosted payment page
type CheckoutSession struct {
	ID            string // Session identifier, used as the transaction idempotency key
	URL           string // Redirect URL for the user to complete payment
	PaymentStatus string // One of the Status* constants
}

// Gateway defines the external payment collaborator. Failures are surfaced as
// ErrExternalPayment and never retried here; the caller owns retry policy.
// Gateway calls must never happen while holding a user's ledger lock.
type Gateway interface {
	// CreateCustomer registers a customer at the gateway and returns its ID
	CreateCustomer(ctx context.Context, name, email string) (string, error)

	// CreateCheckoutSession creates a hosted checkout for the given credit
	// amount (smallest currency unit) and returns the session
	CreateCheckoutSession(ctx context.Context, customerID string, amount int64) (*CheckoutSession, error)

	// RetrieveSession re-queries the gateway for the authoritative payment
	// status of a session. Reconciliation trusts this, never the caller.
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// IsSuccessful reports whether a payment status allows fulfillment
func IsSuccessful(paymentStatus string) bool {
	return paymentStatus == StatusPaid || paymentStatus == StatusNoPaymentRequired
}
