package entity

import "time"

// User represents a platform user from the ledger's point of view. Balances
// are never stored here: the ledger is the single source of truth and a
// user's balance is always reconstructed from their transactions.
type User struct {
	ID                string    // Unique identifier for the user
	Name              string    // Display name, forwarded to the payment gateway
	Email             string    // Contact email, forwarded to the payment gateway
	GatewayCustomerID string    // Customer reference at the payment gateway, empty until first top-up
	CreatedAt         time.Time // When the user was created
	UpdatedAt         time.Time // When the user was last updated
}

// HasGatewayCustomer returns true if a payment customer was already created for this user
func (u *User) HasGatewayCustomer() bool {
	return u.GatewayCustomerID != ""
}
