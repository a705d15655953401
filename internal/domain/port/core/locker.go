package core

import "context"

// UserLocker serializes ledger mutations per user. The lock is named, never
// global: acquiring one user's lock must not block operations on another user.
//
// Implementations may be an in-process keyed mutex (single-process deployment)
// or a distributed lock keyed by the same name (multi-process deployment); the
// contract is identical either way.
type UserLocker interface {
	// Acquire blocks until the named lock is held or ctx is done.
	//
	// Possible errors:
	// - ctx.Err(): If the context is canceled or times out while waiting
	// - ErrDatabaseConnection: If a remote lock backend is unreachable
	Acquire(ctx context.Context, name string) error

	// Release releases a previously acquired lock. It must be called exactly
	// once per successful Acquire, including on failure of the locked body.
	Release(ctx context.Context, name string) error
}

// UserLockName returns the lock name guarding a user's ledger
func UserLockName(userID string) string {
	return "usr_trx_" + userID
}
