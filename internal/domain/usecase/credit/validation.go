package credit

import (
	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	"github.com/blockforge/credit-ledger/internal/domain/port/usecase"
)

// validateUserID rejects empty user IDs before touching the ledger
func validateUserID(userID string) error {
	if userID == "" {
		return errs.ErrInvalidUserID
	}
	return nil
}

// validateTopUpAmount rejects negative top-up amounts synchronously, before
// any gateway call or ledger mutation is attempted
func validateTopUpAmount(amount int64) error {
	if amount < 0 {
		return errs.ErrInvalidAmount
	}
	return nil
}

// validateFulfillRequest enforces that exactly one of session ID and user ID
// identifies the pending top-up to reconcile
func validateFulfillRequest(req usecase.FulfillRequest) error {
	if (req.SessionID == "") == (req.UserID == "") {
		return errs.ErrInvalidFulfillRequest
	}
	return nil
}
