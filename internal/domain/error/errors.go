package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequestBody   = 4000
	CodeInsufficientBalance  = 4001
	CodeInvalidAmount        = 4002
	CodeInvalidUserID        = 4003
	CodeDuplicateTransaction = 4004
	CodeInvalidFulfillment   = 4005
	CodeUserNotFound         = 4040
	CodeTransactionNotFound  = 4041

	// 5xxx - Server errors
	CodeExternalPayment = 5020
	CodeInternalServer  = 5000
)

// Base error types
var (
	// ErrInsufficientBalance is returned when a debit would drive the balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned when a top-up amount is negative
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrInvalidUserID is returned when the user ID is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidTransactionType is returned when the transaction type is not one of the allowed values
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrDuplicateTransaction is returned when a transaction with the same (user, key) already exists
	ErrDuplicateTransaction = errors.New("transaction with this key already exists")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidFulfillRequest is returned when fulfillment is requested with both
	// or neither of session ID and user ID
	ErrInvalidFulfillRequest = errors.New("exactly one of session ID or user ID must be provided")

	// ErrExternalPayment is returned when the payment gateway cannot be reached
	// or rejects a request; the ledger is never mutated in that case
	ErrExternalPayment = errors.New("external payment gateway error")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrInvalidFulfillRequest):
		return CodeInvalidFulfillment
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrExternalPayment):
		return CodeExternalPayment
	default:
		return CodeInternalServer
	}
}

// InsufficientBalanceError provides detailed error information for insufficient balance
type InsufficientBalanceError struct {
	UserID      string
	Amount      int64
	CurrBalance int64
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %s: required %d, available %d",
		e.UserID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID string, amount, currentBalance int64) error {
	return &InsufficientBalanceError{
		UserID:      userID,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// PaymentGatewayError wraps a failure from the external payment gateway.
// The caller owns retry policy; nothing is retried internally.
type PaymentGatewayError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *PaymentGatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *PaymentGatewayError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrExternalPayment
func (e *PaymentGatewayError) Is(target error) bool {
	return target == ErrExternalPayment
}

// LogFields returns a map of fields for structured logging
func (e *PaymentGatewayError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "payment_gateway",
		"operation":  e.Operation,
		"error":      e.Err.Error(),
		"error_code": CodeExternalPayment,
	}
}

// NewPaymentGatewayError wraps a gateway failure with the operation that caused it
func NewPaymentGatewayError(operation string, err error) error {
	return &PaymentGatewayError{Operation: operation, Err: err}
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsDuplicateTransactionError checks if the error is a duplicate transaction error
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrTransactionNotFound)
}

// IsExternalPaymentError checks if the error came from the payment gateway
func IsExternalPaymentError(err error) bool {
	return errors.Is(err, ErrExternalPayment)
}

// IsValidationError checks if the error is a synchronous input rejection
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidFulfillRequest)
}
