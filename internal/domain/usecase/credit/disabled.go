package credit

import (
	"context"

	"github.com/blockforge/credit-ledger/internal/domain/port/usecase"
)

// DisabledService is the no-op ledger strategy used when billing is turned
// off: everything succeeds, nothing is charged and nothing is recorded.
type DisabledService struct{}

// NewDisabledService creates the no-op ledger strategy
func NewDisabledService() *DisabledService {
	return &DisabledService{}
}

// GetCredits always reports a zero balance
func (s *DisabledService) GetCredits(context.Context, string) (int64, error) {
	return 0, nil
}

// SpendCredits never charges anything
func (s *DisabledService) SpendCredits(context.Context, string, string, map[string]any, float64, float64) (int64, error) {
	return 0, nil
}

// TopUpCredits is a no-op
func (s *DisabledService) TopUpCredits(context.Context, string, int64) error {
	return nil
}

// TopUpIntent returns an empty redirect URL without contacting the gateway
func (s *DisabledService) TopUpIntent(context.Context, string, int64) (string, error) {
	return "", nil
}

// FulfillCheckout is a no-op
func (s *DisabledService) FulfillCheckout(context.Context, usecase.FulfillRequest) error {
	return nil
}
