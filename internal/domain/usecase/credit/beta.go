package credit

import (
	"context"
	"fmt"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
	errs "github.com/blockforge/credit-ledger/internal/domain/error"
)

// BetaService extends the standard ledger with an automatic monthly refill:
// the first balance check in a new month grants a fixed amount of credits.
// The grant is keyed by year and month so concurrent requests cannot refill
// twice; a duplicate-key collision means another request already won.
type BetaService struct {
	*Service
	refillAmount int64
}

// NewBetaService wraps a standard service with monthly refill behavior
func NewBetaService(service *Service, refillAmount int64) *BetaService {
	return &BetaService{
		Service:      service,
		refillAmount: refillAmount,
	}
}

// refillKey is the idempotency key for a month's grant
func refillKey(year int, month int) string {
	return fmt.Sprintf("REFILL-%d-%02d", year, month)
}

// GetCredits returns the balance, refilling first if the latest snapshot
// belongs to a previous month. Monthly snapshots never carry across months,
// so the refill amount becomes the month's opening balance; any remainder
// from the previous month is intentionally discarded.
func (s *BetaService) GetCredits(ctx context.Context, userID string) (int64, error) {
	if err := validateUserID(userID); err != nil {
		return 0, err
	}

	now := s.timeProvider.Now()
	balance, snapshotTime, err := s.resolveBalance(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	if snapshotTime.Year() == now.Year() && snapshotTime.Month() == now.Month() {
		return balance, nil
	}

	err = s.withUserLock(ctx, userID, func(ctx context.Context) error {
		grant, err := entity.NewCreditTransaction(userID, s.refillAmount, entity.TypeGrant, s.timeProvider)
		if err != nil {
			return err
		}
		grant.WithKey(refillKey(now.Year(), int(now.Month()))).
			WithRunningBalance(s.refillAmount)

		return s.transactionRepo.Create(ctx, grant)
	})
	if err != nil {
		if !errs.IsDuplicateTransactionError(err) {
			return 0, err
		}
		// Another request refilled this month first; report current state.
		balance, _, err := s.resolveBalance(ctx, userID, s.timeProvider.Now())
		return balance, err
	}

	s.logger.Info("Monthly credit refill granted", map[string]any{
		"user_id": userID,
		"amount":  s.refillAmount,
		"key":     refillKey(now.Year(), int(now.Month())),
	})
	return s.refillAmount, nil
}
