package credit

import (
	"context"
	"time"

	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
)

// resolveBalance reconstructs the user's balance as of the given time and
// returns it together with the snapshot's creation time.
//
// Two tiers: first the most recent active transaction carrying a running
// balance is consulted, which keeps the common case to a single indexed
// lookup. Only when no snapshot exists (first transaction of the month, or no
// history at all) are the current month's active transactions summed.
// Snapshots are never assumed to persist across month boundaries, so the
// fallback window starts at the first of the current month.
//
// When the fallback is taken, the returned snapshot time is the zero
// time.Time, which callers treat as "no snapshot".
func (c *ledgerCore) resolveBalance(ctx context.Context, userID string, asOf time.Time) (int64, time.Time, error) {
	snapshot, err := c.transactionRepo.FindLatestSnapshot(ctx, userID, asOf)
	if err != nil {
		return 0, time.Time{}, err
	}
	if snapshot != nil && snapshot.RunningBalance != nil {
		return *snapshot.RunningBalance, snapshot.CreatedAt, nil
	}

	sum, err := c.transactionRepo.SumActiveAmounts(ctx, userID, coreport.StartOfMonth(asOf), asOf)
	if err != nil {
		return 0, time.Time{}, err
	}
	return sum, time.Time{}, nil
}
