package credit

import (
	"context"
	"sync"
	"time"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
	errs "github.com/blockforge/credit-ledger/internal/domain/error"
)

// stubClock is a deterministic time provider. Every Now call moves the clock
// forward by step so created transactions get strictly increasing timestamps.
type stubClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStubClock(start time.Time) *stubClock {
	return &stubClock{now: start, step: time.Second}
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *stubClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(t)
}

func (c *stubClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// chanLocker is a minimal in-test UserLocker built on one-slot channels
type chanLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newChanLocker() *chanLocker {
	return &chanLocker{slots: map[string]chan struct{}{}}
}

func (l *chanLocker) slot(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[name]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[name] = slot
	}
	return slot
}

func (l *chanLocker) Acquire(ctx context.Context, name string) error {
	select {
	case l.slot(name) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *chanLocker) Release(_ context.Context, name string) error {
	<-l.slot(name)
	return nil
}

// memLedger is an in-memory TransactionRepository used for end-to-end ledger
// scenarios and concurrency properties
type memLedger struct {
	mu           sync.Mutex
	transactions []*entity.CreditTransaction
	nextID       uint64
}

func newMemLedger() *memLedger {
	return &memLedger{}
}

func (r *memLedger) Create(_ context.Context, transaction *entity.CreditTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.TransactionKey != nil {
		for _, existing := range r.transactions {
			if existing.UserID == transaction.UserID && existing.Key() == transaction.Key() {
				return errs.ErrDuplicateTransaction
			}
		}
	}

	r.nextID++
	stored := *transaction
	stored.ID = r.nextID
	r.transactions = append(r.transactions, &stored)
	transaction.ID = stored.ID
	return nil
}

func (r *memLedger) FindLatestSnapshot(_ context.Context, userID string, asOf time.Time) (*entity.CreditTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *entity.CreditTransaction
	for _, transaction := range r.transactions {
		if transaction.UserID != userID || !transaction.IsActive ||
			transaction.RunningBalance == nil || transaction.CreatedAt.After(asOf) {
			continue
		}
		if latest == nil || !transaction.CreatedAt.Before(latest.CreatedAt) {
			latest = transaction
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *memLedger) SumActiveAmounts(_ context.Context, userID string, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum int64
	for _, transaction := range r.transactions {
		if transaction.UserID != userID || !transaction.IsActive {
			continue
		}
		if transaction.CreatedAt.Before(from) || transaction.CreatedAt.After(to) {
			continue
		}
		sum += transaction.Amount
	}
	return sum, nil
}

func (r *memLedger) FindByKey(_ context.Context, userID, transactionKey string) (*entity.CreditTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, transaction := range r.transactions {
		if transaction.UserID == userID && transaction.Key() == transactionKey {
			copied := *transaction
			return &copied, nil
		}
	}
	return nil, errs.ErrTransactionNotFound
}

func (r *memLedger) FindLatestPendingTopUp(_ context.Context, sessionID, userID string) (*entity.CreditTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *entity.CreditTransaction
	for _, transaction := range r.transactions {
		if transaction.Type != entity.TypeTopUp || transaction.IsActive {
			continue
		}
		if sessionID != "" && transaction.Key() != sessionID {
			continue
		}
		if userID != "" && transaction.UserID != userID {
			continue
		}
		if latest == nil || !transaction.CreatedAt.Before(latest.CreatedAt) {
			latest = transaction
		}
	}
	if latest == nil {
		return nil, errs.ErrTransactionNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *memLedger) Activate(_ context.Context, userID, transactionKey string, runningBalance int64, activatedAt time.Time, metadata map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, transaction := range r.transactions {
		if transaction.UserID == userID && transaction.Key() == transactionKey {
			transaction.IsActive = true
			transaction.RunningBalance = &runningBalance
			transaction.CreatedAt = activatedAt
			transaction.Metadata = metadata
			return nil
		}
	}
	return errs.ErrTransactionNotFound
}

// count returns how many stored transactions satisfy the predicate
func (r *memLedger) count(predicate func(*entity.CreditTransaction) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, transaction := range r.transactions {
		if predicate(transaction) {
			n++
		}
	}
	return n
}
