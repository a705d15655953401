package credit

import (
	"context"
	"fmt"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/domain/port/persistence"
)

// ledgerCore holds the transaction helpers shared by the ledger strategies.
// Any write to the transaction ledger goes through these methods and nothing
// else: they are the only code that acquires the per-user lock.
type ledgerCore struct {
	transactionRepo persistence.TransactionRepository
	locker          coreport.UserLocker
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
}

// withUserLock runs body while holding the user's named ledger lock. The lock
// is released unconditionally, including when body fails. Locks for different
// users are independent; this never serializes across users.
func (c *ledgerCore) withUserLock(ctx context.Context, userID string, body func(ctx context.Context) error) error {
	name := coreport.UserLockName(userID)
	if err := c.locker.Acquire(ctx, name); err != nil {
		return fmt.Errorf("failed to acquire lock for user %s: %w", userID, err)
	}
	defer func() {
		// Release must go through even when the caller's context is done.
		if err := c.locker.Release(context.WithoutCancel(ctx), name); err != nil {
			c.logger.Error("Failed to release user lock", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}()

	return body(ctx)
}

// addTransactionParams describes a transaction to append to the ledger
type addTransactionParams struct {
	userID          string
	amount          int64
	transactionType entity.TransactionType
	isActive        bool
	transactionKey  string
	blockID         string
	metadata        map[string]any
}

// addTransaction appends a transaction under the user's lock, rejecting
// debits that would drive the balance negative. It returns the new balance.
//
// The read-balance-then-write critical section is what makes two concurrent
// debits safe: the second one always observes the first one's write.
func (c *ledgerCore) addTransaction(ctx context.Context, p addTransactionParams) (int64, error) {
	var newBalance int64

	err := c.withUserLock(ctx, p.userID, func(ctx context.Context) error {
		balance, _, err := c.resolveBalance(ctx, p.userID, c.timeProvider.Now())
		if err != nil {
			return fmt.Errorf("failed to resolve balance: %w", err)
		}

		if p.amount < 0 && balance < -p.amount {
			c.logger.Warn("Debit rejected: insufficient balance", map[string]any{
				"user_id": p.userID,
				"amount":  p.amount,
				"balance": balance,
			})
			return errs.NewInsufficientBalanceError(p.userID, -p.amount, balance)
		}

		transaction, err := entity.NewCreditTransaction(p.userID, p.amount, p.transactionType, c.timeProvider)
		if err != nil {
			return err
		}
		if p.transactionKey != "" {
			transaction.WithKey(p.transactionKey)
		}
		transaction.BlockID = p.blockID
		if p.metadata != nil {
			transaction.Metadata = p.metadata
		}
		if p.isActive {
			transaction.WithRunningBalance(balance + p.amount)
		} else {
			transaction.MarkPending()
		}

		if err := c.transactionRepo.Create(ctx, transaction); err != nil {
			return err
		}

		newBalance = balance + p.amount
		return nil
	})
	if err != nil {
		return 0, err
	}

	c.logger.Info("Transaction appended", map[string]any{
		"user_id":     p.userID,
		"amount":      p.amount,
		"type":        string(p.transactionType),
		"is_active":   p.isActive,
		"new_balance": newBalance,
	})
	return newBalance, nil
}

// enableTransaction activates a pending transaction exactly once, computing
// its running balance from the balance at activation time, not creation time.
// Activating an already active transaction is a no-op.
func (c *ledgerCore) enableTransaction(ctx context.Context, userID, transactionKey string, metadata map[string]any) error {
	transaction, err := c.transactionRepo.FindByKey(ctx, userID, transactionKey)
	if err != nil {
		return err
	}
	if transaction.IsActive {
		return nil
	}

	return c.withUserLock(ctx, userID, func(ctx context.Context) error {
		// Re-check under the lock: a concurrent fulfillment may have won the
		// race between the check above and lock acquisition.
		transaction, err := c.transactionRepo.FindByKey(ctx, userID, transactionKey)
		if err != nil {
			return err
		}
		if transaction.IsActive {
			return nil
		}

		balance, _, err := c.resolveBalance(ctx, userID, c.timeProvider.Now())
		if err != nil {
			return fmt.Errorf("failed to resolve balance: %w", err)
		}

		if err := c.transactionRepo.Activate(
			ctx, userID, transactionKey,
			balance+transaction.Amount, c.timeProvider.Now(), metadata,
		); err != nil {
			return err
		}

		c.logger.Info("Pending transaction activated", map[string]any{
			"user_id":         userID,
			"transaction_key": transactionKey,
			"amount":          transaction.Amount,
			"new_balance":     balance + transaction.Amount,
		})
		return nil
	})
}
