package credit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/logger"
	mockcore "github.com/blockforge/credit-ledger/mocks/port/core"
	mockpayment "github.com/blockforge/credit-ledger/mocks/port/payment"
	mockpersistence "github.com/blockforge/credit-ledger/mocks/port/persistence"
)

func newBetaFixture(t *testing.T, refillAmount int64) (*BetaService, *memLedger, *stubClock) {
	t.Helper()

	ledger := newMemLedger()
	clock := newStubClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	service := NewService(
		ledger,
		new(mockpersistence.MockUserRepository),
		new(mockpayment.MockGateway),
		newChanLocker(),
		NewCostEngine(testSchedule),
		clock,
		logger.NewNoopLogger(),
	)
	return NewBetaService(service, refillAmount), ledger, clock
}

func TestBetaService_GetCredits(t *testing.T) {
	ctx := context.Background()

	t.Run("first check of a month grants the refill", func(t *testing.T) {
		beta, ledger, _ := newBetaFixture(t, 500)

		balance, err := beta.GetCredits(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(500), balance)

		grants := ledger.count(func(tx *entity.CreditTransaction) bool {
			return tx.Type == entity.TypeGrant && tx.Key() == "REFILL-2024-03" &&
				tx.IsActive && tx.RunningBalance != nil && *tx.RunningBalance == 500
		})
		assert.Equal(t, 1, grants)
	})

	t.Run("same month checks do not refill again", func(t *testing.T) {
		beta, ledger, _ := newBetaFixture(t, 500)

		_, err := beta.GetCredits(ctx, "user-1")
		require.NoError(t, err)
		_, err = beta.SpendCredits(ctx, "user-1", "llm-call", map[string]any{"model": "gpt-4"}, 0, 0)
		require.NoError(t, err)

		balance, err := beta.GetCredits(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(470), balance)
		grants := ledger.count(func(tx *entity.CreditTransaction) bool {
			return tx.Type == entity.TypeGrant
		})
		assert.Equal(t, 1, grants)
	})

	t.Run("new month replaces the previous balance with the refill", func(t *testing.T) {
		beta, ledger, clock := newBetaFixture(t, 500)

		_, err := beta.GetCredits(ctx, "user-1")
		require.NoError(t, err)
		_, err = beta.SpendCredits(ctx, "user-1", "llm-call", map[string]any{"model": "gpt-4"}, 0, 0)
		require.NoError(t, err)

		clock.advance(31 * 24 * time.Hour)

		balance, err := beta.GetCredits(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(500), balance)

		grants := ledger.count(func(tx *entity.CreditTransaction) bool {
			return tx.Type == entity.TypeGrant
		})
		assert.Equal(t, 2, grants)
	})

	t.Run("duplicate grant collision defers to the winner", func(t *testing.T) {
		repo := new(mockpersistence.MockTransactionRepository)
		locker := new(mockcore.MockUserLocker)
		now := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)
		service := NewService(
			repo,
			new(mockpersistence.MockUserRepository),
			new(mockpayment.MockGateway),
			locker,
			NewCostEngine(nil),
			newTestClockProvider(now),
			logger.NewNoopLogger(),
		)
		beta := NewBetaService(service, 500)

		locker.On("Acquire", mock.Anything, "usr_trx_user-1").Return(nil)
		locker.On("Release", mock.Anything, "usr_trx_user-1").Return(nil)

		// First resolve: stale snapshot from March triggers the refill.
		running := int64(120)
		repo.On("FindLatestSnapshot", mock.Anything, "user-1", now).Return(&entity.CreditTransaction{
			RunningBalance: &running, IsActive: true,
			CreatedAt: time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC),
		}, nil).Once()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(tx *entity.CreditTransaction) bool {
			return tx.Key() == "REFILL-2024-04"
		})).Return(errs.ErrDuplicateTransaction)

		// Re-resolve after the collision: the winner's grant is now visible.
		winnerBalance := int64(500)
		repo.On("FindLatestSnapshot", mock.Anything, "user-1", now).Return(&entity.CreditTransaction{
			RunningBalance: &winnerBalance, IsActive: true, CreatedAt: now,
		}, nil).Once()

		balance, err := beta.GetCredits(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(500), balance)
		repo.AssertExpectations(t)
	})

	t.Run("spending is inherited from the standard strategy", func(t *testing.T) {
		beta, _, _ := newBetaFixture(t, 500)

		_, err := beta.GetCredits(ctx, "user-1")
		require.NoError(t, err)

		cost, err := beta.SpendCredits(ctx, "user-1", "transcribe", nil, 0, 10)

		assert.NoError(t, err)
		assert.Equal(t, int64(20), cost)
	})

	t.Run("empty user id is rejected", func(t *testing.T) {
		beta, _, _ := newBetaFixture(t, 500)

		_, err := beta.GetCredits(ctx, "")

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestRefillKey(t *testing.T) {
	assert.Equal(t, "REFILL-2024-03", refillKey(2024, 3))
	assert.Equal(t, "REFILL-2025-12", refillKey(2025, 12))
}
