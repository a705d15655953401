package credit

import (
	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/domain/port/payment"
	"github.com/blockforge/credit-ledger/internal/domain/port/persistence"
	"github.com/blockforge/credit-ledger/internal/domain/port/usecase"
)

// Policy selects which ledger strategy serves a deployment. The choice is
// made once at process start and injected into callers; no runtime type
// switching happens afterwards.
type Policy struct {
	// EnableCredit turns the ledger on. When false, every operation is a
	// no-op and the other fields are ignored.
	EnableCredit bool
	// EnableBetaMonthlyRefill grants RefillAmount credits on the first
	// balance check of each month.
	EnableBetaMonthlyRefill bool
	// RefillAmount is the monthly grant for the beta strategy.
	RefillAmount int64
}

// NewCreditUseCase builds the ledger strategy selected by the policy
func NewCreditUseCase(
	policy Policy,
	transactionRepo persistence.TransactionRepository,
	userRepo persistence.UserRepository,
	gateway payment.Gateway,
	locker coreport.UserLocker,
	costEngine *CostEngine,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.CreditUseCase {
	if !policy.EnableCredit {
		return NewDisabledService()
	}

	service := NewService(transactionRepo, userRepo, gateway, locker, costEngine, timeProvider, logger)
	if policy.EnableBetaMonthlyRefill {
		return NewBetaService(service, policy.RefillAmount)
	}
	return service
}
