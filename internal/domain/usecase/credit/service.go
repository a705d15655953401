package credit

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/domain/port/payment"
	"github.com/blockforge/credit-ledger/internal/domain/port/persistence"
	"github.com/blockforge/credit-ledger/internal/domain/port/usecase"
)

// Service is the standard ledger strategy: balances are reconstructed from
// the append-only transaction ledger, debits are serialized per user, and
// external top-ups are reconciled exactly once.
type Service struct {
	ledgerCore
	costEngine *CostEngine
	userRepo   persistence.UserRepository
	gateway    payment.Gateway
}

// NewService creates the standard credit ledger service
func NewService(
	transactionRepo persistence.TransactionRepository,
	userRepo persistence.UserRepository,
	gateway payment.Gateway,
	locker coreport.UserLocker,
	costEngine *CostEngine,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		ledgerCore: ledgerCore{
			transactionRepo: transactionRepo,
			locker:          locker,
			timeProvider:    timeProvider,
			logger:          logger,
		},
		costEngine: costEngine,
		userRepo:   userRepo,
		gateway:    gateway,
	}
}

// GetCredits returns the user's current balance
func (s *Service) GetCredits(ctx context.Context, userID string) (int64, error) {
	if err := validateUserID(userID); err != nil {
		return 0, err
	}

	balance, _, err := s.resolveBalance(ctx, userID, s.timeProvider.Now())
	return balance, err
}

// SpendCredits charges the user for a block invocation and returns the amount
// charged. No matching cost rule means a zero charge and no ledger write.
func (s *Service) SpendCredits(
	ctx context.Context,
	userID, blockID string,
	inputData map[string]any,
	dataSize, runTime float64,
) (int64, error) {
	if err := validateUserID(userID); err != nil {
		return 0, err
	}

	cost, matchedFilter := s.costEngine.Compute(blockID, inputData, dataSize, runTime)
	if cost == 0 {
		s.logger.Debug("Block invocation is free of charge", map[string]any{
			"user_id":  userID,
			"block_id": blockID,
		})
		return 0, nil
	}

	_, err := s.addTransaction(ctx, addTransactionParams{
		userID:          userID,
		amount:          -cost,
		transactionType: entity.TypeUsage,
		isActive:        true,
		blockID:         blockID,
		metadata: map[string]any{
			"block": blockID,
			"input": matchedFilter,
		},
	})
	if err != nil {
		return 0, err
	}
	return cost, nil
}

// TopUpCredits credits the user immediately, bypassing the payment gateway.
// Used for manual grants and promotional credit.
func (s *Service) TopUpCredits(ctx context.Context, userID string, amount int64) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := validateTopUpAmount(amount); err != nil {
		return err
	}

	_, err := s.addTransaction(ctx, addTransactionParams{
		userID:          userID,
		amount:          amount,
		transactionType: entity.TypeTopUp,
		isActive:        true,
	})
	return err
}

// TopUpIntent creates a checkout session at the payment gateway, stakes a
// pending top-up transaction keyed by the session ID and returns the session
// redirect URL. The gateway call happens before the ledger lock is taken.
func (s *Service) TopUpIntent(ctx context.Context, userID string, amount int64) (string, error) {
	if err := validateUserID(userID); err != nil {
		return "", err
	}
	if err := validateTopUpAmount(amount); err != nil {
		return "", err
	}

	customerID, err := s.gatewayCustomerID(ctx, userID)
	if err != nil {
		return "", err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, customerID, amount)
	if err != nil {
		return "", err
	}

	_, err = s.addTransaction(ctx, addTransactionParams{
		userID:          userID,
		amount:          amount,
		transactionType: entity.TypeTopUp,
		isActive:        false,
		transactionKey:  session.ID,
		metadata: map[string]any{
			"checkout_session": session.ID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to stake pending top-up: %w", err)
	}

	s.logger.Info("Top-up intent created", map[string]any{
		"user_id":    userID,
		"amount":     amount,
		"session_id": session.ID,
	})
	return session.URL, nil
}

// FulfillCheckout reconciles a pending top-up against the gateway's
// authoritative payment status. Safe to call any number of times for the same
// session: once the transaction is active, further calls are no-ops.
func (s *Service) FulfillCheckout(ctx context.Context, req usecase.FulfillRequest) error {
	if err := validateFulfillRequest(req); err != nil {
		return err
	}

	transaction, err := s.transactionRepo.FindLatestPendingTopUp(ctx, req.SessionID, req.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			// Nothing pending: either already fulfilled or never staked.
			return nil
		}
		return err
	}

	session, err := s.gateway.RetrieveSession(ctx, transaction.Key())
	if err != nil {
		return err
	}

	if !payment.IsSuccessful(session.PaymentStatus) {
		s.logger.Info("Checkout not paid yet, skipping fulfillment", map[string]any{
			"user_id":        transaction.UserID,
			"session_id":     session.ID,
			"payment_status": session.PaymentStatus,
		})
		return nil
	}

	return s.enableTransaction(ctx, transaction.UserID, transaction.Key(), map[string]any{
		"checkout_session": session.ID,
		"payment_status":   session.PaymentStatus,
	})
}

// gatewayCustomerID returns the user's customer reference at the payment
// gateway, creating and persisting one on first use
func (s *Service) gatewayCustomerID(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.HasGatewayCustomer() {
		return user.GatewayCustomerID, nil
	}

	customerID, err := s.gateway.CreateCustomer(ctx, user.Name, user.Email)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.SetGatewayCustomerID(ctx, userID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}
