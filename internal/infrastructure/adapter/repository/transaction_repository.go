package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/model"
)

// TransactionRepository implements the transaction ledger store using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.CreditTransaction) (model.CreditTransaction, error) {
	metadata, err := json.Marshal(transaction.Metadata)
	if err != nil {
		return model.CreditTransaction{}, fmt.Errorf("failed to encode transaction metadata: %w", err)
	}

	return model.CreditTransaction{
		UserID:         transaction.UserID,
		Amount:         transaction.Amount,
		Type:           string(transaction.Type),
		TransactionKey: transaction.TransactionKey,
		RunningBalance: transaction.RunningBalance,
		IsActive:       transaction.IsActive,
		BlockID:        transaction.BlockID,
		Metadata:       string(metadata),
		CreatedAt:      transaction.CreatedAt,
	}, nil
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.CreditTransaction) *entity.CreditTransaction {
	metadata := map[string]any{}
	if m.Metadata != "" {
		// Metadata is provenance only; a decode failure should not make the
		// transaction unreadable.
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			r.logger.Warn("Failed to decode transaction metadata", map[string]any{
				"transaction_id": m.ID,
				"error":          err.Error(),
			})
		}
	}

	return &entity.CreditTransaction{
		ID:             m.ID,
		UserID:         m.UserID,
		Amount:         m.Amount,
		Type:           entity.TransactionType(m.Type),
		TransactionKey: m.TransactionKey,
		RunningBalance: m.RunningBalance,
		IsActive:       m.IsActive,
		BlockID:        m.BlockID,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt,
	}
}

// Create appends a new transaction to the ledger
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.CreditTransaction) error {
	transactionModel, err := r.entityToModel(transaction)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate transaction key", map[string]any{
				"user_id":         transaction.UserID,
				"transaction_key": transaction.Key(),
			})
			return errs.ErrDuplicateTransaction
		}

		r.logger.Error("Failed to create transaction", map[string]any{
			"user_id": transaction.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transaction.ID = transactionModel.ID
	return nil
}

// FindLatestSnapshot returns the newest active transaction with a running
// balance at or before asOf, or nil when the user has no snapshot yet
func (r *TransactionRepository) FindLatestSnapshot(ctx context.Context, userID string, asOf time.Time) (*entity.CreditTransaction, error) {
	var transactionModel model.CreditTransaction
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND running_balance IS NOT NULL AND created_at <= ?",
			userID, true, asOf).
		Order("created_at DESC").
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to find balance snapshot", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel), nil
}

// SumActiveAmounts sums active transaction amounts within [from, to]
func (r *TransactionRepository) SumActiveAmounts(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	var sum int64
	result := r.db.WithContext(ctx).
		Model(&model.CreditTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND is_active = ? AND created_at >= ? AND created_at <= ?",
			userID, true, from, to).
		Scan(&sum)

	if result.Error != nil {
		r.logger.Error("Failed to sum transaction amounts", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return sum, nil
}

// FindByKey retrieves a transaction by its (user, key) identity
func (r *TransactionRepository) FindByKey(ctx context.Context, userID, transactionKey string) (*entity.CreditTransaction, error) {
	var transactionModel model.CreditTransaction
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND transaction_key = ?", userID, transactionKey).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction by key", map[string]any{
			"user_id":         userID,
			"transaction_key": transactionKey,
			"error":           result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel), nil
}

// FindLatestPendingTopUp returns the newest inactive top-up matching the
// session ID or the user ID, whichever is provided
func (r *TransactionRepository) FindLatestPendingTopUp(ctx context.Context, sessionID, userID string) (*entity.CreditTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", string(entity.TypeTopUp), false)
	if sessionID != "" {
		query = query.Where("transaction_key = ?", sessionID)
	}
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var transactionModel model.CreditTransaction
	result := query.Order("created_at DESC").First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to find pending top-up", map[string]any{
			"session_id": sessionID,
			"user_id":    userID,
			"error":      result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel), nil
}

// Activate flips a pending transaction to active, stamping its running
// balance and moving its ordering timestamp to the activation time
func (r *TransactionRepository) Activate(ctx context.Context, userID, transactionKey string, runningBalance int64, activatedAt time.Time, metadata map[string]any) error {
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode transaction metadata: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&model.CreditTransaction{}).
		Where("user_id = ? AND transaction_key = ?", userID, transactionKey).
		Updates(map[string]interface{}{
			"is_active":       true,
			"running_balance": runningBalance,
			"created_at":      activatedAt,
			"metadata":        string(encoded),
		})

	if result.Error != nil {
		r.logger.Error("Failed to activate transaction", map[string]any{
			"user_id":         userID,
			"transaction_key": transactionKey,
			"error":           result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}

	return nil
}
