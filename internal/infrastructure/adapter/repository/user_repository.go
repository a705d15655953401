package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/model"
)

// UserRepository implements the user store using GORM
type UserRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).Where("id = ?", userID).First(&userModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return &entity.User{
		ID:                userModel.ID,
		Name:              userModel.Name,
		Email:             userModel.Email,
		GatewayCustomerID: userModel.GatewayCustomerID,
		CreatedAt:         userModel.CreatedAt,
		UpdatedAt:         userModel.UpdatedAt,
	}, nil
}

// SetGatewayCustomerID stores the payment gateway customer reference
func (r *UserRepository) SetGatewayCustomerID(ctx context.Context, userID, customerID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"gateway_customer_id": customerID,
			"updated_at":          r.timeProvider.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to update user gateway customer", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}
