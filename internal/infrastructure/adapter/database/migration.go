package database

import (
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/model"
)

// Migrate creates or updates the ledger schema. The unique index on
// (user_id, transaction_key) comes from the model tags and is what the
// idempotency guarantees rest on, so a migration failure is fatal.
func Migrate(db *gorm.DB, logger coreport.Logger) error {
	logger.Info("Running database migrations", nil)

	if err := db.AutoMigrate(
		&model.User{},
		&model.CreditTransaction{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("Database migrations completed", nil)
	return nil
}
