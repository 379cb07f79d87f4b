package database

import (
	"context"

	"gorm.io/gorm"
)

// WithinTransaction runs fn in a single transaction, rolling back on error or panic.
// HTTP requests get their transaction from middleware.UnitOfWork instead.
func WithinTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
