package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const txLocalsKey = "tx"

// UnitOfWork opens one transaction per request and stores it in the Fiber locals.
// The transaction is committed when the handler chain returns no error and a
// status below 500; every other outcome rolls it back.
func UnitOfWork(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		tx := db.WithContext(c.UserContext()).Begin()
		if tx.Error != nil {
			return tx.Error
		}
		c.Locals(txLocalsKey, tx)

		committed := false
		defer func() {
			if committed {
				return
			}
			if rbErr := tx.Rollback().Error; rbErr != nil {
				Logger.WarnContext(c.UserContext(), "transaction rollback failed", slog.String("error", rbErr.Error()))
			}
		}()

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
			return err
		}

		if err = tx.Commit().Error; err != nil {
			Logger.ErrorContext(c.UserContext(), "transaction commit failed", slog.String("error", err.Error()))
			return err
		}
		committed = true
		return nil
	}
}

// Tx returns the request transaction opened by UnitOfWork, or fallback when the
// route runs outside one.
func Tx(c *fiber.Ctx, fallback *gorm.DB) *gorm.DB {
	if tx, ok := c.Locals(txLocalsKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback.WithContext(c.UserContext())
}
