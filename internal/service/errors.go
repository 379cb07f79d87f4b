// Package service holds the blog use cases on top of the repositories.
package service

import (
	"errors"

	"blog/internal/models"

	"gorm.io/gorm"
)

// postLookupError converts a repository lookup failure into the public
// "Post not found." error when the row does not exist.
func postLookupError(id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewPostNotFoundError(id)
	}
	return err
}
