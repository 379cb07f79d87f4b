// Package repository provides data access layer implementations for the application.
//
// Repositories are bound to a *gorm.DB handle. Request handlers build them from
// the per-request transaction so every query of one request commits or rolls
// back together.
package repository

import (
	"errors"

	"blog/internal/middleware"
	"blog/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repositories groups the repositories bound to one database handle.
type Repositories struct {
	Authors  AuthorRepository
	Posts    PostRepository
	Comments CommentRepository
}

// New binds all repositories to db, usually a request transaction.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Authors:  NewAuthorRepository(db),
		Posts:    NewPostRepository(db),
		Comments: NewCommentRepository(db),
	}
}

const pgForeignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func newRepoLogger(table string) *observability.RepoLogger {
	return observability.NewRepoLogger(table, middleware.Logger)
}
