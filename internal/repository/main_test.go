package repository

import (
	"testing"
	"time"

	"blog/internal/database"
	"blog/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a PostgreSQL-dialect GORM handle backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns a migrated in-memory database private to the test.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func seedPost(t *testing.T, db *gorm.DB, title string, publishedAt time.Time, authorID *uint) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       title,
		Body:        "Lorem ipsum dolor sit amet",
		PublishedAt: publishedAt,
		AuthorID:    authorID,
	}
	require.NoError(t, NewPostRepository(db).Create(t.Context(), post))
	return post
}
