// Package seed loads the demo fixtures: one author and a batch of posts.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blog/internal/database"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

const (
	DefaultPosts   = 20
	FixtureBody    = "Lorem ipsum dolor sit amet"
	fixtureFirst   = "Jesus"
	fixtureLast    = "Christ"
	imageURLFormat = "https://picsum.photos/id/%d/300/200"
)

// Options configuration for the seeder
type Options struct {
	Posts int
	Clean bool
}

// Result is what LoadFixtures inserted.
type Result struct {
	Author *models.Author
	Posts  []*models.Post
}

type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	now   func() time.Time
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:    db,
		faker: gofakeit.New(0),
		now:   time.Now,
	}
}

// ClearAll removes every comment, post and author.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return database.WithinTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return clearTables(tx)
	})
}

func clearTables(tx *gorm.DB) error {
	for _, model := range []interface{}{&models.Comment{}, &models.Post{}, &models.Author{}} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// LoadFixtures inserts one author and opts.Posts posts titled "Article #N",
// all sharing the same publication time, in one transaction.
func (s *Seeder) LoadFixtures(ctx context.Context, opts Options) (*Result, error) {
	if opts.Posts < 0 {
		return nil, fmt.Errorf("post count must not be negative, got %d", opts.Posts)
	}

	result := &Result{}
	err := database.WithinTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if opts.Clean {
			if err := clearTables(tx); err != nil {
				return err
			}
		}

		repos := repository.New(tx)

		author := &models.Author{Firstname: fixtureFirst, Lastname: fixtureLast}
		if err := repos.Authors.Create(ctx, author); err != nil {
			return fmt.Errorf("create author: %w", err)
		}
		result.Author = author

		publishedAt := s.now().UTC().Truncate(time.Second)
		for i := 0; i < opts.Posts; i++ {
			post := &models.Post{
				Title:       fmt.Sprintf("Article #%d", i),
				Body:        FixtureBody,
				Image:       fmt.Sprintf(imageURLFormat, s.faker.Number(1, 100)),
				NbLikes:     s.faker.Number(1, 1000),
				PublishedAt: publishedAt,
				AuthorID:    &author.ID,
			}
			if err := repos.Posts.Create(ctx, post); err != nil {
				return fmt.Errorf("create post %d: %w", i, err)
			}
			result.Posts = append(result.Posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "fixtures loaded",
		slog.Int("authors", 1),
		slog.Int("posts", len(result.Posts)),
	)
	return result, nil
}
