package repository

import (
	"context"

	"blog/internal/models"
	"blog/internal/observability"

	"gorm.io/gorm"
)

// AuthorRepository defines the data operations on authors.
type AuthorRepository interface {
	List(ctx context.Context) ([]*models.Author, error)
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	Create(ctx context.Context, author *models.Author) error
}

type authorRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db, log: newRepoLogger("authors")}
}

// List returns every author ordered by last name.
func (r *authorRepository) List(ctx context.Context) ([]*models.Author, error) {
	defer observability.TrackQuery("list", "authors")()

	var authors []*models.Author
	err := r.db.WithContext(ctx).
		Order("lastname ASC").
		Order("firstname ASC").
		Order("id ASC").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *authorRepository) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	defer observability.TrackQuery("get", "authors")()

	var author models.Author
	if err := r.db.WithContext(ctx).First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	defer observability.TrackQuery("create", "authors")()

	if err := r.db.WithContext(ctx).Create(author).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]any{"id": author.ID})
	return nil
}
