package repository

import (
	"context"

	"blog/internal/models"
	"blog/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the data operations on posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: newRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]any{"id": post.ID, "author_id": post.AuthorID})
	return nil
}

// GetByID loads a post with its author and its comments, oldest first.
// It returns gorm.ErrRecordNotFound for unknown ids.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()

	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns every post, newest publication first.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("published_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update writes every column of post. Associations are left untouched.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return err
	}
	r.log.LogUpdate(ctx, map[string]any{"id": post.ID})
	return nil
}

// Delete removes the post's comments, then the post itself, and reports how
// many comments went with it. Callers run it inside a transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) (int64, error) {
	defer observability.TrackQuery("delete", "posts")()

	db := r.db.WithContext(ctx)

	comments := db.Where("post_id = ?", id).Delete(&models.Comment{})
	if comments.Error != nil {
		r.log.LogError(ctx, comments.Error, "delete")
		return 0, comments.Error
	}

	res := db.Delete(&models.Post{}, id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	r.log.LogDelete(ctx, map[string]any{"id": id, "comments_removed": comments.RowsAffected})
	return comments.RowsAffected, nil
}
