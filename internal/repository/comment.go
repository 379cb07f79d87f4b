package repository

import (
	"context"

	"blog/internal/models"
	"blog/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines the data operations on comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: newRepoLogger("comments")}
}

// Create inserts the comment. A PostgreSQL foreign key violation means the
// post vanished and is reported as a post not-found error.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		if isForeignKeyViolation(err) {
			return models.NewPostNotFoundError(comment.PostID)
		}
		return err
	}
	r.log.LogCreate(ctx, map[string]any{"id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	defer observability.TrackQuery("list", "comments")()

	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	defer observability.TrackQuery("count", "comments")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
