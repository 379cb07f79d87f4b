package service

import (
	"context"

	"blog/internal/models"
	"blog/internal/observability"
	"blog/internal/repository"
	"blog/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// CreateComment validates form and attaches a new comment to post. The post
// itself is not modified.
func (s *CommentService) CreateComment(ctx context.Context, post *models.Post, form validation.CommentForm) (*models.Comment, error) {
	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	comment := &models.Comment{
		Username: form.Username,
		Body:     form.Body,
		PostID:   post.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.RecordContentEvent(observability.EventCommentCreated)
	return comment, nil
}
