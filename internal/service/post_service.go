package service

import (
	"context"
	"errors"
	"time"

	"blog/internal/models"
	"blog/internal/observability"
	"blog/internal/repository"
	"blog/internal/validation"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo   repository.PostRepository
	authorRepo repository.AuthorRepository
	now        func() time.Time
}

func NewPostService(postRepo repository.PostRepository, authorRepo repository.AuthorRepository) *PostService {
	return &PostService{
		postRepo:   postRepo,
		authorRepo: authorRepo,
		now:        time.Now,
	}
}

// ListPosts returns every post, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// GetPost loads a post with author and comments.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, postLookupError(id, err)
	}
	return post, nil
}

// CreatePost validates form and inserts one post. Invalid input is returned
// as validation.FieldErrors.
func (s *PostService) CreatePost(ctx context.Context, form validation.PostForm) (*models.Post, error) {
	in, errs := form.Validate(true)
	if errs == nil {
		errs = validation.FieldErrors{}
	}
	if in != nil {
		if err := s.checkAuthor(ctx, in.AuthorID, errs); err != nil {
			return nil, err
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		Body:        in.Body,
		Image:       in.Image,
		AuthorID:    in.AuthorID,
		PublishedAt: in.PublishedAt,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.RecordContentEvent(observability.EventPostCreated)
	return post, nil
}

// UpdatePost binds form onto the stored post and stamps UpdatedAt.
// PublishedAt, likes and comments are never touched.
func (s *PostService) UpdatePost(ctx context.Context, id uint, form validation.PostForm) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	in, errs := form.Validate(false)
	if errs == nil {
		errs = validation.FieldErrors{}
	}
	if in != nil {
		if err := s.checkAuthor(ctx, in.AuthorID, errs); err != nil {
			return nil, err
		}
	}
	if err := errs.OrNil(); err != nil {
		return post, err
	}

	in.Apply(post)
	post.Touch(s.now().UTC())

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	observability.RecordContentEvent(observability.EventPostUpdated)
	return post, nil
}

// DeletePost removes the post and its comments, returning the number of
// comments removed.
func (s *PostService) DeletePost(ctx context.Context, id uint) (int64, error) {
	if _, err := s.GetPost(ctx, id); err != nil {
		return 0, err
	}

	removed, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return 0, postLookupError(id, err)
	}

	observability.RecordContentEvent(observability.EventPostDeleted)
	return removed, nil
}

func (s *PostService) checkAuthor(ctx context.Context, authorID *uint, errs validation.FieldErrors) error {
	if authorID == nil {
		return nil
	}
	if _, err := s.authorRepo.GetByID(ctx, *authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("author_id", "Please choose a valid author.")
			return nil
		}
		return err
	}
	return nil
}
