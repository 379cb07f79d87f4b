package service

import (
	"context"

	"blog/internal/models"

	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context) ([]*models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]*models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) (int64, error) {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context) ([]*models.Post, error) { return nil, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// authorRepoStub is a stub for repository.AuthorRepository.
type authorRepoStub struct {
	listFn    func(context.Context) ([]*models.Author, error)
	getByIDFn func(context.Context, uint) (*models.Author, error)
	createFn  func(context.Context, *models.Author) error
}

func (s *authorRepoStub) List(ctx context.Context) ([]*models.Author, error) {
	return s.listFn(ctx)
}
func (s *authorRepoStub) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	return s.getByIDFn(ctx, id)
}
func (s *authorRepoStub) Create(ctx context.Context, author *models.Author) error {
	return s.createFn(ctx, author)
}

// authorsWithIDs answers GetByID for the given ids only.
func authorsWithIDs(ids ...uint) *authorRepoStub {
	known := make(map[uint]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &authorRepoStub{
		listFn: func(_ context.Context) ([]*models.Author, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Author, error) {
			if !known[id] {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.Author{ID: id}, nil
		},
		createFn: func(_ context.Context, _ *models.Author) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	listByPostFn  func(context.Context, uint) ([]*models.Comment, error)
	countByPostFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		listByPostFn:  func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		countByPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}
