package service

import (
	"context"

	"blog/internal/models"
	"blog/internal/repository"
)

type AuthorService struct {
	authorRepo repository.AuthorRepository
}

func NewAuthorService(authorRepo repository.AuthorRepository) *AuthorService {
	return &AuthorService{authorRepo: authorRepo}
}

// ListAuthors returns every author ordered by last name.
func (s *AuthorService) ListAuthors(ctx context.Context) ([]*models.Author, error) {
	return s.authorRepo.List(ctx)
}
