package services

import (
	"aura/internal/models"
	"aura/internal/repositories"
)

// ContentService serves the secondary contents feed.
type ContentService struct {
	contentRepo repositories.ContentRepository
}

// NewContentService creates a new ContentService.
func NewContentService(contentRepo repositories.ContentRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo}
}

// ListContents returns one page of the feed (ten entries) plus the total
// matching the search term.
func (s *ContentService) ListContents(q models.ContentQuery) ([]models.Content, int64, error) {
	return s.contentRepo.List(q, 10)
}
