package repositories

import (
	"aura/internal/apperrors"
	"aura/internal/models"

	"gorm.io/gorm"
)

// sortableContentFields whitelists the feed's ORDER BY targets.
var sortableContentFields = map[string]string{
	"title":         "title",
	"publishedDate": "published_date",
	"contentId":     "content_id",
}

// ContentRepository defines the interface for the contents feed.
type ContentRepository interface {
	List(q models.ContentQuery, limit int) ([]models.Content, int64, error)
	Create(content *models.Content) error
}

// GORMContentRepository is a GORM implementation of ContentRepository.
type GORMContentRepository struct {
	db *gorm.DB
}

// NewGORMContentRepository creates a new instance of GORMContentRepository.
func NewGORMContentRepository(db *gorm.DB) *GORMContentRepository {
	return &GORMContentRepository{db: db}
}

// List returns one page of the feed plus the total matching the search term.
func (r *GORMContentRepository) List(q models.ContentQuery, limit int) ([]models.Content, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	query := r.db.Model(&models.Content{})
	if q.SearchTerm != "" {
		query = query.Where("title LIKE ?", "%"+q.SearchTerm+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("failed to count contents", err)
	}

	order := "published_date DESC"
	if column, ok := sortableContentFields[q.SortField]; ok {
		direction := "DESC"
		if q.SortOrder == "ASC" || q.SortOrder == "asc" {
			direction = "ASC"
		}
		order = column + " " + direction
	}

	var contents []models.Content
	if err := query.Order(order).Limit(limit).Offset((page - 1) * limit).
		Find(&contents).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("failed to list contents", err)
	}
	return contents, total, nil
}

func (r *GORMContentRepository) Create(content *models.Content) error {
	if err := r.db.Create(content).Error; err != nil {
		return apperrors.NewDatabase("failed to create content", err)
	}
	return nil
}
