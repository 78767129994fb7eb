package repositories

import (
	"errors"

	"aura/internal/apperrors"
	"aura/internal/models"

	"gorm.io/gorm"
)

// sortableProductFields whitelists the ORDER BY targets so no caller-supplied
// string ever reaches the SQL text.
var sortableProductFields = map[string]string{
	"price":       "price",
	"final_price": "final_price",
	"name":        "name",
	"sales_count": "sales_count",
	"created_at":  "created_at",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, apperrors.NewDatabase("failed to list products", err)
	}
	return products, nil
}

func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("product not found")
		}
		return nil, apperrors.NewDatabase("failed to get product", err)
	}
	return &product, nil
}

// List applies the browse filters and returns one page plus the total count
// matching the filters.
func (r *GORMProductRepository) List(q models.ProductQuery) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if q.Name != "" {
		query = query.Where("name LIKE ?", "%"+q.Name+"%")
	}
	if q.PriceFrom > 0 && q.PriceTo > 0 {
		query = query.Where("final_price BETWEEN ? AND ?", q.PriceFrom, q.PriceTo)
	} else if q.PriceFrom > 0 {
		query = query.Where("final_price >= ?", q.PriceFrom)
	} else if q.PriceTo > 0 {
		query = query.Where("final_price <= ?", q.PriceTo)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Tag != "" {
		query = query.Where("tags LIKE ?", "%"+q.Tag+"%")
	}
	if q.Event != "" {
		query = query.Where("what_event = ?", q.Event)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("failed to count products", err)
	}

	if q.Sort != "" {
		field, direction := splitSort(q.Sort)
		if column, ok := sortableProductFields[field]; ok {
			query = query.Order(column + " " + direction)
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	var products []models.Product
	if err := query.Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("failed to list products", err)
	}
	return products, total, nil
}

// splitSort parses "<field>_asc" / "<field>_desc" sort parameters.
func splitSort(sort string) (field, direction string) {
	const ascSuffix, descSuffix = "_asc", "_desc"
	switch {
	case len(sort) > len(ascSuffix) && sort[len(sort)-len(ascSuffix):] == ascSuffix:
		return sort[:len(sort)-len(ascSuffix)], "ASC"
	case len(sort) > len(descSuffix) && sort[len(sort)-len(descSuffix):] == descSuffix:
		return sort[:len(sort)-len(descSuffix)], "DESC"
	default:
		return sort, "DESC"
	}
}

// Suggestions returns product names matching the keyword, for search-as-you-type.
func (r *GORMProductRepository) Suggestions(keyword string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	var names []string
	if err := r.db.Model(&models.Product{}).
		Where("name LIKE ?", "%"+keyword+"%").
		Order("sales_count DESC").
		Limit(limit).
		Pluck("name", &names).Error; err != nil {
		return nil, apperrors.NewDatabase("failed to fetch suggestions", err)
	}
	return names, nil
}

// TopSellingByCategory returns the best sellers per category.
func (r *GORMProductRepository) TopSellingByCategory(perCategory int) (map[string][]models.Product, error) {
	if perCategory <= 0 {
		perCategory = 8
	}
	var categories []string
	if err := r.db.Model(&models.Product{}).Distinct("category").
		Where("category <> ''").Pluck("category", &categories).Error; err != nil {
		return nil, apperrors.NewDatabase("failed to list categories", err)
	}

	result := make(map[string][]models.Product, len(categories))
	for _, category := range categories {
		var products []models.Product
		if err := r.db.Where("category = ?", category).
			Order("sales_count DESC").
			Limit(perCategory).
			Find(&products).Error; err != nil {
			return nil, apperrors.NewDatabase("failed to fetch top sellers", err)
		}
		result[category] = products
	}
	return result, nil
}

func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return apperrors.NewDatabase("failed to create product", err)
	}
	return nil
}

func (r *GORMProductRepository) Update(product *models.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		return apperrors.NewDatabase("failed to update product", err)
	}
	return nil
}

func (r *GORMProductRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Product{}, "product_id = ?", id).Error; err != nil {
		return apperrors.NewDatabase("failed to delete product", err)
	}
	return nil
}
