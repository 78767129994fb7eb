package repositories

import "aura/internal/models"

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	List(q models.ProductQuery) ([]models.Product, int64, error)
	Suggestions(keyword string, limit int) ([]string, error)
	TopSellingByCategory(perCategory int) (map[string][]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
