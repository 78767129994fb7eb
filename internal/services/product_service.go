package services

import (
	"aura/internal/models"
	"aura/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// ListProducts applies the browse filters and returns one page plus the
// total count.
func (s *ProductService) ListProducts(q models.ProductQuery) ([]models.Product, int64, error) {
	return s.repo.List(q)
}

// Suggestions returns product-name completions for the keyword.
func (s *ProductService) Suggestions(keyword string) ([]string, error) {
	return s.repo.Suggestions(keyword, 10)
}

// TopSellingByCategory returns the eight best sellers of each category.
func (s *ProductService) TopSellingByCategory() (map[string][]models.Product, error) {
	return s.repo.TopSellingByCategory(8)
}
