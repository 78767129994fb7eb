package repositories

import (
	"errors"

	"aura/internal/apperrors"
	"aura/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order and payment data access.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByUserID(userID uint) ([]models.Order, error)
	CreatePayment(payment *models.Payment) error
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return apperrors.NewDatabase("failed to create order", err)
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "order_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order not found")
		}
		return nil, apperrors.NewDatabase("failed to get order", err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetByUserID(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, apperrors.NewDatabase("failed to list orders", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) CreatePayment(payment *models.Payment) error {
	if err := r.db.Create(payment).Error; err != nil {
		return apperrors.NewDatabase("failed to record payment", err)
	}
	return nil
}
