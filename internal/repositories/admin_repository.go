package repositories

import (
	"errors"

	"aura/internal/apperrors"
	"aura/internal/models"

	"gorm.io/gorm"
)

// AdminRepository defines the interface for admin account data access.
type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByID(id uint) (*models.Admin, error)
	GetByEmail(email string) (*models.Admin, error)
	List() ([]models.Admin, error)
	Update(admin *models.Admin) error
	Delete(id uint) error
}

// GORMAdminRepository is a GORM implementation of AdminRepository.
type GORMAdminRepository struct {
	db *gorm.DB
}

// NewGORMAdminRepository creates a new instance of GORMAdminRepository.
func NewGORMAdminRepository(db *gorm.DB) *GORMAdminRepository {
	return &GORMAdminRepository{db: db}
}

func (r *GORMAdminRepository) Create(admin *models.Admin) error {
	if err := r.db.Create(admin).Error; err != nil {
		return apperrors.NewDatabase("failed to create admin", err)
	}
	return nil
}

func (r *GORMAdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, "admin_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("admin not found")
		}
		return nil, apperrors.NewDatabase("failed to get admin by id", err)
	}
	return &admin, nil
}

func (r *GORMAdminRepository) GetByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("admin not found")
		}
		return nil, apperrors.NewDatabase("failed to get admin by email", err)
	}
	return &admin, nil
}

func (r *GORMAdminRepository) List() ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.Find(&admins).Error; err != nil {
		return nil, apperrors.NewDatabase("failed to list admins", err)
	}
	return admins, nil
}

func (r *GORMAdminRepository) Update(admin *models.Admin) error {
	if err := r.db.Save(admin).Error; err != nil {
		return apperrors.NewDatabase("failed to update admin", err)
	}
	return nil
}

func (r *GORMAdminRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Admin{}, "admin_id = ?", id).Error; err != nil {
		return apperrors.NewDatabase("failed to delete admin", err)
	}
	return nil
}
