package services

import (
	"fmt"

	"aura/internal/apperrors"
	"aura/internal/models"
	"aura/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// AdminService covers the back-office operations: user management, admin
// account management and product CRUD.
type AdminService struct {
	userRepo    repositories.UserRepository
	adminRepo   repositories.AdminRepository
	productRepo repositories.ProductRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	userRepo repositories.UserRepository,
	adminRepo repositories.AdminRepository,
	productRepo repositories.ProductRepository,
) *AdminService {
	return &AdminService{userRepo: userRepo, adminRepo: adminRepo, productRepo: productRepo}
}

// ListUsers returns every active user.
func (s *AdminService) ListUsers() ([]models.User, error) {
	return s.userRepo.ListActive()
}

// SearchUsers returns active users whose email contains the keyword.
func (s *AdminService) SearchUsers(emailKeyword string) ([]models.User, error) {
	return s.userRepo.SearchByEmail(emailKeyword)
}

// UpdateUser applies profile changes to an existing user.
func (s *AdminService) UpdateUser(id uint, changes *models.User) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if changes.Username != "" {
		user.Username = changes.Username
	}
	if changes.Address != "" {
		user.Address = changes.Address
	}
	if changes.PhoneNumber != "" {
		user.PhoneNumber = changes.PhoneNumber
	}
	return s.userRepo.Update(user)
}

// DeactivateUser flips the user inactive, keeping the row.
func (s *AdminService) DeactivateUser(id uint) error {
	return s.userRepo.Deactivate(id)
}

// ListAdmins returns every admin account.
func (s *AdminService) ListAdmins() ([]models.Admin, error) {
	return s.adminRepo.List()
}

// CreateAdmin adds an admin account; a duplicate email is a conflict.
func (s *AdminService) CreateAdmin(admin *models.Admin) error {
	_, err := s.adminRepo.GetByEmail(admin.Email)
	if err == nil {
		return apperrors.NewConflict("email address is already in use")
	}
	if !apperrors.IsNotFound(err) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.Password = string(hashed)
	return s.adminRepo.Create(admin)
}

// UpdateAdmin applies changes to an existing admin account.
func (s *AdminService) UpdateAdmin(id uint, changes *models.Admin) error {
	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		return err
	}
	if changes.Username != "" {
		admin.Username = changes.Username
	}
	if changes.Email != "" {
		admin.Email = changes.Email
	}
	return s.adminRepo.Update(admin)
}

// DeleteAdmin removes an admin account.
func (s *AdminService) DeleteAdmin(id uint) error {
	return s.adminRepo.Delete(id)
}

// GetProducts lists the full catalog for the admin panel.
func (s *AdminService) GetProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// AddProduct inserts a product, deriving the final price from the discount.
func (s *AdminService) AddProduct(product *models.Product) error {
	if product.FinalPrice == 0 {
		product.FinalPrice = product.Price * (1 - product.DiscountRate/100)
	}
	return s.productRepo.Create(product)
}

// UpdateProduct replaces a product's fields.
func (s *AdminService) UpdateProduct(id uint, changes *models.Product) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	changes.ID = product.ID
	if changes.FinalPrice == 0 {
		changes.FinalPrice = changes.Price * (1 - changes.DiscountRate/100)
	}
	changes.CreatedAt = product.CreatedAt
	return s.productRepo.Update(changes)
}

// DeleteProduct removes a product.
func (s *AdminService) DeleteProduct(id uint) error {
	return s.productRepo.Delete(id)
}
