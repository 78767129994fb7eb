package services

import (
	"aura/internal/models"
	"aura/internal/repositories"
)

// UserService serves the account-holder's own profile and order history.
type UserService struct {
	userRepo  repositories.UserRepository
	orderRepo repositories.OrderRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, orderRepo repositories.OrderRepository) *UserService {
	return &UserService{userRepo: userRepo, orderRepo: orderRepo}
}

// GetUserInfo returns the user's own row.
func (s *UserService) GetUserInfo(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateUserInfo applies profile changes to the user's own row.
func (s *UserService) UpdateUserInfo(userID uint, changes *models.User) error {
	user, err := s.userRepo.GetByID(userID)
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

// GetOrders lists the user's own orders.
func (s *UserService) GetOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}
