package repositories

import (
	"time"

	"aura/internal/models"
)

// UserRepository defines the interface for user data access. Lookups return
// an apperrors NotFound for missing rows, never a nil-and-nil pair, so
// callers can always distinguish absence from a store failure.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsernameAndPhone(username, phone string) (*models.User, error)
	Update(user *models.User) error
	UpdatePassword(email, hashedPassword string) error
	ListActive() ([]models.User, error)
	SearchByEmail(keyword string) ([]models.User, error)
	Deactivate(id uint) error
	DeleteStaleTemp(olderThan time.Time) error
}
