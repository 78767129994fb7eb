package repositories

import (
	"errors"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create inserts a new user row.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return apperrors.NewDatabase("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by their primary key.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, apperrors.NewDatabase("failed to get user by id", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, apperrors.NewDatabase("failed to get user by email", err)
	}
	return &user, nil
}

// GetByUsernameAndPhone supports the find-email flow.
func (r *GORMUserRepository) GetByUsernameAndPhone(username, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ? AND phone_number = ?", username, phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("no matching user")
		}
		return nil, apperrors.NewDatabase("failed to look up user by name and phone", err)
	}
	return &user, nil
}

// Update saves the full user row.
func (r *GORMUserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return apperrors.NewDatabase("failed to update user", err)
	}
	return nil
}

// UpdatePassword replaces the password hash for an email.
func (r *GORMUserRepository) UpdatePassword(email, hashedPassword string) error {
	if err := r.db.Model(&models.User{}).Where("email = ?", email).
		Update("password", hashedPassword).Error; err != nil {
		return apperrors.NewDatabase("failed to update password", err)
	}
	return nil
}

// ListActive returns every active user, for the admin panel.
func (r *GORMUserRepository) ListActive() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("is_active = ?", true).Find(&users).Error; err != nil {
		return nil, apperrors.NewDatabase("failed to list users", err)
	}
	return users, nil
}

// SearchByEmail returns active users whose email contains the keyword.
func (r *GORMUserRepository) SearchByEmail(keyword string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("email LIKE ? AND is_active = ?", "%"+keyword+"%", true).
		Find(&users).Error; err != nil {
		return nil, apperrors.NewDatabase("failed to search users", err)
	}
	if len(users) == 0 {
		return nil, apperrors.NewNotFound("no users matched the search")
	}
	return users, nil
}

// Deactivate flips a user to inactive without deleting the row.
func (r *GORMUserRepository) Deactivate(id uint) error {
	if err := r.db.Model(&models.User{}).Where("user_id = ?", id).
		Update("is_active", false).Error; err != nil {
		return apperrors.NewDatabase("failed to deactivate user", err)
	}
	return nil
}

// DeleteStaleTemp removes unverified placeholder rows older than the cutoff.
// Verification codes referencing them go first because of the foreign key.
func (r *GORMUserRepository) DeleteStaleTemp(olderThan time.Time) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"email IN (?)",
			tx.Model(&models.User{}).Select("email").
				Where("is_verified = ? AND created_at < ?", false, olderThan),
		).Delete(&models.EmailVerification{}).Error; err != nil {
			return err
		}
		return tx.Where("is_verified = ? AND created_at < ?", false, olderThan).
			Delete(&models.User{}).Error
	})
	if err != nil {
		return apperrors.NewDatabase("failed to clean up temp users", err)
	}
	return nil
}
