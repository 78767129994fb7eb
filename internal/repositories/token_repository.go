package repositories

import (
	"errors"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"

	"gorm.io/gorm"
)

// TokenRepository persists refresh tokens. Access tokens are never stored.
type TokenRepository interface {
	Save(token *models.RefreshToken) error
	FindByToken(token string) (*models.RefreshToken, error)
	DeleteForPrincipal(p models.Principal) error
	DeleteExpired(now time.Time) error
}

// GORMTokenRepository is a GORM implementation of TokenRepository.
type GORMTokenRepository struct {
	db *gorm.DB
}

// NewGORMTokenRepository creates a new instance of GORMTokenRepository.
func NewGORMTokenRepository(db *gorm.DB) *GORMTokenRepository {
	return &GORMTokenRepository{db: db}
}

func (r *GORMTokenRepository) Save(token *models.RefreshToken) error {
	if err := r.db.Create(token).Error; err != nil {
		return apperrors.NewDatabase("failed to save refresh token", err)
	}
	return nil
}

func (r *GORMTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	if err := r.db.First(&row, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("refresh token not found")
		}
		return nil, apperrors.NewDatabase("failed to look up refresh token", err)
	}
	return &row, nil
}

// DeleteForPrincipal removes every refresh token for the principal. Logout
// semantics: revoke all sessions for that id, not just the current token.
func (r *GORMTokenRepository) DeleteForPrincipal(p models.Principal) error {
	query := r.db.Where("is_admin = ?", p.IsAdmin())
	if p.IsAdmin() {
		query = query.Where("admin_id = ?", p.ID)
	} else {
		query = query.Where("user_id = ?", p.ID)
	}
	if err := query.Delete(&models.RefreshToken{}).Error; err != nil {
		return apperrors.NewDatabase("failed to invalidate refresh tokens", err)
	}
	return nil
}

func (r *GORMTokenRepository) DeleteExpired(now time.Time) error {
	if err := r.db.Where("expires_at < ?", now).Delete(&models.RefreshToken{}).Error; err != nil {
		return apperrors.NewDatabase("failed to purge expired refresh tokens", err)
	}
	return nil
}
