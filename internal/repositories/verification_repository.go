package repositories

import (
	"errors"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"

	"gorm.io/gorm"
)

// VerificationRepository persists one-time email verification codes. The
// multi-statement operations (issue, consume, the cancellation flows) are
// transactional: a failure mid-sequence rolls the whole step back.
type VerificationRepository interface {
	IssueCode(code *models.EmailVerification, cooldown time.Duration) error
	FindValid(email, code string, now time.Time) (*models.EmailVerification, error)
	Consume(email string) error
	CancelSignup(email string) error
	DeleteForUser(email string, userID uint) error
	DeleteExpired(now time.Time) error
}

// GORMVerificationRepository is a GORM implementation of VerificationRepository.
type GORMVerificationRepository struct {
	db *gorm.DB
}

// NewGORMVerificationRepository creates a new instance of GORMVerificationRepository.
func NewGORMVerificationRepository(db *gorm.DB) *GORMVerificationRepository {
	return &GORMVerificationRepository{db: db}
}

// IssueCode inserts a new code unless one was created for the email within
// the cooldown window. Expired rows for the email are dropped first, and the
// check-then-insert runs inside one transaction so the sequence cannot be
// partially applied.
func (r *GORMVerificationRepository) IssueCode(code *models.EmailVerification, cooldown time.Duration) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Where("email = ? AND expires_at < ?", code.Email, now).
			Delete(&models.EmailVerification{}).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.EmailVerification{}).
			Where("email = ? AND created_at > ?", code.Email, now.Add(-cooldown)).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.NewCooldown("a verification code was issued recently, retry in 5 minutes")
		}

		return tx.Create(code).Error
	})
	if err != nil {
		if apperrors.IsCooldown(err) {
			return err
		}
		return apperrors.NewDatabase("failed to issue verification code", err)
	}
	return nil
}

// FindValid returns the row matching email+code that has not expired. A
// wrong code and an expired one are indistinguishable to the caller.
func (r *GORMVerificationRepository) FindValid(email, code string, now time.Time) (*models.EmailVerification, error) {
	var row models.EmailVerification
	err := r.db.First(&row, "email = ? AND code = ? AND expires_at > ?", email, code, now).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("verification code not found")
		}
		return nil, apperrors.NewDatabase("failed to look up verification code", err)
	}
	return &row, nil
}

// Consume deletes every code for the email and flips the owning user's
// verified flag, atomically.
func (r *GORMVerificationRepository) Consume(email string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).
			Delete(&models.EmailVerification{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("email = ?", email).
			Update("is_verified", true).Error
	})
	if err != nil {
		return apperrors.NewDatabase("failed to consume verification code", err)
	}
	return nil
}

// CancelSignup deletes the verification rows and, if the user is still
// unverified, the placeholder user row. Code deletion must precede user
// deletion because of the foreign-key dependency; both happen atomically.
func (r *GORMVerificationRepository) CancelSignup(email string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).
			Delete(&models.EmailVerification{}).Error; err != nil {
			return err
		}
		return tx.Where("email = ? AND is_verified = ?", email, false).
			Delete(&models.User{}).Error
	})
	if err != nil {
		return apperrors.NewDatabase("failed to cancel signup", err)
	}
	return nil
}

// DeleteForUser removes the verification rows for an email/user pair, used by
// the password-reset cancellation flow.
func (r *GORMVerificationRepository) DeleteForUser(email string, userID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("email = ? AND user_id = ?", email, userID).
			Delete(&models.EmailVerification{}).Error
	})
	if err != nil {
		return apperrors.NewDatabase("failed to delete verification info", err)
	}
	return nil
}

func (r *GORMVerificationRepository) DeleteExpired(now time.Time) error {
	if err := r.db.Where("expires_at < ?", now).
		Delete(&models.EmailVerification{}).Error; err != nil {
		return apperrors.NewDatabase("failed to purge expired verification codes", err)
	}
	return nil
}
