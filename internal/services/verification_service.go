package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"
	"aura/internal/repositories"
)

const (
	verificationCodeTTL      = 5 * time.Minute
	verificationCooldown     = 5 * time.Minute
	verificationCodeNumBytes = 16 // 32 hex characters
)

// VerificationService owns the one-time code lifecycle used by signup
// confirmation and password reset.
type VerificationService struct {
	verificationRepo repositories.VerificationRepository
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(verificationRepo repositories.VerificationRepository) *VerificationService {
	return &VerificationService{verificationRepo: verificationRepo}
}

// Issue generates a cryptographically random single-use code for the email,
// expiring after five minutes. A code created within the cooldown window for
// the same email rejects the request with a cooldown error.
func (s *VerificationService) Issue(email string, userID uint) (string, error) {
	buf := make([]byte, verificationCodeNumBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	code := hex.EncodeToString(buf)

	now := time.Now()
	row := &models.EmailVerification{
		UserID:    userID,
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(verificationCodeTTL),
	}
	if err := s.verificationRepo.IssueCode(row, verificationCooldown); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the code: on a match before expiry it deletes every code
// for the email and marks the owning user verified, returning true exactly
// once. A wrong and an expired code both return false with no distinction.
func (s *VerificationService) Verify(email, code string) (bool, error) {
	_, err := s.verificationRepo.FindValid(email, code, time.Now())
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := s.verificationRepo.Consume(email); err != nil {
		return false, err
	}
	return true, nil
}

// CancelSignup tears down an in-flight registration: verification rows first,
// then the unverified placeholder user, in one transaction.
func (s *VerificationService) CancelSignup(email string) error {
	return s.verificationRepo.CancelSignup(email)
}

// CancelForUser removes the pending codes for an email/user pair, used when a
// password reset is abandoned.
func (s *VerificationService) CancelForUser(email string, userID uint) error {
	return s.verificationRepo.DeleteForUser(email, userID)
}

// CleanupExpired purges codes past their expiry. Invoked by the periodic
// cleanup task.
func (s *VerificationService) CleanupExpired() error {
	return s.verificationRepo.DeleteExpired(time.Now())
}
