package repositories

import (
	"sync"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"
)

// MockVerificationRepository is an in-memory implementation of
// VerificationRepository. It maintains a verified-flag map in place of the
// users table so Consume can flip it the way the GORM implementation does.
type MockVerificationRepository struct {
	codes    map[uint]models.EmailVerification
	verified map[string]bool
	nextID   uint
	mu       sync.RWMutex
}

// NewMockVerificationRepository creates a new instance of MockVerificationRepository.
func NewMockVerificationRepository() *MockVerificationRepository {
	return &MockVerificationRepository{
		codes:    make(map[uint]models.EmailVerification),
		verified: make(map[string]bool),
		nextID:   1,
	}
}

func (r *MockVerificationRepository) IssueCode(code *models.EmailVerification, cooldown time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, row := range r.codes {
		if row.Email == code.Email && row.Expired(now) {
			delete(r.codes, id)
		}
	}
	for _, row := range r.codes {
		if row.Email == code.Email && row.CreatedAt.After(now.Add(-cooldown)) {
			return apperrors.NewCooldown("a verification code was issued recently, retry in 5 minutes")
		}
	}

	code.ID = r.nextID
	r.nextID++
	if code.CreatedAt.IsZero() {
		code.CreatedAt = now
	}
	r.codes[code.ID] = *code
	return nil
}

func (r *MockVerificationRepository) FindValid(email, code string, now time.Time) (*models.EmailVerification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.codes {
		if row.Email == email && row.Code == code && !row.Expired(now) {
			found := row
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFound("verification code not found")
}

func (r *MockVerificationRepository) Consume(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.codes {
		if row.Email == email {
			delete(r.codes, id)
		}
	}
	r.verified[email] = true
	return nil
}

func (r *MockVerificationRepository) CancelSignup(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.codes {
		if row.Email == email {
			delete(r.codes, id)
		}
	}
	return nil
}

func (r *MockVerificationRepository) DeleteForUser(email string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.codes {
		if row.Email == email && row.UserID == userID {
			delete(r.codes, id)
		}
	}
	return nil
}

func (r *MockVerificationRepository) DeleteExpired(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.codes {
		if row.Expired(now) {
			delete(r.codes, id)
		}
	}
	return nil
}

// Verified reports whether Consume flipped the flag for the email.
func (r *MockVerificationRepository) Verified(email string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.verified[email]
}

// ActiveCodes reports the stored rows for the email, for test assertions.
func (r *MockVerificationRepository) ActiveCodes(email string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, row := range r.codes {
		if row.Email == email {
			count++
		}
	}
	return count
}
