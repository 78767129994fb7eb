package repositories

import (
	"sync"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"
)

// MockTokenRepository is an in-memory implementation of TokenRepository.
type MockTokenRepository struct {
	tokens map[uint]models.RefreshToken
	nextID uint
	mu     sync.RWMutex
}

// NewMockTokenRepository creates a new instance of MockTokenRepository.
func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{
		tokens: make(map[uint]models.RefreshToken),
		nextID: 1,
	}
}

func (r *MockTokenRepository) Save(token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token.ID = r.nextID
	r.nextID++
	token.CreatedAt = time.Now()
	r.tokens[token.ID] = *token
	return nil
}

func (r *MockTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.tokens {
		if row.Token == token {
			found := row
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFound("refresh token not found")
}

func (r *MockTokenRepository) DeleteForPrincipal(p models.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.tokens {
		if row.Principal() == p {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *MockTokenRepository) DeleteExpired(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.tokens {
		if row.ExpiresAt.Before(now) {
			delete(r.tokens, id)
		}
	}
	return nil
}

// Count reports the stored rows, for test assertions.
func (r *MockTokenRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}
