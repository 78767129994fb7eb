package services

import (
	"fmt"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"
	"aura/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// TokenClaims is the signed claim set carried by both token kinds. Access
// tokens are stateless; refresh tokens are additionally persisted so logout
// and forced revocation are possible.
type TokenClaims struct {
	ID      uint `json:"id"`
	IsAdmin bool `json:"isAdmin"`
	jwt.StandardClaims
}

// Principal reconstructs the tagged identity from the decoded claims.
func (c *TokenClaims) Principal() models.Principal {
	return models.NewPrincipal(c.ID, c.IsAdmin)
}

// TokenService issues, decodes and persists tokens. Access and refresh
// tokens are signed with distinct secrets.
type TokenService struct {
	tokenRepo     repositories.TokenRepository
	accessSecret  []byte
	refreshSecret []byte
}

// NewTokenService creates a new TokenService.
func NewTokenService(tokenRepo repositories.TokenRepository, accessSecret, refreshSecret string) *TokenService {
	return &TokenService{
		tokenRepo:     tokenRepo,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

func (s *TokenService) sign(p models.Principal, secret []byte, ttl time.Duration) (string, error) {
	if p.ID == 0 {
		return "", apperrors.NewValidation("principal id is not set")
	}
	now := time.Now()
	claims := TokenClaims{
		ID:      p.ID,
		IsAdmin: p.IsAdmin(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) decode(tokenString string, secret []byte) (models.Principal, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return models.Principal{}, apperrors.NewAuthorization("invalid or expired token")
	}
	return claims.Principal(), nil
}

// GenerateAccessToken signs a 15-minute access token. It fails fast when the
// principal id is unset.
func (s *TokenService) GenerateAccessToken(p models.Principal) (string, error) {
	return s.sign(p, s.accessSecret, accessTokenTTL)
}

// GenerateRefreshToken signs a 7-day refresh token with the refresh secret.
func (s *TokenService) GenerateRefreshToken(p models.Principal) (string, error) {
	return s.sign(p, s.refreshSecret, refreshTokenTTL)
}

// DecodeAccessToken verifies signature and expiry of an access token.
func (s *TokenService) DecodeAccessToken(tokenString string) (models.Principal, error) {
	return s.decode(tokenString, s.accessSecret)
}

// DecodeRefreshToken verifies signature and expiry of a refresh token.
func (s *TokenService) DecodeRefreshToken(tokenString string) (models.Principal, error) {
	return s.decode(tokenString, s.refreshSecret)
}

// SaveRefreshToken persists the refresh token with a server-computed expiry
// mirroring the token's own claim.
func (s *TokenService) SaveRefreshToken(p models.Principal, token string) error {
	row := models.NewRefreshTokenRow(p, token, time.Now().Add(refreshTokenTTL))
	return s.tokenRepo.Save(row)
}

// InvalidateRefreshTokens revokes every stored session for the principal.
func (s *TokenService) InvalidateRefreshTokens(p models.Principal) error {
	return s.tokenRepo.DeleteForPrincipal(p)
}

// VerifyRefreshTokenInDatabase checks that the stored row exists and has not
// expired. It does not verify the cryptographic signature; that happens
// separately when the claims are decoded.
func (s *TokenService) VerifyRefreshTokenInDatabase(token string) (models.Principal, bool, error) {
	row, err := s.tokenRepo.FindByToken(token)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return models.Principal{}, false, nil
		}
		return models.Principal{}, false, err
	}
	if row.ExpiresAt.Before(time.Now()) {
		return models.Principal{}, false, nil
	}
	return row.Principal(), true, nil
}

// CleanupExpired purges refresh-token rows past their expiry. Invoked by the
// periodic cleanup task.
func (s *TokenService) CleanupExpired() error {
	return s.tokenRepo.DeleteExpired(time.Now())
}
