package services

import (
	"fmt"
	"log"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"
	"aura/internal/repositories"
	"aura/pkg/rabbitmq"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const staleTempUserAge = 48 * time.Hour

// AuthService orchestrates the signup, login and password-reset flows over
// the credential store, the verification-code issuer and the token service.
type AuthService struct {
	userRepo        repositories.UserRepository
	adminRepo       repositories.AdminRepository
	verificationSvc *VerificationService
	tokenSvc        *TokenService
	mqClient        *rabbitmq.Client
	emailFrom       string
}

// NewAuthService creates a new AuthService. mqClient may be nil, in which
// case outbound mail jobs are skipped (tests).
func NewAuthService(
	userRepo repositories.UserRepository,
	adminRepo repositories.AdminRepository,
	verificationSvc *VerificationService,
	tokenSvc *TokenService,
	mqClient *rabbitmq.Client,
	emailFrom string,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		adminRepo:       adminRepo,
		verificationSvc: verificationSvc,
		tokenSvc:        tokenSvc,
		mqClient:        mqClient,
		emailFrom:       emailFrom,
	}
}

// CheckEmailAvailability reports whether no user row holds the email.
func (s *AuthService) CheckEmailAvailability(email string) (bool, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// ValidateCredentials checks email+password against the table selected by
// the wire-level isAdmin flag and returns the resolved principal. Bad email
// and bad password are indistinguishable to the caller.
func (s *AuthService) ValidateCredentials(email, password string, isAdmin bool) (models.Principal, *models.UserInfo, error) {
	if isAdmin {
		admin, err := s.adminRepo.GetByEmail(email)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return models.Principal{}, nil, apperrors.NewAuthentication("invalid credentials")
			}
			return models.Principal{}, nil, err
		}
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
			return models.Principal{}, nil, apperrors.NewAuthentication("invalid credentials")
		}
		p := models.Principal{Kind: models.PrincipalAdmin, ID: admin.ID}
		info := &models.UserInfo{ID: admin.ID, Email: admin.Email, Username: admin.Username, IsAdmin: true}
		return p, info, nil
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return models.Principal{}, nil, apperrors.NewAuthentication("invalid credentials")
		}
		return models.Principal{}, nil, err
	}
	// Placeholder rows carry the sentinel password, which can never satisfy
	// a bcrypt comparison, but the verified flag is checked explicitly too.
	if !user.IsVerified {
		return models.Principal{}, nil, apperrors.NewAuthentication("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.Principal{}, nil, apperrors.NewAuthentication("invalid credentials")
	}
	p := models.Principal{Kind: models.PrincipalUser, ID: user.ID}
	info := &models.UserInfo{ID: user.ID, Email: user.Email, Username: user.Username, IsAdmin: false}
	return p, info, nil
}

// Login validates credentials, issues an access/refresh token pair and
// persists the refresh token.
func (s *AuthService) Login(email, password string, isAdmin bool) (accessToken, refreshToken string, info *models.UserInfo, err error) {
	principal, info, err := s.ValidateCredentials(email, password, isAdmin)
	if err != nil {
		return "", "", nil, err
	}

	accessToken, err = s.tokenSvc.GenerateAccessToken(principal)
	if err != nil {
		return "", "", nil, err
	}
	refreshToken, err = s.tokenSvc.GenerateRefreshToken(principal)
	if err != nil {
		return "", "", nil, err
	}
	if err = s.tokenSvc.SaveRefreshToken(principal, refreshToken); err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, info, nil
}

// Logout revokes every refresh token for the principal.
func (s *AuthService) Logout(p models.Principal) error {
	return s.tokenSvc.InvalidateRefreshTokens(p)
}

// LoginWithGoogle signs in a user whose identity Google has already
// attested. A first-time email, and an in-flight signup placeholder, both
// become a verified account with an unguessable password; password login
// stays closed until the user resets it. Only an account an admin has
// deactivated (verified but inactive) is refused.
func (s *AuthService) LoginWithGoogle(email, name string) (accessToken, refreshToken string, info *models.UserInfo, err error) {
	user, err := s.userRepo.GetByEmail(email)
	switch {
	case apperrors.IsNotFound(err):
		hashed, herr := unusableRandomPassword()
		if herr != nil {
			return "", "", nil, herr
		}
		user = &models.User{
			Email:      email,
			Username:   name,
			Password:   hashed,
			IsActive:   true,
			IsVerified: true,
		}
		if err = s.userRepo.Create(user); err != nil {
			return "", "", nil, err
		}
	case err != nil:
		return "", "", nil, err
	case !user.IsVerified:
		// A signup placeholder: Google's attestation stands in for the
		// verification code, so the row is promoted instead of refused.
		hashed, herr := unusableRandomPassword()
		if herr != nil {
			return "", "", nil, herr
		}
		user.Username = name
		user.Password = hashed
		user.IsActive = true
		user.IsVerified = true
		if err = s.userRepo.Update(user); err != nil {
			return "", "", nil, err
		}
	case !user.IsActive:
		return "", "", nil, apperrors.NewAuthorization("account is deactivated")
	}

	principal := models.Principal{Kind: models.PrincipalUser, ID: user.ID}
	accessToken, err = s.tokenSvc.GenerateAccessToken(principal)
	if err != nil {
		return "", "", nil, err
	}
	refreshToken, err = s.tokenSvc.GenerateRefreshToken(principal)
	if err != nil {
		return "", "", nil, err
	}
	if err = s.tokenSvc.SaveRefreshToken(principal, refreshToken); err != nil {
		return "", "", nil, err
	}
	info = &models.UserInfo{ID: user.ID, Email: user.Email, Username: user.Username, IsAdmin: false}
	return accessToken, refreshToken, info, nil
}

// StartEmailVerification creates (or reuses) the placeholder user row,
// issues a verification code and queues the mail job. An already-verified
// email is a conflict.
func (s *AuthService) StartEmailVerification(email string) error {
	var userID uint
	user, err := s.userRepo.GetByEmail(email)
	switch {
	case err == nil && user.IsVerified:
		return apperrors.NewConflict("email is already registered")
	case err == nil:
		userID = user.ID
	case apperrors.IsNotFound(err):
		temp := &models.User{
			Email:      email,
			Password:   models.UnusablePassword,
			IsActive:   false,
			IsVerified: false,
		}
		if err := s.userRepo.Create(temp); err != nil {
			return err
		}
		userID = temp.ID
	default:
		return err
	}

	code, err := s.verificationSvc.Issue(email, userID)
	if err != nil {
		return err
	}

	s.sendCodeEmail(email, "Verify your email address",
		fmt.Sprintf("<h1>Your verification code: %s</h1><p>Enter this code in the app to finish verifying your email.</p>", code))
	return nil
}

// VerifyCode consumes the code, flipping the user's verified flag on success.
func (s *AuthService) VerifyCode(email, code string) (bool, error) {
	return s.verificationSvc.Verify(email, code)
}

// CompleteSignup promotes a verified placeholder row to a full account. It
// rejects when the stored row is missing or its verified flag is false,
// regardless of the request body content.
func (s *AuthService) CompleteSignup(req *models.SignupRequest) error {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidation("email verification must be completed first")
		}
		return err
	}
	if !user.IsVerified {
		return apperrors.NewValidation("email verification must be completed first")
	}
	if user.IsActive {
		return apperrors.NewConflict("account is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Username = req.Username
	user.Password = string(hashed)
	user.Address = req.Address
	user.PhoneNumber = req.PhoneNumber
	user.IsActive = true
	user.IsVerified = true
	return s.userRepo.Update(user)
}

// CancelSignup aborts an in-flight registration.
func (s *AuthService) CancelSignup(email string) error {
	return s.verificationSvc.CancelSignup(email)
}

// FindEmail recovers an email address from username and phone number.
func (s *AuthService) FindEmail(username, phone string) (string, error) {
	user, err := s.userRepo.GetByUsernameAndPhone(username, phone)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// RequestPasswordReset issues a reset code for an existing user and queues
// the mail job. Unknown emails surface as not found.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}

	code, err := s.verificationSvc.Issue(email, user.ID)
	if err != nil {
		return err
	}

	s.sendCodeEmail(email, "Password reset verification",
		fmt.Sprintf("<h1>Your password reset code: %s</h1><p>Enter this code to continue resetting your password.</p>", code))
	return nil
}

// ResetPassword verifies the code and replaces the password hash.
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.verificationSvc.Verify(email, code)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidation("invalid verification code")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(email, string(hashed))
}

// CancelPasswordReset abandons a pending reset for an existing user.
func (s *AuthService) CancelPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	return s.verificationSvc.CancelForUser(email, user.ID)
}

// UserInfo resolves the principal to its public projection.
func (s *AuthService) UserInfo(p models.Principal) (*models.UserInfo, error) {
	if p.IsAdmin() {
		admin, err := s.adminRepo.GetByID(p.ID)
		if err != nil {
			return nil, err
		}
		return &models.UserInfo{ID: admin.ID, Email: admin.Email, Username: admin.Username, IsAdmin: true}, nil
	}
	user, err := s.userRepo.GetByID(p.ID)
	if err != nil {
		return nil, err
	}
	return &models.UserInfo{ID: user.ID, Email: user.Email, Username: user.Username, IsAdmin: false}, nil
}

// CleanupTempUsers drops placeholder rows that never completed verification.
// Invoked by the periodic cleanup task.
func (s *AuthService) CleanupTempUsers() error {
	return s.userRepo.DeleteStaleTemp(time.Now().Add(-staleTempUserAge))
}

// unusableRandomPassword hashes a random value nobody knows, closing the
// password login path for Google-provisioned accounts.
func unusableRandomPassword() (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// sendCodeEmail queues the outbound mail job. Fire and forget: a publish
// failure is logged, never surfaced to the requester.
func (s *AuthService) sendCodeEmail(to, subject, html string) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping email job.")
		return
	}
	job := rabbitmq.EmailJob{From: s.emailFrom, To: to, Subject: subject, HTML: html}
	if err := s.mqClient.PublishEmail(job); err != nil {
		log.Printf("Warning: failed to publish email job for %s: %v", to, err)
	}
}
