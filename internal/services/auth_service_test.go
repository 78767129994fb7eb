package services_test

import (
	"testing"
	"time"

	"aura/internal/apperrors"
	"aura/internal/models"
	"aura/internal/repositories"
	"aura/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsernameAndPhone(username, phone string) (*models.User, error) {
	args := m.Called(username, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(email, hashedPassword string) error {
	args := m.Called(email, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) ListActive() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) SearchByEmail(keyword string) ([]models.User, error) {
	args := m.Called(keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Deactivate(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteStaleTemp(olderThan time.Time) error {
	args := m.Called(olderThan)
	return args.Error(0)
}

// MockAdminRepository is a mock implementation of repositories.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(admin *models.Admin) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockAdminRepository) GetByID(id uint) (*models.Admin, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByEmail(email string) (*models.Admin, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) List() ([]models.Admin, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Admin), args.Error(1)
}

func (m *MockAdminRepository) Update(admin *models.Admin) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func newTestAuthService(userRepo *MockUserRepository, adminRepo *MockAdminRepository) (*services.AuthService, *repositories.MockTokenRepository) {
	tokenRepo := repositories.NewMockTokenRepository()
	tokenSvc := services.NewTokenService(tokenRepo, testAccessSecret, testRefreshSecret)
	verificationSvc := services.NewVerificationService(repositories.NewMockVerificationRepository())
	return services.NewAuthService(userRepo, adminRepo, verificationSvc, tokenSvc, nil, "noreply@essence-aura.com"), tokenRepo
}

func TestAuthService_CheckEmailAvailability(t *testing.T) {
	userRepo := new(MockUserRepository)
	authService, _ := newTestAuthService(userRepo, new(MockAdminRepository))

	userRepo.On("GetByEmail", "free@example.com").Return(nil, apperrors.NewNotFound("user not found")).Once()
	available, err := authService.CheckEmailAvailability("free@example.com")
	assert.NoError(t, err)
	assert.True(t, available)

	userRepo.On("GetByEmail", "taken@example.com").Return(&models.User{ID: 1, Email: "taken@example.com"}, nil).Once()
	available, err = authService.CheckEmailAvailability("taken@example.com")
	assert.NoError(t, err)
	assert.False(t, available)
	userRepo.AssertExpectations(t)
}

func TestAuthService_ValidateCredentials(t *testing.T) {
	userRepo := new(MockUserRepository)
	adminRepo := new(MockAdminRepository)
	authService, _ := newTestAuthService(userRepo, adminRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:         10,
		Email:      "user@example.com",
		Username:   "user",
		Password:   string(hashed),
		IsActive:   true,
		IsVerified: true,
	}

	// Correct password resolves a user principal.
	userRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	principal, info, err := authService.ValidateCredentials(user.Email, "password123", false)
	assert.NoError(t, err)
	assert.Equal(t, models.Principal{Kind: models.PrincipalUser, ID: 10}, principal)
	assert.False(t, info.IsAdmin)

	// Wrong password is rejected with a 401-class error.
	userRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = authService.ValidateCredentials(user.Email, "wrong", false)
	assert.Error(t, err)
	assert.Equal(t, 401, apperrors.StatusOf(err))

	// An unknown email reads the same as a wrong password.
	userRepo.On("GetByEmail", "nobody@example.com").Return(nil, apperrors.NewNotFound("user not found")).Once()
	_, _, err = authService.ValidateCredentials("nobody@example.com", "password123", false)
	assert.Error(t, err)
	assert.Equal(t, 401, apperrors.StatusOf(err))
	userRepo.AssertExpectations(t)
}

func TestAuthService_ValidateCredentials_UnverifiedRowRejected(t *testing.T) {
	userRepo := new(MockUserRepository)
	authService, _ := newTestAuthService(userRepo, new(MockAdminRepository))

	placeholder := &models.User{
		ID:       11,
		Email:    "pending@example.com",
		Password: models.UnusablePassword,
	}
	userRepo.On("GetByEmail", placeholder.Email).Return(placeholder, nil).Once()

	_, _, err := authService.ValidateCredentials(placeholder.Email, "anything", false)
	assert.Error(t, err)
	assert.Equal(t, 401, apperrors.StatusOf(err))
	userRepo.AssertExpectations(t)
}

func TestAuthService_ValidateCredentials_AdminFlagSelectsAdminTable(t *testing.T) {
	userRepo := new(MockUserRepository)
	adminRepo := new(MockAdminRepository)
	authService, _ := newTestAuthService(userRepo, adminRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.DefaultCost)
	admin := &models.Admin{ID: 2, Email: "boss@example.com", Username: "boss", Password: string(hashed)}

	adminRepo.On("GetByEmail", admin.Email).Return(admin, nil).Once()
	principal, info, err := authService.ValidateCredentials(admin.Email, "adminpass", true)
	assert.NoError(t, err)
	assert.Equal(t, models.Principal{Kind: models.PrincipalAdmin, ID: 2}, principal)
	assert.True(t, info.IsAdmin)

	// The user table is never consulted for an admin login.
	userRepo.AssertNotCalled(t, "GetByEmail", admin.Email)
	adminRepo.AssertExpectations(t)
}

func TestAuthService_LoginPersistsRefreshToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	authService, tokenRepo := newTestAuthService(userRepo, new(MockAdminRepository))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: 20, Email: "login@example.com", Password: string(hashed), IsActive: true, IsVerified: true}
	userRepo.On("GetByEmail", user.Email).Return(user, nil).Once()

	accessToken, refreshToken, info, err := authService.Login(user.Email, "password123", false)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, uint(20), info.ID)
	assert.Equal(t, 1, tokenRepo.Count())

	assert.NoError(t, authService.Logout(models.Principal{Kind: models.PrincipalUser, ID: 20}))
	assert.Equal(t, 0, tokenRepo.Count())
	userRepo.AssertExpectations(t)
}

func TestAuthService_CompleteSignup(t *testing.T) {
	userRepo := new(MockUserRepository)
	authService, _ := newTestAuthService(userRepo, new(MockAdminRepository))

	req := &models.SignupRequest{
		Username:        "newbie",
		Email:           "newbie@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}

	// No placeholder row: verification was never started.
	userRepo.On("GetByEmail", req.Email).Return(nil, apperrors.NewNotFound("user not found")).Once()
	err := authService.CompleteSignup(req)
	assert.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusOf(err))

	// Placeholder exists but the code was never confirmed.
	userRepo.On("GetByEmail", req.Email).Return(&models.User{ID: 30, Email: req.Email, Password: models.UnusablePassword}, nil).Once()
	err = authService.CompleteSignup(req)
	assert.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusOf(err))

	// An already-active account cannot sign up again.
	userRepo.On("GetByEmail", req.Email).Return(&models.User{ID: 30, Email: req.Email, IsVerified: true, IsActive: true}, nil).Once()
	err = authService.CompleteSignup(req)
	assert.Error(t, err)
	assert.Equal(t, 409, apperrors.StatusOf(err))

	// Verified placeholder promotes to a full account with a hashed password.
	userRepo.On("GetByEmail", req.Email).Return(&models.User{ID: 30, Email: req.Email, Password: models.UnusablePassword, IsVerified: true}, nil).Once()
	userRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.IsActive && u.Username == "newbie" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")) == nil
	})).Return(nil).Once()
	assert.NoError(t, authService.CompleteSignup(req))
	userRepo.AssertExpectations(t)
}

func TestAuthService_StartEmailVerification(t *testing.T) {
	userRepo := new(MockUserRepository)
	authService, _ := newTestAuthService(userRepo, new(MockAdminRepository))

	// A verified account cannot request a signup code again.
	userRepo.On("GetByEmail", "done@example.com").Return(&models.User{ID: 1, Email: "done@example.com", IsVerified: true}, nil).Once()
	err := authService.StartEmailVerification("done@example.com")
	assert.Error(t, err)
	assert.Equal(t, 409, apperrors.StatusOf(err))

	// A fresh email gets a placeholder row with the sentinel password.
	userRepo.On("GetByEmail", "fresh@example.com").Return(nil, apperrors.NewNotFound("user not found")).Once()
	userRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "fresh@example.com" && u.Password == models.UnusablePassword && !u.IsActive && !u.IsVerified
	})).Return(nil).Once()
	assert.NoError(t, authService.StartEmailVerification("fresh@example.com"))
	userRepo.AssertExpectations(t)
}

func TestAuthService_ResetPasswordRequiresValidCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	authService, _ := newTestAuthService(userRepo, new(MockAdminRepository))

	err := authService.ResetPassword("someone@example.com", "bogus-code", "newpassword1")
	assert.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusOf(err))
	userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	userRepo := new(MockUserRepository)
	authService, tokenRepo := newTestAuthService(userRepo, new(MockAdminRepository))

	// First sign-in provisions a verified, active account.
	userRepo.On("GetByEmail", "g@example.com").Return(nil, apperrors.NewNotFound("user not found")).Once()
	userRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		u.ID = 50
		return u.Email == "g@example.com" && u.IsActive && u.IsVerified && u.Password != models.UnusablePassword
	})).Return(nil).Once()

	accessToken, refreshToken, info, err := authService.LoginWithGoogle("g@example.com", "Gee User")
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "Gee User", info.Username)
	assert.Equal(t, 1, tokenRepo.Count())

	// A deactivated account stays closed even with a valid Google token.
	userRepo.On("GetByEmail", "gone@example.com").Return(&models.User{ID: 51, Email: "gone@example.com", IsActive: false, IsVerified: true}, nil).Once()
	_, _, _, err = authService.LoginWithGoogle("gone@example.com", "Gone User")
	assert.Error(t, err)
	assert.Equal(t, 403, apperrors.StatusOf(err))
	userRepo.AssertExpectations(t)
}

func TestAuthService_LoginWithGoogle_PromotesSignupPlaceholder(t *testing.T) {
	userRepo := new(MockUserRepository)
	authService, _ := newTestAuthService(userRepo, new(MockAdminRepository))

	// An in-flight signup placeholder is not a deactivated account: the
	// attested email promotes it to a full Google-backed account.
	placeholder := &models.User{
		ID:       52,
		Email:    "pending@example.com",
		Password: models.UnusablePassword,
	}
	userRepo.On("GetByEmail", placeholder.Email).Return(placeholder, nil).Once()
	userRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.ID == 52 && u.IsActive && u.IsVerified &&
			u.Username == "Pending User" && u.Password != models.UnusablePassword
	})).Return(nil).Once()

	accessToken, refreshToken, info, err := authService.LoginWithGoogle(placeholder.Email, "Pending User")
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, uint(52), info.ID)
	userRepo.AssertExpectations(t)
}
