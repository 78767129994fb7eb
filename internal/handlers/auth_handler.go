package handlers

import (
	"log"
	"time"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for the account lifecycle: signup with
// email verification, login/logout, token refresh and password reset.
type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
	validate     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		validate:     newValidator(),
	}
}

// RegisterRoutes registers the auth routes. Logout, refresh and check-auth
// are gated by the refresh-token cookie; everything else is public.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	refreshGate := middleware.RefreshTokenRequired(h.tokenService)

	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/check-email", h.HandleCheckEmail)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", refreshGate, h.HandleLogout)
	authRoutes.Post("/check-auth", refreshGate, h.HandleCheckAuth)
	authRoutes.Get("/refresh-token", refreshGate, h.HandleRefreshToken)
	authRoutes.Post("/find-email", h.HandleFindEmail)
	authRoutes.Post("/verify-email", h.HandleSendVerificationEmail)
	authRoutes.Post("/verify-code", h.HandleVerifyCode)
	authRoutes.Post("/cancel-signup", h.HandleCancelSignup)
	authRoutes.Post("/password-reset/request", h.HandlePasswordResetRequest)
	authRoutes.Post("/password-reset/verify", h.HandlePasswordResetVerify)
	authRoutes.Post("/cancel-passwordreset", h.HandleCancelPasswordReset)
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleSendVerificationEmail creates the placeholder user and queues the
// verification mail. A retry inside the cooldown window returns 429.
func (h *AuthHandler) HandleSendVerificationEmail(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	if err := h.authService.StartEmailVerification(req.Email); err != nil {
		log.Printf("Error sending verification email: %v", err)
		return errorResponse(c, err, "Could not send the verification email")
	}
	return c.JSON(fiber.Map{"message": "Verification email sent"})
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// HandleVerifyCode checks the submitted code; success flips the user's
// verified flag and consumes every code for the email.
func (h *AuthHandler) HandleVerifyCode(c *fiber.Ctx) error {
	var req verifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	verified, err := h.authService.VerifyCode(req.Email, req.Code)
	if err != nil {
		log.Printf("Error verifying code: %v", err)
		return errorResponse(c, err, "Could not verify the code")
	}
	if !verified {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid verification code"})
	}
	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

// HandleSignup completes a registration whose email has already been
// verified; it rejects with 400 otherwise, regardless of the request body.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	if err := h.authService.CompleteSignup(&req); err != nil {
		log.Printf("Error completing signup for %s: %v", req.Email, err)
		return errorResponse(c, err, "Could not complete the signup")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Signup successful"})
}

// HandleCancelSignup aborts an in-flight registration, removing the
// verification rows and the unverified placeholder user.
func (h *AuthHandler) HandleCancelSignup(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	if err := h.authService.CancelSignup(req.Email); err != nil {
		log.Printf("Error canceling signup: %v", err)
		return errorResponse(c, err, "Could not cancel the signup")
	}
	return c.JSON(fiber.Map{"message": "Signup canceled"})
}

// HandleCheckEmail reports email availability; a taken email is a 400 to
// match the storefront's form handling.
func (h *AuthHandler) HandleCheckEmail(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	available, err := h.authService.CheckEmailAvailability(req.Email)
	if err != nil {
		log.Printf("Error checking email availability: %v", err)
		return errorResponse(c, err, "Could not check the email")
	}
	if !available {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email is already in use"})
	}
	return c.JSON(fiber.Map{"isAvailable": true})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// HandleLogin validates credentials against the table the isAdmin flag
// selects and issues the token pair: access token in the body, refresh token
// only via an http-only cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	accessToken, refreshToken, info, err := h.authService.Login(req.Email, req.Password, req.IsAdmin)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return errorResponse(c, err, "Authentication failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    refreshToken,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Strict",
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message":     "Login successful",
		"accessToken": accessToken,
		"userInfo":    info,
	})
}

// HandleLogout clears the cookie and revokes every refresh token for the
// principal recovered from it.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authenticated"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: "Strict",
		Path:     "/",
	})

	if err := h.authService.Logout(principal); err != nil {
		log.Printf("Error during logout: %v", err)
		return errorResponse(c, err, "Could not log out")
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleRefreshToken exchanges a valid, still-stored refresh token for a new
// access token. The cookie signature was already verified by the middleware;
// this check covers the database-backed half.
func (h *AuthHandler) HandleRefreshToken(c *fiber.Ctx) error {
	cookie, _ := c.Locals(middleware.RefreshTokenKey).(string)

	principal, valid, err := h.tokenService.VerifyRefreshTokenInDatabase(cookie)
	if err != nil {
		log.Printf("Error verifying refresh token: %v", err)
		return errorResponse(c, err, "Could not verify the refresh token")
	}
	if !valid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Invalid refresh token"})
	}

	accessToken, err := h.tokenService.GenerateAccessToken(principal)
	if err != nil {
		log.Printf("Error issuing access token: %v", err)
		return errorResponse(c, err, "Could not issue a new access token")
	}
	return c.JSON(fiber.Map{
		"message":     "Token refreshed",
		"accessToken": accessToken,
	})
}

// HandleCheckAuth resolves the cookie principal to its account record.
func (h *AuthHandler) HandleCheckAuth(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authenticated"})
	}

	info, err := h.authService.UserInfo(principal)
	if err != nil {
		return errorResponse(c, err, "Could not load the account")
	}
	return c.JSON(fiber.Map{"userInfo": info})
}

type findEmailRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// HandleFindEmail recovers an email address from username and phone number.
func (h *AuthHandler) HandleFindEmail(c *fiber.Ctx) error {
	var req findEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	email, err := h.authService.FindEmail(req.Name, req.Phone)
	if err != nil {
		return errorResponse(c, err, "Could not find a matching account")
	}
	return c.JSON(fiber.Map{"email": email})
}

// HandlePasswordResetRequest issues a reset code for an existing account.
func (h *AuthHandler) HandlePasswordResetRequest(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		log.Printf("Error requesting password reset: %v", err)
		return errorResponse(c, err, "Could not send the password reset email")
	}
	return c.JSON(fiber.Map{"message": "Password reset email sent"})
}

type passwordResetVerifyRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strongpassword"`
}

// HandlePasswordResetVerify checks the code and replaces the password.
func (h *AuthHandler) HandlePasswordResetVerify(c *fiber.Ctx) error {
	var req passwordResetVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	if err := h.authService.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		log.Printf("Error resetting password: %v", err)
		return errorResponse(c, err, "Could not reset the password")
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// HandleCancelPasswordReset abandons a pending reset.
func (h *AuthHandler) HandleCancelPasswordReset(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	if err := h.authService.CancelPasswordReset(req.Email); err != nil {
		return errorResponse(c, err, "Could not cancel the password reset")
	}
	return c.JSON(fiber.Map{"message": "Password reset canceled"})
}
