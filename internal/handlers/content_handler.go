package handlers

import (
	"log"
	"math"
	"time"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/services"
	"aura/pkg/googleauth"

	"github.com/gofiber/fiber/v2"
)

// ContentHandler serves the contents feed and its Google-backed login.
type ContentHandler struct {
	contentService *services.ContentService
	authService    *services.AuthService
	tokenService   *services.TokenService
	verifier       *googleauth.Verifier
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(
	contentService *services.ContentService,
	authService *services.AuthService,
	tokenService *services.TokenService,
	verifier *googleauth.Verifier,
) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		authService:    authService,
		tokenService:   tokenService,
		verifier:       verifier,
	}
}

// RegisterRoutes registers the feed routes with the Fiber app.
func (h *ContentHandler) RegisterRoutes(router fiber.Router) {
	rbbRoutes := router.Group("/rbb")

	refreshGate := middleware.RefreshTokenRequired(h.tokenService)
	rbbRoutes.Post("/users/login", h.HandleGoogleLogin)
	rbbRoutes.Post("/users/logout", refreshGate, h.HandleLogout)
	rbbRoutes.Get("/users/verifylogin", refreshGate, h.HandleVerifyLogin)

	rbbRoutes.Get("/contents/fetchContents", h.HandleFetchContents)
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// HandleGoogleLogin exchanges a Google ID token for a session. The token's
// audience must match the configured client id.
func (h *ContentHandler) HandleGoogleLogin(c *fiber.Ctx) error {
	var req googleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "idToken is required"})
	}

	profile, err := h.verifier.VerifyIDToken(c.Context(), req.IDToken)
	if err != nil {
		log.Printf("Google token verification failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid Google token"})
	}

	accessToken, refreshToken, info, err := h.authService.LoginWithGoogle(profile.Email, profile.Name)
	if err != nil {
		log.Printf("Error during Google login for %s: %v", profile.Email, err)
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
		"profile":     profile,
	})
}

// HandleLogout clears the cookie and revokes the caller's refresh tokens.
func (h *ContentHandler) HandleLogout(c *fiber.Ctx) error {
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

// HandleVerifyLogin confirms the stored refresh token is still good.
func (h *ContentHandler) HandleVerifyLogin(c *fiber.Ctx) error {
	cookie, _ := c.Locals(middleware.RefreshTokenKey).(string)

	principal, valid, err := h.tokenService.VerifyRefreshTokenInDatabase(cookie)
	if err != nil {
		log.Printf("Error verifying login: %v", err)
		return errorResponse(c, err, "Could not verify the session")
	}
	if !valid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Session expired"})
	}

	info, err := h.authService.UserInfo(principal)
	if err != nil {
		return errorResponse(c, err, "Could not load user information")
	}
	return c.JSON(fiber.Map{"loggedIn": true, "userInfo": info})
}

// HandleFetchContents returns one page of the feed with the total count.
func (h *ContentHandler) HandleFetchContents(c *fiber.Ctx) error {
	q := models.ContentQuery{
		SearchTerm: c.Query("searchTerm"),
		SortField:  c.Query("sortField", "publishedDate"),
		SortOrder:  c.Query("sortOrder", "DESC"),
		Page:       c.QueryInt("page", 1),
	}
	if q.Page < 1 {
		q.Page = 1
	}

	contents, total, err := h.contentService.ListContents(q)
	if err != nil {
		log.Printf("Error fetching contents: %v", err)
		return errorResponse(c, err, "Could not fetch contents")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"contents":      contents,
		"totalContents": total,
		"page":          q.Page,
		"totalPages":    int(math.Ceil(float64(total) / 10.0)),
	})
}
