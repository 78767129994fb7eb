package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/repositories"
	"aura/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func setupApp(t *testing.T) (*fiber.App, *services.TokenService) {
	t.Helper()
	tokenSvc := services.NewTokenService(repositories.NewMockTokenRepository(), "access-secret", "refresh-secret")

	app := fiber.New()
	app.Get("/access", middleware.AccessTokenRequired(tokenSvc), func(c *fiber.Ctx) error {
		principal := c.Locals(middleware.PrincipalKey).(models.Principal)
		return c.JSON(fiber.Map{"id": principal.ID, "isAdmin": principal.IsAdmin()})
	})
	app.Get("/refresh", middleware.RefreshTokenRequired(tokenSvc), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"token": c.Locals(middleware.RefreshTokenKey)})
	})
	return app, tokenSvc
}

func TestAccessTokenRequired(t *testing.T) {
	app, tokenSvc := setupApp(t)

	// Missing header is unauthenticated.
	req := httptest.NewRequest(http.MethodGet, "/access", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A header without the Bearer scheme is unauthenticated too.
	req = httptest.NewRequest(http.MethodGet, "/access", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A malformed token is forbidden, not unauthenticated.
	req = httptest.NewRequest(http.MethodGet, "/access", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A refresh token signed with the other secret is forbidden here.
	refresh, err := tokenSvc.GenerateRefreshToken(models.Principal{Kind: models.PrincipalUser, ID: 1})
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/access", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A valid access token passes and attaches the principal.
	access, err := tokenSvc.GenerateAccessToken(models.Principal{Kind: models.PrincipalAdmin, ID: 7})
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/access", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshTokenRequired(t *testing.T) {
	app, tokenSvc := setupApp(t)

	// Missing cookie is unauthenticated.
	req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A garbage cookie is forbidden.
	req = httptest.NewRequest(http.MethodGet, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookieName, Value: "garbage"})
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A valid refresh cookie passes.
	refresh, err := tokenSvc.GenerateRefreshToken(models.Principal{Kind: models.PrincipalUser, ID: 3})
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookieName, Value: refresh})
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
