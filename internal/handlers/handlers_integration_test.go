package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"aura/internal/handlers"
	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/repositories"
	"aura/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp wires the full application over an in-memory SQLite database.
// The RabbitMQ client is nil, so mail and order events are skipped.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.EmailVerification{},
		&models.RefreshToken{},
		&models.Product{},
		&models.Order{},
		&models.Payment{},
		&models.Content{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)
	tokenRepo := repositories.NewGORMTokenRepository(db)
	verificationRepo := repositories.NewGORMVerificationRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	contentRepo := repositories.NewGORMContentRepository(db)

	tokenService := services.NewTokenService(tokenRepo, "test_access_secret", "test_refresh_secret")
	verificationService := services.NewVerificationService(verificationRepo)
	authService := services.NewAuthService(userRepo, adminRepo, verificationService, tokenService, nil, "noreply@test")
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, nil)
	adminService := services.NewAdminService(userRepo, adminRepo, productRepo)
	userService := services.NewUserService(userRepo, orderRepo)
	contentService := services.NewContentService(contentRepo)

	app := fiber.New()
	handlers.NewAuthHandler(authService, tokenService).RegisterRoutes(app)
	handlers.NewProductHandler(productService).RegisterRoutes(app)
	handlers.NewAdminHandler(adminService, tokenService).RegisterRoutes(app)
	handlers.NewOrderHandler(orderService).RegisterRoutes(app)
	handlers.NewUserHandler(userService, tokenService).RegisterRoutes(app)
	handlers.NewContentHandler(contentService, authService, tokenService, nil).RegisterRoutes(app)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, cookies ...*http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	payload := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp, payload
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.RefreshCookieName {
			return cookie
		}
	}
	return nil
}

func TestSignupLoginRefreshLogoutFlow(t *testing.T) {
	app, db := setupApp(t)
	email := "flow@example.com"

	// Request the verification mail; the placeholder row appears.
	resp, _ := doJSON(t, app, http.MethodPost, "/auth/verify-email", fiber.Map{"email": email})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var placeholder models.User
	assert.NoError(t, db.First(&placeholder, "email = ?", email).Error)
	assert.False(t, placeholder.IsVerified)
	assert.Equal(t, models.UnusablePassword, placeholder.Password)

	// Retrying inside the cooldown window is throttled.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/verify-email", fiber.Map{"email": email})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Login and signup are both closed before verification.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/login", fiber.Map{"email": email, "password": "Password123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/signup", fiber.Map{
		"username": "flow", "email": email,
		"password": "Password123", "confirmPassword": "Password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var issued models.EmailVerification
	assert.NoError(t, db.First(&issued, "email = ?", email).Error)

	// A wrong code does not verify.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/verify-code", fiber.Map{"email": email, "code": "wrong"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/auth/verify-code", fiber.Map{"email": email, "code": issued.Code})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The code is single use.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/verify-code", fiber.Map{"email": email, "code": issued.Code})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Weak passwords never complete a signup, verified email or not.
	for _, weak := range []string{"short1A", "alllowercase1", "NODIGITSHERE"} {
		resp, _ = doJSON(t, app, http.MethodPost, "/auth/signup", fiber.Map{
			"username": "flow", "email": email,
			"password": weak, "confirmPassword": weak,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/auth/signup", fiber.Map{
		"username": "flow", "email": email,
		"password": "Password123", "confirmPassword": "Password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// A second signup for the now-active account conflicts.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/signup", fiber.Map{
		"username": "flow", "email": email,
		"password": "Password123", "confirmPassword": "Password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login: wrong password 401, right password yields token and cookie.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/login", fiber.Map{"email": email, "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, payload := doJSON(t, app, http.MethodPost, "/auth/login", fiber.Map{"email": email, "password": "Password123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, payload["accessToken"])
	cookie := refreshCookie(resp)
	assert.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// The cookie authenticates check-auth and the refresh exchange.
	resp, payload = doJSON(t, app, http.MethodPost, "/auth/check-auth", nil, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := payload["userInfo"].(map[string]interface{})
	assert.Equal(t, email, info["email"])
	assert.Equal(t, false, info["isAdmin"])

	resp, payload = doJSON(t, app, http.MethodGet, "/auth/refresh-token", nil, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, payload["accessToken"])

	// The fresh access token opens the user routes.
	accessToken := payload["accessToken"].(string)
	req := httptest.NewRequest(http.MethodGet, "/user/get-userinfo", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	userResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, userResp.StatusCode)

	// Logout revokes the stored token: the signed cookie no longer refreshes.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/auth/refresh-token", nil, cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthGateTriState(t *testing.T) {
	app, _ := setupApp(t)

	// No cookie at all: unauthenticated.
	resp, _ := doJSON(t, app, http.MethodPost, "/auth/check-auth", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A cookie that fails signature verification: forbidden.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/check-auth", nil,
		&http.Cookie{Name: middleware.RefreshCookieName, Value: "forged"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Same tri-state on the access gate.
	req := httptest.NewRequest(http.MethodGet, "/user/get-userinfo", nil)
	accessResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, accessResp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/user/get-userinfo", nil)
	req.Header.Set("Authorization", "Bearer forged")
	accessResp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, accessResp.StatusCode)
}

func seedAdmin(t *testing.T, db *gorm.DB, email, password string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	assert.NoError(t, db.Create(&models.Admin{Username: "ops", Email: email, Password: string(hashed)}).Error)
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	assert.NoError(t, db.Create(&models.User{
		Username: "u", Email: email, Password: string(hashed),
		IsActive: true, IsVerified: true,
	}).Error)
}

func TestAdminPanelAccess(t *testing.T) {
	app, db := setupApp(t)
	seedAdmin(t, db, "ops@example.com", "adminpass1")
	seedUser(t, db, "shopper@example.com", "userpass12")

	// Admin login flags the principal.
	resp, payload := doJSON(t, app, http.MethodPost, "/auth/login",
		fiber.Map{"email": "ops@example.com", "password": "adminpass1", "isAdmin": true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := payload["userInfo"].(map[string]interface{})
	assert.Equal(t, true, info["isAdmin"])
	adminCookie := refreshCookie(resp)
	assert.NotNil(t, adminCookie)

	resp, _ = doJSON(t, app, http.MethodPost, "/auth/login",
		fiber.Map{"email": "shopper@example.com", "password": "userpass12"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	userCookie := refreshCookie(resp)

	// The user listing requires an admin cookie.
	resp, _ = doJSON(t, app, http.MethodGet, "/admin/getusers", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/admin/getusers", nil, userCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, payload = doJSON(t, app, http.MethodGet, "/admin/getusers", nil, adminCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["users"], 1)

	// Search: a miss is a 404, never an empty page.
	resp, _ = doJSON(t, app, http.MethodGet, "/admin/searchUser?email=shopper", nil, adminCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/admin/searchUser?email=nobody", nil, adminCookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Duplicate admin email conflicts.
	resp, _ = doJSON(t, app, http.MethodPost, "/admin/postadmins",
		fiber.Map{"username": "ops2", "email": "ops@example.com", "password": "adminpass2"}, adminCookie)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Deactivation removes the user from the active listing.
	var shopper models.User
	assert.NoError(t, db.First(&shopper, "email = ?", "shopper@example.com").Error)
	resp, _ = doJSON(t, app, http.MethodPatch,
		"/admin/patchusers/"+itoa(shopper.ID)+"/deactivate", nil, adminCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, payload = doJSON(t, app, http.MethodGet, "/admin/getusers", nil, adminCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["users"], 0)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestProductCatalogFlow(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/admin/addProduct", fiber.Map{
		"name": "Rose Cream", "price": 50.0, "discount_rate": 20.0,
		"category": "cream", "stock": 10,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/admin/addProduct", fiber.Map{
		"name": "Citrus Serum", "price": 80.0, "category": "serum", "stock": 5,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// The discount was folded into the final price.
	resp, payload := doJSON(t, app, http.MethodGet, "/product/fetchProducts?name=Rose", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), payload["totalProducts"])
	products := payload["products"].([]interface{})
	first := products[0].(map[string]interface{})
	assert.Equal(t, 40.0, first["final_price"])

	resp, payload = doJSON(t, app, http.MethodGet, "/product/fetchProducts?priceFrom=70&priceTo=100", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), payload["totalProducts"])

	// Suggestions require a keyword.
	resp, _ = doJSON(t, app, http.MethodGet, "/product/suggestions", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, payload = doJSON(t, app, http.MethodGet, "/product/suggestions?keyword=Citrus", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["suggestions"], 1)

	// An unknown product is a 404.
	resp, _ = doJSON(t, app, http.MethodGet, "/product/fetchProduct/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderFlow(t *testing.T) {
	app, db := setupApp(t)

	resp, payload := doJSON(t, app, http.MethodPost, "/order/createOrder", fiber.Map{
		"user_id": 1,
		"items": []fiber.Map{
			{"product_id": 1, "quantity": 2, "price": 40.0},
		},
		"total_price":      80.0,
		"delivery_address": "1 Test Street",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	assert.NoError(t, db.First(&order).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.Reference)

	orderID := payload["orderId"].(float64)
	resp, _ = doJSON(t, app, http.MethodPost, "/order/processPayment", fiber.Map{
		"order_id": orderID, "amount": 80.0, "payment_method": "card",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var payment models.Payment
	assert.NoError(t, db.First(&payment).Error)
	assert.Equal(t, "SUCCESS", payment.Status)

	// Paying a nonexistent order is a 404.
	resp, _ = doJSON(t, app, http.MethodPost, "/order/processPayment", fiber.Map{
		"order_id": 9999, "amount": 1.0, "payment_method": "card",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContentsFeed(t *testing.T) {
	app, db := setupApp(t)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		title := "Spring scents"
		if i%3 == 0 {
			title = "Summer care"
		}
		assert.NoError(t, db.Create(&models.Content{
			Title: title, Author: "editorial", PublishedDate: base.AddDate(0, 0, i),
		}).Error)
	}

	resp, payload := doJSON(t, app, http.MethodGet, "/rbb/contents/fetchContents", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(12), payload["totalContents"])
	assert.Len(t, payload["contents"], 10)
	assert.Equal(t, float64(2), payload["totalPages"])

	resp, payload = doJSON(t, app, http.MethodGet, "/rbb/contents/fetchContents?searchTerm=Summer", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), payload["totalContents"])

	resp, payload = doJSON(t, app, http.MethodGet, "/rbb/contents/fetchContents?page=2", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["contents"], 2)
}

func TestPasswordResetFlow(t *testing.T) {
	app, db := setupApp(t)
	seedUser(t, db, "reset@example.com", "oldpassword1")

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/password-reset/request", fiber.Map{"email": "reset@example.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// An unknown account cannot request a reset.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/password-reset/request", fiber.Map{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var issued models.EmailVerification
	assert.NoError(t, db.First(&issued, "email = ?", "reset@example.com").Error)

	resp, _ = doJSON(t, app, http.MethodPost, "/auth/password-reset/verify", fiber.Map{
		"email": "reset@example.com", "code": "wrong", "newPassword": "Newpassword1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A weak replacement is rejected before the code is even checked, so
	// the stored code stays consumable.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/password-reset/verify", fiber.Map{
		"email": "reset@example.com", "code": issued.Code, "newPassword": "weakpassword",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/auth/password-reset/verify", fiber.Map{
		"email": "reset@example.com", "code": issued.Code, "newPassword": "Newpassword1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Only the new password logs in now.
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/login", fiber.Map{"email": "reset@example.com", "password": "oldpassword1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/login", fiber.Map{"email": "reset@example.com", "password": "Newpassword1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
