package handlers

import (
	"log"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the logged-in user's own profile and order history.
// Every route requires a valid access token.
type UserHandler struct {
	userService  *services.UserService
	tokenService *services.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, tokenService *services.TokenService) *UserHandler {
	return &UserHandler{userService: userService, tokenService: tokenService}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/user", middleware.AccessTokenRequired(h.tokenService))
	userRoutes.Get("/get-userinfo", h.HandleGetUserInfo)
	userRoutes.Put("/update-userinfo", h.HandleUpdateUserInfo)
	userRoutes.Get("/get-orderinfo", h.HandleGetOrderInfo)
}

// HandleGetUserInfo returns the caller's own profile.
func (h *UserHandler) HandleGetUserInfo(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	if principal.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "User account required"})
	}

	user, err := h.userService.GetUserInfo(principal.ID)
	if err != nil {
		log.Printf("Error fetching user %d: %v", principal.ID, err)
		return errorResponse(c, err, "Could not fetch user information")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// HandleUpdateUserInfo applies profile changes to the caller's own row.
func (h *UserHandler) HandleUpdateUserInfo(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	if principal.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "User account required"})
	}

	var changes models.User
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.userService.UpdateUserInfo(principal.ID, &changes); err != nil {
		log.Printf("Error updating user %d: %v", principal.ID, err)
		return errorResponse(c, err, "Could not update user information")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User information updated"})
}

// HandleGetOrderInfo lists the caller's own orders.
func (h *UserHandler) HandleGetOrderInfo(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	if principal.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "User account required"})
	}

	orders, err := h.userService.GetOrders(principal.ID)
	if err != nil {
		log.Printf("Error fetching orders for user %d: %v", principal.ID, err)
		return errorResponse(c, err, "Could not fetch order information")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"orders": orders})
}
