package handlers

import (
	"log"
	"strconv"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the back-office routes: user management, admin
// account management and product CRUD.
type AdminHandler struct {
	adminService *services.AdminService
	tokenService *services.TokenService
	validate     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, tokenService *services.TokenService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		tokenService: tokenService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
// Account management requires a valid admin refresh token; the product
// catalog routes are open so the storefront can read them.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")

	gate := middleware.RefreshTokenRequired(h.tokenService)

	adminRoutes.Get("/getusers", gate, h.adminOnly, h.HandleGetUsers)
	adminRoutes.Get("/searchUser", gate, h.adminOnly, h.HandleSearchUsers)
	adminRoutes.Put("/putusers/:id", gate, h.adminOnly, h.HandleUpdateUser)
	adminRoutes.Patch("/patchusers/:id/deactivate", gate, h.adminOnly, h.HandleDeactivateUser)

	adminRoutes.Get("/getadmins", gate, h.adminOnly, h.HandleGetAdmins)
	adminRoutes.Post("/postadmins", gate, h.adminOnly, h.HandleCreateAdmin)
	adminRoutes.Put("/putadmins/:id", gate, h.adminOnly, h.HandleUpdateAdmin)
	adminRoutes.Delete("/deleteadmins/:id", gate, h.adminOnly, h.HandleDeleteAdmin)

	adminRoutes.Get("/fetchProducts", h.HandleGetProducts)
	adminRoutes.Post("/addProduct", h.HandleAddProduct)
	adminRoutes.Put("/updateProduct/:id", h.HandleUpdateProduct)
	adminRoutes.Delete("/deleteProduct/:id", h.HandleDeleteProduct)
}

// adminOnly rejects principals that carry a user identity.
func (h *AdminHandler) adminOnly(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok || !principal.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Admin privileges required"})
	}
	return c.Next()
}

// HandleGetUsers lists every active user.
func (h *AdminHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return errorResponse(c, err, "Could not fetch users")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users})
}

// HandleSearchUsers finds active users by email keyword.
func (h *AdminHandler) HandleSearchUsers(c *fiber.Ctx) error {
	keyword := c.Query("email")
	if keyword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Query parameter 'email' is required"})
	}

	users, err := h.adminService.SearchUsers(keyword)
	if err != nil {
		return errorResponse(c, err, "Could not search users")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users})
}

// HandleUpdateUser applies profile changes to a user account.
func (h *AdminHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user id"})
	}

	var changes models.User
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.adminService.UpdateUser(uint(id), &changes); err != nil {
		log.Printf("Error updating user %d: %v", id, err)
		return errorResponse(c, err, "Could not update the user")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User updated"})
}

// HandleDeactivateUser flips a user inactive without deleting the row.
func (h *AdminHandler) HandleDeactivateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user id"})
	}

	if err := h.adminService.DeactivateUser(uint(id)); err != nil {
		log.Printf("Error deactivating user %d: %v", id, err)
		return errorResponse(c, err, "Could not deactivate the user")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User deactivated"})
}

// HandleGetAdmins lists every admin account.
func (h *AdminHandler) HandleGetAdmins(c *fiber.Ctx) error {
	admins, err := h.adminService.ListAdmins()
	if err != nil {
		log.Printf("Error listing admins: %v", err)
		return errorResponse(c, err, "Could not fetch admins")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"admins": admins})
}

type createAdminRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// HandleCreateAdmin registers a new admin account.
func (h *AdminHandler) HandleCreateAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	admin := &models.Admin{Username: req.Username, Email: req.Email, Password: req.Password}
	if err := h.adminService.CreateAdmin(admin); err != nil {
		log.Printf("Error creating admin: %v", err)
		return errorResponse(c, err, "Could not create the admin")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Admin created", "adminId": admin.ID})
}

// HandleUpdateAdmin applies changes to an admin account.
func (h *AdminHandler) HandleUpdateAdmin(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid admin id"})
	}

	var changes models.Admin
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.adminService.UpdateAdmin(uint(id), &changes); err != nil {
		log.Printf("Error updating admin %d: %v", id, err)
		return errorResponse(c, err, "Could not update the admin")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Admin updated"})
}

// HandleDeleteAdmin removes an admin account.
func (h *AdminHandler) HandleDeleteAdmin(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid admin id"})
	}

	if err := h.adminService.DeleteAdmin(uint(id)); err != nil {
		log.Printf("Error deleting admin %d: %v", id, err)
		return errorResponse(c, err, "Could not delete the admin")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Admin deleted"})
}

// HandleGetProducts lists the full catalog for the admin panel.
func (h *AdminHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.adminService.GetProducts()
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return errorResponse(c, err, "Could not fetch products")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"products": products})
}

// HandleAddProduct inserts a catalog product.
func (h *AdminHandler) HandleAddProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if product.Name == "" || product.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product name and a positive price are required"})
	}

	if err := h.adminService.AddProduct(&product); err != nil {
		log.Printf("Error adding product: %v", err)
		return errorResponse(c, err, "Could not add the product")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product added", "productId": product.ID})
}

// HandleUpdateProduct replaces a product's fields.
func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product id"})
	}

	var changes models.Product
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.adminService.UpdateProduct(uint(id), &changes); err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return errorResponse(c, err, "Could not update the product")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Product updated"})
}

// HandleDeleteProduct removes a product from the catalog.
func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product id"})
	}

	if err := h.adminService.DeleteProduct(uint(id)); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return errorResponse(c, err, "Could not delete the product")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Product deleted"})
}
