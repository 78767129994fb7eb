package handlers

import (
	"math"

	"aura/internal/models"
	"aura/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler serves the public product browse endpoints.
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/product")
	productRoutes.Get("/fetchProduct/:productId", h.HandleGetProduct)
	productRoutes.Get("/fetchProducts", h.HandleListProducts)
	productRoutes.Get("/suggestions", h.HandleSuggestions)
	productRoutes.Get("/topSellingByCategory", h.HandleTopSellingByCategory)
}

// HandleGetProduct returns a single product or 404.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productId")
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product id"})
	}

	product, err := h.productService.GetProductByID(uint(productID))
	if err != nil {
		return errorResponse(c, err, "Could not load the product")
	}
	return c.JSON(product)
}

// HandleListProducts applies the browse filters from the query string and
// returns one page plus pagination metadata.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	query := models.ProductQuery{
		Name:      c.Query("name"),
		PriceFrom: c.QueryFloat("priceFrom"),
		PriceTo:   c.QueryFloat("priceTo"),
		Category:  c.Query("category"),
		Tag:       c.Query("tag"),
		Event:     c.Query("event"),
		Sort:      c.Query("sort"),
		Limit:     c.QueryInt("limit", 10),
		Page:      c.QueryInt("page", 1),
	}

	products, total, err := h.productService.ListProducts(query)
	if err != nil {
		return errorResponse(c, err, "Could not load the product list")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	return c.JSON(fiber.Map{
		"totalProducts": total,
		"products":      products,
		"page":          query.Page,
		"totalPages":    int(math.Ceil(float64(total) / float64(limit))),
	})
}

// HandleSuggestions returns search-as-you-type completions.
func (h *ProductHandler) HandleSuggestions(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	if keyword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "A search keyword is required"})
	}

	suggestions, err := h.productService.Suggestions(keyword)
	if err != nil {
		return errorResponse(c, err, "Could not load suggestions")
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// HandleTopSellingByCategory returns the best sellers of each category.
func (h *ProductHandler) HandleTopSellingByCategory(c *fiber.Ctx) error {
	topSelling, err := h.productService.TopSellingByCategory()
	if err != nil {
		return errorResponse(c, err, "Could not load the top sellers")
	}
	return c.JSON(topSelling)
}
