package handlers

import (
	"log"

	"aura/internal/models"
	"aura/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and payments.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/order")
	orderRoutes.Post("/createOrder", h.HandleCreateOrder)
	orderRoutes.Post("/processPayment", h.HandleProcessPayment)
}

// HandleCreateOrder places a PENDING order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	order, err := h.orderService.CreateOrder(&req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return errorResponse(c, err, "Could not create the order")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created",
		"orderId": order.ID,
		"order":   order,
	})
}

// HandleProcessPayment records a payment for an existing order.
func (h *OrderHandler) HandleProcessPayment(c *fiber.Ctx) error {
	var req models.ProcessPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	payment, err := h.orderService.ProcessPayment(&req)
	if err != nil {
		log.Printf("Error processing payment: %v", err)
		return errorResponse(c, err, "Could not process the payment")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Payment recorded",
		"paymentId": payment.ID,
	})
}
