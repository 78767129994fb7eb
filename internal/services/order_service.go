package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"aura/internal/models"
	"aura/internal/repositories"
	"aura/pkg/rabbitmq"

	"github.com/google/uuid"
)

// OrderService handles business logic related to orders and payments.
type OrderService struct {
	orderRepo repositories.OrderRepository
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService. mqClient may be nil (tests).
func NewOrderService(orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{orderRepo: orderRepo, mqClient: mqClient}
}

// CreateOrder inserts a PENDING order and publishes the order-created event.
// Event publication is best effort; the order stands even when the broker is
// unreachable.
func (s *OrderService) CreateOrder(req *models.CreateOrderRequest) (*models.Order, error) {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	order := &models.Order{
		Reference:       uuid.New().String(),
		UserID:          req.UserID,
		TotalPrice:      req.TotalPrice,
		DiscountAmount:  req.DiscountAmount,
		DeliveryAddress: req.DeliveryAddress,
		Items:           string(items),
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Now(),
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	if s.mqClient != nil {
		event := map[string]interface{}{
			"orderID":   order.ID,
			"reference": order.Reference,
			"userID":    order.UserID,
			"status":    order.Status,
			"total":     order.TotalPrice,
		}
		if err := s.mqClient.PublishOrderCreated(event); err != nil {
			log.Printf("Warning: failed to publish order created event for order %d: %v", order.ID, err)
		}
	} else {
		log.Println("RabbitMQ client is not initialized. Skipping order event publication.")
	}

	return order, nil
}

// ProcessPayment records a successful payment against an existing order.
func (s *OrderService) ProcessPayment(req *models.ProcessPaymentRequest) (*models.Payment, error) {
	if _, err := s.orderRepo.GetByID(req.OrderID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Method:  req.Method,
		Status:  "SUCCESS",
		PaidAt:  time.Now(),
	}
	if err := s.orderRepo.CreatePayment(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// GetOrdersByUser lists a user's orders, newest first.
func (s *OrderService) GetOrdersByUser(userID uint) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}
