package models

import "time"

// Order statuses.
const (
	OrderStatusPending = "PENDING"
)

// OrderItem is a single line item, captured with the price at order time.
type OrderItem struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// Order represents a customer order. Items are stored denormalized as JSON,
// mirroring the order_items column of the store schema.
type Order struct {
	ID              uint      `json:"order_id" gorm:"primaryKey;column:order_id"`
	Reference       string    `json:"reference" gorm:"type:varchar(36);uniqueIndex"`
	UserID          uint      `json:"user_id" gorm:"index"`
	TotalPrice      float64   `json:"total_price"`
	DiscountAmount  float64   `json:"discount_amount"`
	DeliveryAddress string    `json:"delivery_address" gorm:"type:varchar(255)"`
	Items           string    `json:"order_items" gorm:"column:order_items;type:text"`
	Status          string    `json:"status" gorm:"type:varchar(20)"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateOrderRequest is the order placement payload.
type CreateOrderRequest struct {
	UserID          uint        `json:"user_id" validate:"required"`
	TotalPrice      float64     `json:"total_price" validate:"required,gt=0"`
	DiscountAmount  float64     `json:"discount_amount" validate:"gte=0"`
	DeliveryAddress string      `json:"delivery_address" validate:"required,max=255"`
	Items           []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// Payment records a processed payment for an order.
type Payment struct {
	ID      uint      `json:"payment_id" gorm:"primaryKey;column:payment_id"`
	OrderID uint      `json:"order_id" gorm:"index"`
	Amount  float64   `json:"amount"`
	Method  string    `json:"payment_method" gorm:"column:payment_method;type:varchar(30)"`
	Status  string    `json:"payment_status" gorm:"column:payment_status;type:varchar(20)"`
	PaidAt  time.Time `json:"paid_at"`
}

// ProcessPaymentRequest is the payment recording payload.
type ProcessPaymentRequest struct {
	OrderID uint    `json:"order_id" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Method  string  `json:"payment_method" validate:"required,max=30"`
}
