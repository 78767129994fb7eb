package models

import "time"

// Product represents a product in the store.
type Product struct {
	ID           uint      `json:"product_id" gorm:"primaryKey;column:product_id"`
	Name         string    `json:"name" gorm:"type:varchar(100);index" validate:"required,min=2,max=100"`
	Description  string    `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Price        float64   `json:"price" validate:"required,gt=0"`
	DiscountRate float64   `json:"discount_rate" validate:"gte=0,lte=100"`
	FinalPrice   float64   `json:"final_price" validate:"gte=0"`
	Stock        int       `json:"stock" validate:"gte=0"`
	Category     string    `json:"category" gorm:"type:varchar(50);index"`
	Tags         string    `json:"tags" gorm:"type:varchar(255)"`
	WhatEvent    string    `json:"what_event" gorm:"type:varchar(50)"`
	SalesCount   int       `json:"sales_count"`
	ImageURL     string    `json:"image_url" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductQuery carries the browse filters: everything optional, pagination
// defaulting to the first page of ten items.
type ProductQuery struct {
	Name      string
	PriceFrom float64
	PriceTo   float64
	Category  string
	Tag       string
	Event     string
	Sort      string // e.g. "final_price_asc", "sales_count_desc"
	Limit     int
	Page      int
}
