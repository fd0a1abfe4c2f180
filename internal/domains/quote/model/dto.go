package model

import (
	product "partshub-backend/internal/domains/product/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest opens a draft quote for a customer.
type CreateQuoteRequest struct {
	CustomerID uuid.UUID                `json:"customer_id"`
	ValidUntil product.Optional[string] `json:"valid_until"` // YYYY-MM-DD
	Notes      product.Optional[string] `json:"notes"`
}

// UpdateQuoteRequest carries only the fields present in the payload.
type UpdateQuoteRequest struct {
	Status     product.Optional[string] `json:"status"`
	ValidUntil product.Optional[string] `json:"valid_until"`
	Notes      product.Optional[string] `json:"notes"`
}

// AddItemRequest adds one line. UnitCost and UnitPrice are optional:
// cost defaults from the product's price break for the quantity, price
// defaults to cost marked up by the customer's default margin.
type AddItemRequest struct {
	ProductID   *uuid.UUID                        `json:"product_id,omitempty"`
	Description product.Optional[string]          `json:"description"`
	Quantity    int                               `json:"quantity"`
	UnitCost    product.Optional[decimal.Decimal] `json:"unit_cost"`
	UnitPrice   product.Optional[decimal.Decimal] `json:"unit_price"`
}

// UpdateItemRequest carries only the fields present in the payload.
type UpdateItemRequest struct {
	Description product.Optional[string]          `json:"description"`
	Quantity    product.Optional[int]             `json:"quantity"`
	UnitCost    product.Optional[decimal.Decimal] `json:"unit_cost"`
	UnitPrice   product.Optional[decimal.Decimal] `json:"unit_price"`
}

// ListQuotesRequest are the list filters.
type ListQuotesRequest struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit      int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}
