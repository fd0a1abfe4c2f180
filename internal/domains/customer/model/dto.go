package model

import (
	product "partshub-backend/internal/domains/product/model"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest is the create payload; only name is required.
type CreateCustomerRequest struct {
	Name                 string                            `json:"name"`
	Code                 product.Optional[string]          `json:"code"`
	ContactName          product.Optional[string]          `json:"contact_name"`
	Email                product.Optional[string]          `json:"email"`
	Phone                product.Optional[string]          `json:"phone"`
	Address              product.Optional[string]          `json:"address"`
	DefaultMarginPercent product.Optional[decimal.Decimal] `json:"default_margin_percent"`
	Notes                product.Optional[string]          `json:"notes"`
}

// UpdateCustomerRequest carries only the fields present in the payload.
type UpdateCustomerRequest struct {
	Name                 product.Optional[string]          `json:"name"`
	Code                 product.Optional[string]          `json:"code"`
	ContactName          product.Optional[string]          `json:"contact_name"`
	Email                product.Optional[string]          `json:"email"`
	Phone                product.Optional[string]          `json:"phone"`
	Address              product.Optional[string]          `json:"address"`
	DefaultMarginPercent product.Optional[decimal.Decimal] `json:"default_margin_percent"`
	Notes                product.Optional[string]          `json:"notes"`
	IsActive             product.Optional[bool]            `json:"is_active"`
}

// ListCustomersRequest are the list filters.
type ListCustomersRequest struct {
	Search string `form:"search"` // matches name or code
	Active *bool  `form:"active"`
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}
