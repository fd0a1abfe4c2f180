package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================================
// IMPORT DTOs
// ===================================

// ImportMode selects batch write semantics.
type ImportMode string

const (
	// ModeInsert bulk-inserts all validated rows; any database error
	// fails the whole remaining batch.
	ModeInsert ImportMode = "insert"

	// ModeUpsert bulk-upserts keyed on sku. Default.
	ModeUpsert ImportMode = "upsert"
)

// ImportRequest is the batch import payload.
type ImportRequest struct {
	Products          []ImportRecord `json:"products"`
	Mode              ImportMode     `json:"mode,omitempty"`
	ImportPriceBreaks bool           `json:"import_price_breaks,omitempty"`
}

// ImportRecord is one raw product record from the caller. Optional fields
// keep present/null/value distinct so partial updates stay partial.
type ImportRecord struct {
	SKU             string                    `json:"sku"`
	Name            string                    `json:"name"`
	Description     Optional[string]          `json:"description"`
	Category        Optional[string]          `json:"category"`
	Manufacturer    Optional[string]          `json:"manufacturer"`
	Supplier        Optional[string]          `json:"supplier"`
	UnitCost        Optional[decimal.Decimal] `json:"unit_cost"`
	ListPrice       Optional[decimal.Decimal] `json:"list_price"`
	WeightKg        Optional[decimal.Decimal] `json:"weight_kg"`
	LengthCm        Optional[decimal.Decimal] `json:"length_cm"`
	WidthCm         Optional[decimal.Decimal] `json:"width_cm"`
	HeightCm        Optional[decimal.Decimal] `json:"height_cm"`
	LeadTimeDays    Optional[int]             `json:"lead_time_days"`
	MinOrderQty     Optional[int]             `json:"min_order_quantity"`
	ReorderPoint    Optional[int]             `json:"reorder_point"`
	QuantityOnHand  Optional[int]             `json:"quantity_on_hand"`
	Barcode         Optional[string]          `json:"barcode"`
	UnitOfMeasure   Optional[string]          `json:"unit_of_measure"`
	CountryOfOrigin Optional[string]          `json:"country_of_origin"`
	HSCode          Optional[string]          `json:"hs_code"`
	Notes           Optional[string]          `json:"notes"`
	IsActive        Optional[bool]            `json:"is_active"`
	PriceBreaks     []PriceBreakInput         `json:"price_breaks,omitempty"`
}

// PriceBreakInput is one raw price break row.
type PriceBreakInput struct {
	MinQuantity     int                       `json:"min_quantity"`
	MaxQuantity     Optional[int]             `json:"max_quantity"`
	UnitCost        decimal.Decimal           `json:"unit_cost"`
	Description     Optional[string]          `json:"description"`
	DiscountPercent Optional[decimal.Decimal] `json:"discount_percent"`
	EffectiveDate   Optional[string]          `json:"effective_date"` // YYYY-MM-DD
}

// ImportResult is the batch outcome. Per-record failures are data here,
// not errors: one bad record never aborts its siblings.
type ImportResult struct {
	Imported            int        `json:"imported"`
	Failed              int        `json:"failed"`
	Errors              []string   `json:"errors,omitempty"`
	ImportLogID         *uuid.UUID `json:"import_log_id,omitempty"`
	PriceBreaksImported int        `json:"price_breaks_imported"`
	PriceBreaksFailed   int        `json:"price_breaks_failed"`
}

// ===================================
// CRUD DTOs
// ===================================

// CreateProductRequest creates a product through the CRUD surface.
type CreateProductRequest struct {
	SKU             string                    `json:"sku" binding:"required"`
	Name            string                    `json:"name" binding:"required"`
	Description     Optional[string]          `json:"description"`
	Category        Optional[string]          `json:"category"`
	Manufacturer    Optional[string]          `json:"manufacturer"`
	Supplier        Optional[string]          `json:"supplier"`
	UnitCost        Optional[decimal.Decimal] `json:"unit_cost"`
	ListPrice       Optional[decimal.Decimal] `json:"list_price"`
	Notes           Optional[string]          `json:"notes"`
	IsActive        Optional[bool]            `json:"is_active"`
	UnitOfMeasure   Optional[string]          `json:"unit_of_measure"`
	CountryOfOrigin Optional[string]          `json:"country_of_origin"`
}

// UpdateProductRequest carries only the fields to change; absent fields
// are left untouched.
type UpdateProductRequest struct {
	Name            Optional[string]          `json:"name"`
	Description     Optional[string]          `json:"description"`
	Category        Optional[string]          `json:"category"`
	Manufacturer    Optional[string]          `json:"manufacturer"`
	Supplier        Optional[string]          `json:"supplier"`
	UnitCost        Optional[decimal.Decimal] `json:"unit_cost"`
	ListPrice       Optional[decimal.Decimal] `json:"list_price"`
	Notes           Optional[string]          `json:"notes"`
	IsActive        Optional[bool]            `json:"is_active"`
	UnitOfMeasure   Optional[string]          `json:"unit_of_measure"`
	CountryOfOrigin Optional[string]          `json:"country_of_origin"`
}

// ListProductsRequest are the list filters.
type ListProductsRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Supplier string `form:"supplier"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit    int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

// ProductWithBreaks is the detail response shape.
type ProductWithBreaks struct {
	Product
	PriceBreaks []PriceBreak `json:"price_breaks"`
}

// EffectiveDateLayout is the accepted date format for price break imports.
const EffectiveDateLayout = "2006-01-02"

// ParseEffectiveDate validates and parses a price break effective date.
func ParseEffectiveDate(s string) (time.Time, error) {
	return time.Parse(EffectiveDateLayout, s)
}
