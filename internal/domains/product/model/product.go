package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the persisted row. SKU is the unique business key; every
// other column besides Name is independently nullable.
type Product struct {
	ID              uuid.UUID        `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Manufacturer    *string          `json:"manufacturer,omitempty"`
	Supplier        *string          `json:"supplier,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	ListPrice       *decimal.Decimal `json:"list_price,omitempty"`
	WeightKg        *decimal.Decimal `json:"weight_kg,omitempty"`
	LengthCm        *decimal.Decimal `json:"length_cm,omitempty"`
	WidthCm         *decimal.Decimal `json:"width_cm,omitempty"`
	HeightCm        *decimal.Decimal `json:"height_cm,omitempty"`
	LeadTimeDays    *int             `json:"lead_time_days,omitempty"`
	MinOrderQty     *int             `json:"min_order_quantity,omitempty"`
	ReorderPoint    *int             `json:"reorder_point,omitempty"`
	QuantityOnHand  *int             `json:"quantity_on_hand,omitempty"`
	Barcode         *string          `json:"barcode,omitempty"`
	UnitOfMeasure   *string          `json:"unit_of_measure,omitempty"`
	CountryOfOrigin *string          `json:"country_of_origin,omitempty"`
	HSCode          *string          `json:"hs_code,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// PriceBreak is a quantity-tiered cost row owned by a product. Imports
// replace the full set for a product, never merge.
type PriceBreak struct {
	ID              uuid.UUID        `json:"id"`
	ProductID       uuid.UUID        `json:"product_id"`
	MinQuantity     int              `json:"min_quantity"`
	MaxQuantity     *int             `json:"max_quantity,omitempty"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
	Description     *string          `json:"description,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	EffectiveDate   *time.Time       `json:"effective_date,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ProductRef identifies a row touched by a bulk write; the import service
// uses it to attach price breaks to the right product ids.
type ProductRef struct {
	ID  uuid.UUID
	SKU string
}

// NormalizedProduct is the canonical row shape produced by the import
// validator. nil means "not provided": bulk upserts leave those columns
// untouched on existing rows.
type NormalizedProduct struct {
	SKU             string
	Name            string
	Description     *string
	Category        *string
	Manufacturer    *string
	Supplier        *string
	UnitCost        *decimal.Decimal
	ListPrice       *decimal.Decimal
	WeightKg        *decimal.Decimal
	LengthCm        *decimal.Decimal
	WidthCm         *decimal.Decimal
	HeightCm        *decimal.Decimal
	LeadTimeDays    *int
	MinOrderQty     *int
	ReorderPoint    *int
	QuantityOnHand  *int
	Barcode         *string
	UnitOfMeasure   *string
	CountryOfOrigin *string
	HSCode          *string
	Notes           *string
	IsActive        *bool

	// PriceBreaks is nil when the record carried none; an empty non-nil
	// slice still replaces (clears) the stored set.
	PriceBreaks []NormalizedPriceBreak
}

// NormalizedPriceBreak is the validated child row.
type NormalizedPriceBreak struct {
	MinQuantity     int
	MaxQuantity     *int
	UnitCost        decimal.Decimal
	Description     *string
	DiscountPercent *decimal.Decimal
	EffectiveDate   *time.Time
}
