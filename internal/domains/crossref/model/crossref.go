package model

import (
	"time"

	"github.com/google/uuid"
)

// CrossReference maps an internal part number to customer and supplier
// part numbers. The conceptual key is the triple (internal, customer,
// supplier); the optional part numbers are stored as "" when unset so
// triple matching can use exact equality.
type CrossReference struct {
	ID                 uuid.UUID  `json:"id"`
	InternalPartNumber string     `json:"internal_part_number"`
	CustomerPartNumber string     `json:"customer_part_number"`
	SupplierPartNumber string     `json:"supplier_part_number"`
	Description        *string    `json:"description,omitempty"`
	ReferenceType      *string    `json:"reference_type,omitempty"`
	ProductID          *uuid.UUID `json:"product_id,omitempty"`
	CustomerID         *uuid.UUID `json:"customer_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NormalizedCrossReference is the canonical row produced by the import
// validator. CustomerPartNumber and SupplierPartNumber are always set
// (possibly ""), never nil: null and "" are the same key slot.
type NormalizedCrossReference struct {
	InternalPartNumber string
	CustomerPartNumber string
	SupplierPartNumber string
	Description        *string
	ReferenceType      *string
	ProductID          *uuid.UUID
	CustomerID         *uuid.UUID
}
