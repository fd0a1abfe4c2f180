package model

import (
	"github.com/google/uuid"

	product "partshub-backend/internal/domains/product/model"
)

// ImportMode selects batch write semantics; same values as product imports.
type ImportMode string

const (
	ModeInsert ImportMode = "insert"
	ModeUpsert ImportMode = "upsert"
)

// ImportRequest is the batch import payload.
type ImportRequest struct {
	CrossReferences []ImportRecord `json:"cross_references"`
	Mode            ImportMode     `json:"mode,omitempty"`
}

// ImportRecord is one raw cross-reference record.
type ImportRecord struct {
	InternalPartNumber string                      `json:"internal_part_number"`
	CustomerPartNumber product.Optional[string]    `json:"customer_part_number"`
	SupplierPartNumber product.Optional[string]    `json:"supplier_part_number"`
	Description        product.Optional[string]    `json:"description"`
	ReferenceType      product.Optional[string]    `json:"reference_type"`
	ProductID          product.Optional[uuid.UUID] `json:"product_id"`
	CustomerID         product.Optional[uuid.UUID] `json:"customer_id"`
}

// ImportResult is the batch outcome.
type ImportResult struct {
	Imported    int        `json:"imported"`
	Failed      int        `json:"failed"`
	Errors      []string   `json:"errors,omitempty"`
	ImportLogID *uuid.UUID `json:"import_log_id,omitempty"`
}

// ListRequest are the list filters.
type ListRequest struct {
	Search     string `form:"search"` // matches any of the three part numbers
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit      int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

// ImportTaskPayload is the asynq task body for asynchronous imports.
type ImportTaskPayload struct {
	Request    ImportRequest `json:"request"`
	ImportedBy *string       `json:"imported_by,omitempty"`
	Source     string        `json:"source"`
}
