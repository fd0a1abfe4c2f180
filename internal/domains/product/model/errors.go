package model

import "errors"

// ===================================
// DOMAIN ERRORS
// ===================================

var (
	// ErrProductNotFound is returned when a product lookup misses.
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateSKU is returned when an insert hits the sku unique constraint.
	ErrDuplicateSKU = errors.New("a product with this sku already exists")

	// ErrEmptyBatch is returned for an import call with zero records,
	// before any log row is created.
	ErrEmptyBatch = errors.New("import batch is empty")

	// ErrBatchTooLarge is returned when a batch exceeds the configured cap.
	ErrBatchTooLarge = errors.New("import batch exceeds the maximum size")

	// ErrInvalidMode is returned for an unknown import mode.
	ErrInvalidMode = errors.New("import mode must be \"insert\" or \"upsert\"")

	// ErrConfirmationRequired guards destructive delete-all calls.
	ErrConfirmationRequired = errors.New("destructive operation requires confirm=yes-delete-all")

	// ErrProductNameRequired is returned when an update tries to clear name.
	ErrProductNameRequired = errors.New("product name cannot be empty")
)
