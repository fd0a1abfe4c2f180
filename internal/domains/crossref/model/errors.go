package model

import "errors"

var (
	// ErrCrossReferenceNotFound is returned when a lookup misses.
	ErrCrossReferenceNotFound = errors.New("cross reference not found")

	// ErrEmptyBatch is returned for an import call with zero records,
	// before any log row is created.
	ErrEmptyBatch = errors.New("import batch is empty")

	// ErrBatchTooLarge is returned when a batch exceeds the configured cap.
	ErrBatchTooLarge = errors.New("import batch exceeds the maximum size")

	// ErrInvalidMode is returned for an unknown import mode.
	ErrInvalidMode = errors.New("import mode must be \"insert\" or \"upsert\"")
)
