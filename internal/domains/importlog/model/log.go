package model

import (
	"time"

	"github.com/google/uuid"
)

// Import target types.
const (
	TargetProducts        = "products"
	TargetCrossReferences = "cross_references"
)

// Import types: single-record calls vs full batches.
const (
	TypeSingle = "single"
	TypeFull   = "full"
)

// Statuses. A row that stays in_progress is the operator's signal that a
// batch never finished cleanly; nothing ever mutates it afterwards.
const (
	StatusInProgress          = "in_progress"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
)

// ImportLog is one audit row per batch call. Created before processing,
// updated exactly once at the end; never partially visible mid-batch.
type ImportLog struct {
	ID                uuid.UUID  `json:"id"`
	TargetType        string     `json:"target_type"`
	ImportType        string     `json:"import_type"`
	TotalRecords      int        `json:"total_records"`
	SuccessfulRecords int        `json:"successful_records"`
	FailedRecords     int        `json:"failed_records"`
	Errors            []string   `json:"errors,omitempty"`
	Status            string     `json:"status"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	ImportedBy        *string    `json:"imported_by,omitempty"`
	ImportSource      string     `json:"import_source"`
}

// ImportTypeFor derives the import type from the batch size.
func ImportTypeFor(totalRecords int) string {
	if totalRecords == 1 {
		return TypeSingle
	}
	return TypeFull
}
