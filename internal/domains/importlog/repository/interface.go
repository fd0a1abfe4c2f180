package repository

import (
	"context"
	"time"

	"partshub-backend/internal/domains/importlog/model"

	"github.com/google/uuid"
)

// RepositoryInterface is the audit trail for import batches.
type RepositoryInterface interface {
	// Start writes the in_progress row before any record is processed.
	Start(ctx context.Context, targetType string, totalRecords int, importedBy *string, source string) (uuid.UUID, error)

	// Finish writes the single completion update: counts, error list,
	// completed_at and final status.
	Finish(ctx context.Context, id uuid.UUID, successful, failed int, errs []string) error

	// List returns the most recent logs, optionally filtered by target type.
	List(ctx context.Context, targetType string, limit int) ([]model.ImportLog, error)

	// FindStale returns in_progress rows older than the threshold. Used by
	// the worker's detector, which only reports them.
	FindStale(ctx context.Context, olderThan time.Duration) ([]model.ImportLog, error)
}
