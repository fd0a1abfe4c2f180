package repository

import (
	"context"

	"github.com/google/uuid"

	"partshub-backend/internal/domains/crossref/model"
)

type RepositoryInterface interface {
	List(ctx context.Context, req model.ListRequest) ([]model.CrossReference, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CrossReference, error)

	// FindByTriple matches the exact (internal, customer, supplier) key.
	// Unset part numbers are "" on both sides. Returns (nil, nil) on miss.
	FindByTriple(ctx context.Context, internal, customer, supplier string) (*model.CrossReference, error)

	Insert(ctx context.Context, row model.NormalizedCrossReference) (*model.CrossReference, error)
	UpdateByID(ctx context.Context, id uuid.UUID, row model.NormalizedCrossReference) error
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkInsert writes the whole batch in one statement; any failure
	// fails the entire batch.
	BulkInsert(ctx context.Context, rows []model.NormalizedCrossReference) (int, error)

	// FindProductIDBySKU resolves a product id for linking. Returns
	// (nil, nil) when no product has that sku.
	FindProductIDBySKU(ctx context.Context, sku string) (*uuid.UUID, error)

	DeleteAll(ctx context.Context) (int64, error)
}
