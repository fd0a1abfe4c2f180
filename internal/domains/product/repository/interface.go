package repository

import (
	"context"

	"partshub-backend/internal/domains/product/model"

	"github.com/google/uuid"
)

// RepositoryInterface is the product data access contract.
type RepositoryInterface interface {
	List(ctx context.Context, req model.ListProductsRequest) ([]model.Product, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)
	Create(ctx context.Context, row model.NormalizedProduct) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkInsert writes all rows in one statement. Any database error
	// (a duplicate sku included) fails the entire call; insert mode has
	// no partial-success guarantee.
	BulkInsert(ctx context.Context, rows []model.NormalizedProduct) ([]model.ProductRef, error)

	// BulkUpsert writes all rows in one statement keyed on sku. Columns
	// a row does not provide keep their stored values.
	BulkUpsert(ctx context.Context, rows []model.NormalizedProduct) ([]model.ProductRef, error)

	// ReplacePriceBreaks swaps the full price break set for one product.
	// Delete and insert run in one transaction.
	ReplacePriceBreaks(ctx context.Context, productID uuid.UUID, breaks []model.NormalizedPriceBreak) error

	ListPriceBreaks(ctx context.Context, productID uuid.UUID) ([]model.PriceBreak, error)

	// FindBreakForQuantity returns the applicable price break for a
	// quantity: highest min_quantity whose range contains it.
	FindBreakForQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*model.PriceBreak, error)

	// DeleteAll removes every product (price breaks cascade). Guarded at
	// the handler by an explicit confirmation parameter.
	DeleteAll(ctx context.Context) (int64, error)
}
