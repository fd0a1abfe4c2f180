package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"partshub-backend/internal/domains/quote/model"
)

// Totals is the derived pricing summary persisted on the quote row.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalCost     decimal.Decimal
	MarginAmount  decimal.Decimal
	MarginPercent decimal.Decimal
}

type RepositoryInterface interface {
	List(ctx context.Context, req model.ListQuotesRequest) ([]model.Quote, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	Create(ctx context.Context, quote model.Quote) (*model.Quote, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateQuoteRequest) (*model.Quote, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, quoteID uuid.UUID) ([]model.QuoteItem, error)
	GetItem(ctx context.Context, quoteID, itemID uuid.UUID) (*model.QuoteItem, error)
	InsertItem(ctx context.Context, item model.QuoteItem) (*model.QuoteItem, error)
	UpdateItem(ctx context.Context, item model.QuoteItem) (*model.QuoteItem, error)
	DeleteItem(ctx context.Context, quoteID, itemID uuid.UUID) error

	// UpdateTotals persists the recomputed derived totals.
	UpdateTotals(ctx context.Context, quoteID uuid.UUID, totals Totals) error
}
