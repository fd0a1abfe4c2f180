package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	customerRepo "partshub-backend/internal/domains/customer/repository"
	productRepo "partshub-backend/internal/domains/product/repository"
	"partshub-backend/internal/domains/quote/model"
	"partshub-backend/internal/domains/quote/repository"
)

type ServiceInterface interface {
	List(ctx context.Context, req model.ListQuotesRequest) ([]model.Quote, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	Create(ctx context.Context, req model.CreateQuoteRequest) (*model.Quote, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateQuoteRequest) (*model.Quote, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, quoteID uuid.UUID, req model.AddItemRequest) (*model.Quote, error)
	UpdateItem(ctx context.Context, quoteID, itemID uuid.UUID, req model.UpdateItemRequest) (*model.Quote, error)
	RemoveItem(ctx context.Context, quoteID, itemID uuid.UUID) (*model.Quote, error)

	// Recompute reprices every line from current price breaks and margins
	// and returns the refreshed quote.
	Recompute(ctx context.Context, quoteID uuid.UUID) (*model.Quote, error)
}

type quoteService struct {
	quoteRepo    repository.RepositoryInterface
	customerRepo customerRepo.RepositoryInterface
	productRepo  productRepo.RepositoryInterface
}

func NewService(
	quoteRepo repository.RepositoryInterface,
	customerRepo customerRepo.RepositoryInterface,
	productRepo productRepo.RepositoryInterface,
) ServiceInterface {
	return &quoteService{
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

var hundred = decimal.NewFromInt(100)

func (s *quoteService) List(ctx context.Context, req model.ListQuotesRequest) ([]model.Quote, int, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}
	if req.Status != "" && !model.ValidStatus(req.Status) {
		return nil, 0, model.ErrInvalidStatus
	}
	return s.quoteRepo.List(ctx, req)
}

func (s *quoteService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	return s.quoteRepo.GetByID(ctx, id)
}

func (s *quoteService) Create(ctx context.Context, req model.CreateQuoteRequest) (*model.Quote, error) {
	if req.CustomerID == uuid.Nil {
		return nil, model.ErrCustomerRequired
	}
	// The customer must exist; this also surfaces a clean 404.
	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	quote := model.Quote{
		QuoteNumber: generateQuoteNumber(),
		CustomerID:  req.CustomerID,
		Status:      model.StatusDraft,
	}

	if req.ValidUntil.Present && req.ValidUntil.Valid {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(req.ValidUntil.Value))
		if err != nil {
			return nil, fmt.Errorf("valid_until must be YYYY-MM-DD")
		}
		quote.ValidUntil = &parsed
	}
	if req.Notes.Present && req.Notes.Valid {
		notes := strings.TrimSpace(req.Notes.Value)
		if notes != "" {
			quote.Notes = &notes
		}
	}

	created, err := s.quoteRepo.Create(ctx, quote)
	if err != nil {
		return nil, err
	}

	log.Info().Str("quote_number", created.QuoteNumber).Str("customer_id", created.CustomerID.String()).Msg("Quote created")
	return created, nil
}

func (s *quoteService) Update(ctx context.Context, id uuid.UUID, req model.UpdateQuoteRequest) (*model.Quote, error) {
	if req.Status.Present {
		if !req.Status.Valid || !model.ValidStatus(req.Status.Value) {
			return nil, model.ErrInvalidStatus
		}
	}
	if _, err := s.quoteRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.quoteRepo.GetByID(ctx, id)
}

func (s *quoteService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.quoteRepo.Delete(ctx, id)
}

func (s *quoteService) AddItem(ctx context.Context, quoteID uuid.UUID, req model.AddItemRequest) (*model.Quote, error) {
	if req.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	item := model.QuoteItem{
		QuoteID:   quoteID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if req.Description.Present && req.Description.Valid {
		desc := strings.TrimSpace(req.Description.Value)
		if desc != "" {
			item.Description = &desc
		}
	}

	item.UnitCost, err = s.resolveUnitCost(ctx, req.ProductID, req.Quantity, req.UnitCost.Ptr())
	if err != nil {
		return nil, err
	}
	item.UnitPrice, err = s.resolveUnitPrice(ctx, quote.CustomerID, item.UnitCost, req.UnitPrice.Ptr())
	if err != nil {
		return nil, err
	}
	item.ExtendedPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

	if _, err := s.quoteRepo.InsertItem(ctx, item); err != nil {
		return nil, err
	}

	return s.refreshTotals(ctx, quoteID)
}

func (s *quoteService) UpdateItem(ctx context.Context, quoteID, itemID uuid.UUID, req model.UpdateItemRequest) (*model.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	item, err := s.quoteRepo.GetItem(ctx, quoteID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Description.Present {
		item.Description = nil
		if req.Description.Valid {
			desc := strings.TrimSpace(req.Description.Value)
			if desc != "" {
				item.Description = &desc
			}
		}
	}

	quantityChanged := false
	if req.Quantity.Present && req.Quantity.Valid {
		if req.Quantity.Value < 1 {
			return nil, model.ErrInvalidQuantity
		}
		quantityChanged = item.Quantity != req.Quantity.Value
		item.Quantity = req.Quantity.Value
	}

	switch {
	case req.UnitCost.Present && req.UnitCost.Valid:
		item.UnitCost = req.UnitCost.Value
	case quantityChanged && item.ProductID != nil:
		// A new quantity can land in a different price break.
		cost, err := s.resolveUnitCost(ctx, item.ProductID, item.Quantity, nil)
		if err != nil {
			return nil, err
		}
		item.UnitCost = cost
	}

	if req.UnitPrice.Present && req.UnitPrice.Valid {
		item.UnitPrice = req.UnitPrice.Value
	} else if quantityChanged && !(req.UnitCost.Present && req.UnitCost.Valid) {
		price, err := s.resolveUnitPrice(ctx, quote.CustomerID, item.UnitCost, nil)
		if err != nil {
			return nil, err
		}
		item.UnitPrice = price
	}

	item.ExtendedPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

	if _, err := s.quoteRepo.UpdateItem(ctx, *item); err != nil {
		return nil, err
	}

	return s.refreshTotals(ctx, quoteID)
}

func (s *quoteService) RemoveItem(ctx context.Context, quoteID, itemID uuid.UUID) (*model.Quote, error) {
	if err := s.quoteRepo.DeleteItem(ctx, quoteID, itemID); err != nil {
		return nil, err
	}
	return s.refreshTotals(ctx, quoteID)
}

func (s *quoteService) Recompute(ctx context.Context, quoteID uuid.UUID) (*model.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	for _, item := range quote.Items {
		cost, err := s.resolveUnitCost(ctx, item.ProductID, item.Quantity, nil)
		if err != nil {
			return nil, err
		}
		price, err := s.resolveUnitPrice(ctx, quote.CustomerID, cost, nil)
		if err != nil {
			return nil, err
		}

		item.UnitCost = cost
		item.UnitPrice = price
		item.ExtendedPrice = price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if _, err := s.quoteRepo.UpdateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.refreshTotals(ctx, quoteID)
}

// resolveUnitCost picks, in order: the explicit override, the product's
// price break matching the quantity, the product's base unit cost, zero.
func (s *quoteService) resolveUnitCost(ctx context.Context, productID *uuid.UUID, quantity int, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	if productID == nil {
		return decimal.Zero, nil
	}

	pb, err := s.productRepo.FindBreakForQuantity(ctx, *productID, quantity)
	if err != nil {
		return decimal.Zero, err
	}
	if pb != nil {
		return pb.UnitCost, nil
	}

	product, err := s.productRepo.GetByID(ctx, *productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product.UnitCost != nil {
		return *product.UnitCost, nil
	}
	return decimal.Zero, nil
}

// resolveUnitPrice marks the cost up by the customer's default margin
// unless an explicit price is given.
func (s *quoteService) resolveUnitPrice(ctx context.Context, customerID uuid.UUID, unitCost decimal.Decimal, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if customer.DefaultMarginPercent == nil {
		return unitCost, nil
	}

	markup := decimal.NewFromInt(1).Add(customer.DefaultMarginPercent.Div(hundred))
	return unitCost.Mul(markup), nil
}

// refreshTotals recomputes the derived quote totals from current items
// and persists them.
func (s *quoteService) refreshTotals(ctx context.Context, quoteID uuid.UUID) (*model.Quote, error) {
	items, err := s.quoteRepo.ListItems(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	totals := ComputeTotals(items)
	if err := s.quoteRepo.UpdateTotals(ctx, quoteID, totals); err != nil {
		return nil, err
	}

	return s.quoteRepo.GetByID(ctx, quoteID)
}

// ComputeTotals derives the quote summary from its lines: subtotal of
// extended prices, total cost, margin amount and margin percent of the
// subtotal.
func ComputeTotals(items []model.QuoteItem) repository.Totals {
	totals := repository.Totals{
		Subtotal:      decimal.Zero,
		TotalCost:     decimal.Zero,
		MarginAmount:  decimal.Zero,
		MarginPercent: decimal.Zero,
	}

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		totals.Subtotal = totals.Subtotal.Add(item.ExtendedPrice)
		totals.TotalCost = totals.TotalCost.Add(item.UnitCost.Mul(qty))
	}

	totals.MarginAmount = totals.Subtotal.Sub(totals.TotalCost)
	if totals.Subtotal.IsPositive() {
		totals.MarginPercent = totals.MarginAmount.Div(totals.Subtotal).Mul(hundred).Round(4)
	}
	return totals
}

func generateQuoteNumber() string {
	return fmt.Sprintf("Q-%s-%s",
		time.Now().UTC().Format("20060102"),
		strings.ToUpper(uuid.NewString()[:8]))
}
