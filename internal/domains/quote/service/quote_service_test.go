package service

import (
	"context"
	"testing"

	customerModel "partshub-backend/internal/domains/customer/model"
	productModel "partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/domains/quote/model"
	"partshub-backend/internal/domains/quote/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockQuoteRepo struct{ mock.Mock }

func (m *mockQuoteRepo) List(ctx context.Context, req model.ListQuotesRequest) ([]model.Quote, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]model.Quote), args.Int(1), args.Error(2)
}

func (m *mockQuoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *mockQuoteRepo) Create(ctx context.Context, quote model.Quote) (*model.Quote, error) {
	args := m.Called(ctx, quote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *mockQuoteRepo) Update(ctx context.Context, id uuid.UUID, req model.UpdateQuoteRequest) (*model.Quote, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *mockQuoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockQuoteRepo) ListItems(ctx context.Context, quoteID uuid.UUID) ([]model.QuoteItem, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuoteItem), args.Error(1)
}

func (m *mockQuoteRepo) GetItem(ctx context.Context, quoteID, itemID uuid.UUID) (*model.QuoteItem, error) {
	args := m.Called(ctx, quoteID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuoteItem), args.Error(1)
}

func (m *mockQuoteRepo) InsertItem(ctx context.Context, item model.QuoteItem) (*model.QuoteItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuoteItem), args.Error(1)
}

func (m *mockQuoteRepo) UpdateItem(ctx context.Context, item model.QuoteItem) (*model.QuoteItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuoteItem), args.Error(1)
}

func (m *mockQuoteRepo) DeleteItem(ctx context.Context, quoteID, itemID uuid.UUID) error {
	return m.Called(ctx, quoteID, itemID).Error(0)
}

func (m *mockQuoteRepo) UpdateTotals(ctx context.Context, quoteID uuid.UUID, totals repository.Totals) error {
	return m.Called(ctx, quoteID, totals).Error(0)
}

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) List(ctx context.Context, req customerModel.ListCustomersRequest) ([]customerModel.Customer, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]customerModel.Customer), args.Int(1), args.Error(2)
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*customerModel.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *mockCustomerRepo) Create(ctx context.Context, req customerModel.CreateCustomerRequest) (*customerModel.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *mockCustomerRepo) Update(ctx context.Context, id uuid.UUID, req customerModel.UpdateCustomerRequest) (*customerModel.Customer, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) List(ctx context.Context, req productModel.ListProductsRequest) ([]productModel.Product, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]productModel.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*productModel.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productModel.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySKU(ctx context.Context, sku string) (*productModel.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productModel.Product), args.Error(1)
}

func (m *mockProductRepo) Create(ctx context.Context, row productModel.NormalizedProduct) (*productModel.Product, error) {
	args := m.Called(ctx, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productModel.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, id uuid.UUID, req productModel.UpdateProductRequest) (*productModel.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productModel.Product), args.Error(1)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) BulkInsert(ctx context.Context, rows []productModel.NormalizedProduct) ([]productModel.ProductRef, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]productModel.ProductRef), args.Error(1)
}

func (m *mockProductRepo) BulkUpsert(ctx context.Context, rows []productModel.NormalizedProduct) ([]productModel.ProductRef, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]productModel.ProductRef), args.Error(1)
}

func (m *mockProductRepo) ReplacePriceBreaks(ctx context.Context, productID uuid.UUID, breaks []productModel.NormalizedPriceBreak) error {
	return m.Called(ctx, productID, breaks).Error(0)
}

func (m *mockProductRepo) ListPriceBreaks(ctx context.Context, productID uuid.UUID) ([]productModel.PriceBreak, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]productModel.PriceBreak), args.Error(1)
}

func (m *mockProductRepo) FindBreakForQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*productModel.PriceBreak, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productModel.PriceBreak), args.Error(1)
}

func (m *mockProductRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- Tests ---

func TestComputeTotals(t *testing.T) {
	t.Run("empty quote has zero totals", func(t *testing.T) {
		totals := ComputeTotals(nil)
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.TotalCost.IsZero())
		assert.True(t, totals.MarginAmount.IsZero())
		assert.True(t, totals.MarginPercent.IsZero())
	})

	t.Run("sums lines and derives margin", func(t *testing.T) {
		totals := ComputeTotals([]model.QuoteItem{
			{Quantity: 10, UnitCost: dec("10.00"), UnitPrice: dec("12.50"), ExtendedPrice: dec("125.00")},
			{Quantity: 3, UnitCost: dec("5.00"), UnitPrice: dec("7.00"), ExtendedPrice: dec("21.00")},
		})

		assert.True(t, totals.Subtotal.Equal(dec("146.00")), "subtotal %s", totals.Subtotal)
		assert.True(t, totals.TotalCost.Equal(dec("115.00")), "total cost %s", totals.TotalCost)
		assert.True(t, totals.MarginAmount.Equal(dec("31.00")), "margin %s", totals.MarginAmount)
		// 31 / 146 * 100, rounded to 4 places.
		assert.True(t, totals.MarginPercent.Equal(dec("21.2329")), "margin percent %s", totals.MarginPercent)
	})

	t.Run("no float drift on repeating decimals", func(t *testing.T) {
		totals := ComputeTotals([]model.QuoteItem{
			{Quantity: 3, UnitCost: dec("0.10"), UnitPrice: dec("0.30"), ExtendedPrice: dec("0.90")},
		})

		assert.True(t, totals.TotalCost.Equal(dec("0.30")), "total cost %s", totals.TotalCost)
		assert.True(t, totals.MarginAmount.Equal(dec("0.60")), "margin %s", totals.MarginAmount)
	})

	t.Run("zero subtotal leaves margin percent zero", func(t *testing.T) {
		totals := ComputeTotals([]model.QuoteItem{
			{Quantity: 5, UnitCost: dec("2.00"), UnitPrice: dec("0"), ExtendedPrice: dec("0")},
		})
		assert.True(t, totals.MarginPercent.IsZero())
	})
}

func TestAddItemPricesFromBreakAndMargin(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	custRepo := new(mockCustomerRepo)
	prodRepo := new(mockProductRepo)
	svc := NewService(quoteRepo, custRepo, prodRepo)
	ctx := context.Background()

	quoteID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()
	margin := dec("20")

	quote := &model.Quote{ID: quoteID, CustomerID: customerID, Status: model.StatusDraft}

	quoteRepo.On("GetByID", ctx, quoteID).Return(quote, nil)
	prodRepo.On("FindBreakForQuantity", ctx, productID, 50).
		Return(&productModel.PriceBreak{ProductID: productID, MinQuantity: 25, UnitCost: dec("4.50")}, nil).Once()
	custRepo.On("GetByID", ctx, customerID).
		Return(&customerModel.Customer{ID: customerID, DefaultMarginPercent: &margin}, nil).Once()

	// 4.50 cost marked up 20% is 5.40; extended over 50 units is 270.
	quoteRepo.On("InsertItem", ctx, mock.MatchedBy(func(item model.QuoteItem) bool {
		return item.UnitCost.Equal(dec("4.50")) &&
			item.UnitPrice.Equal(dec("5.40")) &&
			item.ExtendedPrice.Equal(dec("270.00"))
	})).Return(&model.QuoteItem{ID: uuid.New()}, nil).Once()

	quoteRepo.On("ListItems", ctx, quoteID).Return([]model.QuoteItem{
		{Quantity: 50, UnitCost: dec("4.50"), UnitPrice: dec("5.40"), ExtendedPrice: dec("270.00")},
	}, nil).Once()
	quoteRepo.On("UpdateTotals", ctx, quoteID, mock.MatchedBy(func(totals repository.Totals) bool {
		return totals.Subtotal.Equal(dec("270.00")) && totals.TotalCost.Equal(dec("225.00"))
	})).Return(nil).Once()

	_, err := svc.AddItem(ctx, quoteID, model.AddItemRequest{
		ProductID: &productID,
		Quantity:  50,
	})

	require.NoError(t, err)
	quoteRepo.AssertExpectations(t)
	prodRepo.AssertExpectations(t)
	custRepo.AssertExpectations(t)
}

func TestAddItemFallsBackToBaseCost(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	custRepo := new(mockCustomerRepo)
	prodRepo := new(mockProductRepo)
	svc := NewService(quoteRepo, custRepo, prodRepo)
	ctx := context.Background()

	quoteID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()
	baseCost := dec("3.25")

	quoteRepo.On("GetByID", ctx, quoteID).Return(&model.Quote{ID: quoteID, CustomerID: customerID}, nil)
	prodRepo.On("FindBreakForQuantity", ctx, productID, 5).Return(nil, nil).Once()
	prodRepo.On("GetByID", ctx, productID).
		Return(&productModel.Product{ID: productID, SKU: "SKU-1", UnitCost: &baseCost}, nil).Once()
	// Customer without a default margin: price equals cost.
	custRepo.On("GetByID", ctx, customerID).
		Return(&customerModel.Customer{ID: customerID}, nil).Once()

	quoteRepo.On("InsertItem", ctx, mock.MatchedBy(func(item model.QuoteItem) bool {
		return item.UnitCost.Equal(baseCost) && item.UnitPrice.Equal(baseCost)
	})).Return(&model.QuoteItem{ID: uuid.New()}, nil).Once()
	quoteRepo.On("ListItems", ctx, quoteID).Return([]model.QuoteItem{}, nil).Once()
	quoteRepo.On("UpdateTotals", ctx, quoteID, mock.Anything).Return(nil).Once()

	_, err := svc.AddItem(ctx, quoteID, model.AddItemRequest{ProductID: &productID, Quantity: 5})

	require.NoError(t, err)
	prodRepo.AssertExpectations(t)
}

func TestAddItemExplicitOverridesSkipLookups(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	custRepo := new(mockCustomerRepo)
	prodRepo := new(mockProductRepo)
	svc := NewService(quoteRepo, custRepo, prodRepo)
	ctx := context.Background()

	quoteID := uuid.New()
	quoteRepo.On("GetByID", ctx, quoteID).Return(&model.Quote{ID: quoteID, CustomerID: uuid.New()}, nil)

	quoteRepo.On("InsertItem", ctx, mock.MatchedBy(func(item model.QuoteItem) bool {
		return item.UnitCost.Equal(dec("1.00")) &&
			item.UnitPrice.Equal(dec("9.99")) &&
			item.ExtendedPrice.Equal(dec("19.98"))
	})).Return(&model.QuoteItem{ID: uuid.New()}, nil).Once()
	quoteRepo.On("ListItems", ctx, quoteID).Return([]model.QuoteItem{}, nil).Once()
	quoteRepo.On("UpdateTotals", ctx, quoteID, mock.Anything).Return(nil).Once()

	_, err := svc.AddItem(ctx, quoteID, model.AddItemRequest{
		Quantity:  2,
		UnitCost:  productModel.Some(dec("1.00")),
		UnitPrice: productModel.Some(dec("9.99")),
	})

	require.NoError(t, err)
	prodRepo.AssertNotCalled(t, "FindBreakForQuantity", mock.Anything, mock.Anything, mock.Anything)
	custRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	svc := NewService(new(mockQuoteRepo), new(mockCustomerRepo), new(mockProductRepo))

	_, err := svc.AddItem(context.Background(), uuid.New(), model.AddItemRequest{Quantity: 0})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestUpdateItemQuantityChangeReprices(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	custRepo := new(mockCustomerRepo)
	prodRepo := new(mockProductRepo)
	svc := NewService(quoteRepo, custRepo, prodRepo)
	ctx := context.Background()

	quoteID := uuid.New()
	itemID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()
	margin := dec("10")

	quoteRepo.On("GetByID", ctx, quoteID).Return(&model.Quote{ID: quoteID, CustomerID: customerID}, nil)
	quoteRepo.On("GetItem", ctx, quoteID, itemID).Return(&model.QuoteItem{
		ID:        itemID,
		QuoteID:   quoteID,
		ProductID: &productID,
		Quantity:  10,
		UnitCost:  dec("5.00"),
		UnitPrice: dec("5.50"),
	}, nil).Once()

	// 100 units lands in a cheaper break; cost and price both re-derive.
	prodRepo.On("FindBreakForQuantity", ctx, productID, 100).
		Return(&productModel.PriceBreak{ProductID: productID, MinQuantity: 100, UnitCost: dec("4.00")}, nil).Once()
	custRepo.On("GetByID", ctx, customerID).
		Return(&customerModel.Customer{ID: customerID, DefaultMarginPercent: &margin}, nil).Once()

	quoteRepo.On("UpdateItem", ctx, mock.MatchedBy(func(item model.QuoteItem) bool {
		return item.Quantity == 100 &&
			item.UnitCost.Equal(dec("4.00")) &&
			item.UnitPrice.Equal(dec("4.40")) &&
			item.ExtendedPrice.Equal(dec("440.00"))
	})).Return(&model.QuoteItem{ID: itemID}, nil).Once()
	quoteRepo.On("ListItems", ctx, quoteID).Return([]model.QuoteItem{}, nil).Once()
	quoteRepo.On("UpdateTotals", ctx, quoteID, mock.Anything).Return(nil).Once()

	_, err := svc.UpdateItem(ctx, quoteID, itemID, model.UpdateItemRequest{
		Quantity: productModel.Some(100),
	})

	require.NoError(t, err)
	quoteRepo.AssertExpectations(t)
	prodRepo.AssertExpectations(t)
}

func TestUpdateItemExplicitCostSuppressesRepricing(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	custRepo := new(mockCustomerRepo)
	prodRepo := new(mockProductRepo)
	svc := NewService(quoteRepo, custRepo, prodRepo)
	ctx := context.Background()

	quoteID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()

	quoteRepo.On("GetByID", ctx, quoteID).Return(&model.Quote{ID: quoteID, CustomerID: uuid.New()}, nil)
	quoteRepo.On("GetItem", ctx, quoteID, itemID).Return(&model.QuoteItem{
		ID:        itemID,
		QuoteID:   quoteID,
		ProductID: &productID,
		Quantity:  10,
		UnitCost:  dec("5.00"),
		UnitPrice: dec("6.00"),
	}, nil).Once()

	// An explicit cost pins pricing even though the quantity changed.
	quoteRepo.On("UpdateItem", ctx, mock.MatchedBy(func(item model.QuoteItem) bool {
		return item.UnitCost.Equal(dec("2.00")) && item.UnitPrice.Equal(dec("6.00"))
	})).Return(&model.QuoteItem{ID: itemID}, nil).Once()
	quoteRepo.On("ListItems", ctx, quoteID).Return([]model.QuoteItem{}, nil).Once()
	quoteRepo.On("UpdateTotals", ctx, quoteID, mock.Anything).Return(nil).Once()

	_, err := svc.UpdateItem(ctx, quoteID, itemID, model.UpdateItemRequest{
		Quantity: productModel.Some(20),
		UnitCost: productModel.Some(dec("2.00")),
	})

	require.NoError(t, err)
	prodRepo.AssertNotCalled(t, "FindBreakForQuantity", mock.Anything, mock.Anything, mock.Anything)
	custRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateQuoteRequiresCustomer(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	custRepo := new(mockCustomerRepo)
	svc := NewService(quoteRepo, custRepo, new(mockProductRepo))
	ctx := context.Background()

	t.Run("nil customer id", func(t *testing.T) {
		_, err := svc.Create(ctx, model.CreateQuoteRequest{})
		assert.ErrorIs(t, err, model.ErrCustomerRequired)
	})

	t.Run("unknown customer", func(t *testing.T) {
		customerID := uuid.New()
		custRepo.On("GetByID", ctx, customerID).Return(nil, customerModel.ErrCustomerNotFound).Once()

		_, err := svc.Create(ctx, model.CreateQuoteRequest{CustomerID: customerID})
		assert.ErrorIs(t, err, customerModel.ErrCustomerNotFound)
		quoteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
