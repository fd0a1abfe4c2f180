package service

import (
	"context"
	"errors"
	"testing"
	"time"

	importlogModel "partshub-backend/internal/domains/importlog/model"
	"partshub-backend/internal/domains/product/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) List(ctx context.Context, req model.ListProductsRequest) ([]model.Product, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) Create(ctx context.Context, row model.NormalizedProduct) (*model.Product, error) {
	args := m.Called(ctx, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) BulkInsert(ctx context.Context, rows []model.NormalizedProduct) ([]model.ProductRef, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductRef), args.Error(1)
}

func (m *mockProductRepo) BulkUpsert(ctx context.Context, rows []model.NormalizedProduct) ([]model.ProductRef, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductRef), args.Error(1)
}

func (m *mockProductRepo) ReplacePriceBreaks(ctx context.Context, productID uuid.UUID, breaks []model.NormalizedPriceBreak) error {
	return m.Called(ctx, productID, breaks).Error(0)
}

func (m *mockProductRepo) ListPriceBreaks(ctx context.Context, productID uuid.UUID) ([]model.PriceBreak, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceBreak), args.Error(1)
}

func (m *mockProductRepo) FindBreakForQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*model.PriceBreak, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceBreak), args.Error(1)
}

func (m *mockProductRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockLogRepo struct{ mock.Mock }

func (m *mockLogRepo) Start(ctx context.Context, targetType string, totalRecords int, importedBy *string, source string) (uuid.UUID, error) {
	args := m.Called(ctx, targetType, totalRecords, importedBy, source)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockLogRepo) Finish(ctx context.Context, id uuid.UUID, successful, failed int, errs []string) error {
	return m.Called(ctx, id, successful, failed, errs).Error(0)
}

func (m *mockLogRepo) List(ctx context.Context, targetType string, limit int) ([]importlogModel.ImportLog, error) {
	args := m.Called(ctx, targetType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]importlogModel.ImportLog), args.Error(1)
}

func (m *mockLogRepo) FindStale(ctx context.Context, olderThan time.Duration) ([]importlogModel.ImportLog, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]importlogModel.ImportLog), args.Error(1)
}

// --- Tests ---

func record(sku, name string) model.ImportRecord {
	return model.ImportRecord{SKU: sku, Name: name}
}

func TestImportProductsShapeErrors(t *testing.T) {
	productRepo := new(mockProductRepo)
	logRepo := new(mockLogRepo)
	svc := NewImportService(productRepo, logRepo, 2)
	ctx := context.Background()

	t.Run("empty batch before any log row", func(t *testing.T) {
		_, err := svc.ImportProducts(ctx, model.ImportRequest{}, nil, "api")
		assert.ErrorIs(t, err, model.ErrEmptyBatch)
	})

	t.Run("batch too large", func(t *testing.T) {
		req := model.ImportRequest{Products: []model.ImportRecord{
			record("A", "a"), record("B", "b"), record("C", "c"),
		}}
		_, err := svc.ImportProducts(ctx, req, nil, "api")
		assert.ErrorIs(t, err, model.ErrBatchTooLarge)
	})

	t.Run("invalid mode", func(t *testing.T) {
		req := model.ImportRequest{
			Products: []model.ImportRecord{record("A", "a")},
			Mode:     "replace",
		}
		_, err := svc.ImportProducts(ctx, req, nil, "api")
		assert.ErrorIs(t, err, model.ErrInvalidMode)
	})

	// None of the shape errors may touch the audit log.
	logRepo.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImportProductsRejectedRecordDoesNotBlockSiblings(t *testing.T) {
	productRepo := new(mockProductRepo)
	logRepo := new(mockLogRepo)
	svc := NewImportService(productRepo, logRepo, 100)
	ctx := context.Background()

	logID := uuid.New()
	logRepo.On("Start", ctx, importlogModel.TargetProducts, 3, (*string)(nil), "api").Return(logID, nil).Once()

	// Only the two valid records reach the bulk write.
	productRepo.On("BulkUpsert", ctx, mock.MatchedBy(func(rows []model.NormalizedProduct) bool {
		return len(rows) == 2 && rows[0].SKU == "SKU-1" && rows[1].SKU == "SKU-2"
	})).Return([]model.ProductRef{
		{ID: uuid.New(), SKU: "SKU-1"},
		{ID: uuid.New(), SKU: "SKU-2"},
	}, nil).Once()

	logRepo.On("Finish", ctx, logID, 2, 1, mock.Anything).Return(nil).Once()

	result, err := svc.ImportProducts(ctx, model.ImportRequest{
		Products: []model.ImportRecord{
			record("SKU-1", "First"),
			record("  ", "No SKU"),
			record("SKU-2", "Second"),
		},
	}, nil, "api")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "record 1")
	assert.Contains(t, result.Errors[0], "sku")

	productRepo.AssertExpectations(t)
	logRepo.AssertExpectations(t)
}

func TestImportProductsInsertModeWholeBatchFailure(t *testing.T) {
	productRepo := new(mockProductRepo)
	logRepo := new(mockLogRepo)
	svc := NewImportService(productRepo, logRepo, 100)
	ctx := context.Background()

	logID := uuid.New()
	logRepo.On("Start", ctx, importlogModel.TargetProducts, 2, (*string)(nil), "api").Return(logID, nil).Once()
	productRepo.On("BulkInsert", ctx, mock.Anything).Return(nil, model.ErrDuplicateSKU).Once()
	logRepo.On("Finish", ctx, logID, 0, 2, mock.Anything).Return(nil).Once()

	result, err := svc.ImportProducts(ctx, model.ImportRequest{
		Products: []model.ImportRecord{record("SKU-1", "First"), record("SKU-2", "Second")},
		Mode:     model.ModeInsert,
	}, nil, "api")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "bulk insert failed for 2 records")

	productRepo.AssertExpectations(t)
	logRepo.AssertExpectations(t)
}

func TestImportProductsPriceBreakReplacement(t *testing.T) {
	productRepo := new(mockProductRepo)
	logRepo := new(mockLogRepo)
	svc := NewImportService(productRepo, logRepo, 100)
	ctx := context.Background()

	goodID := uuid.New()
	badID := uuid.New()
	logID := uuid.New()

	withBreaks := func(sku string) model.ImportRecord {
		rec := record(sku, "Part "+sku)
		rec.PriceBreaks = []model.PriceBreakInput{
			{MinQuantity: 1, UnitCost: decimal.NewFromInt(10)},
			{MinQuantity: 10, UnitCost: decimal.NewFromInt(8)},
		}
		return rec
	}

	logRepo.On("Start", ctx, importlogModel.TargetProducts, 2, (*string)(nil), "api").Return(logID, nil).Once()
	productRepo.On("BulkUpsert", ctx, mock.Anything).Return([]model.ProductRef{
		{ID: goodID, SKU: "GOOD"},
		{ID: badID, SKU: "BAD"},
	}, nil).Once()

	productRepo.On("ReplacePriceBreaks", ctx, goodID, mock.Anything).Return(nil).Once()
	productRepo.On("ReplacePriceBreaks", ctx, badID, mock.Anything).Return(errors.New("deadlock")).Once()

	logRepo.On("Finish", ctx, logID, 2, 0, mock.Anything).Return(nil).Once()

	result, err := svc.ImportProducts(ctx, model.ImportRequest{
		Products:          []model.ImportRecord{withBreaks("GOOD"), withBreaks("BAD")},
		ImportPriceBreaks: true,
	}, nil, "api")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.PriceBreaksImported)
	assert.Equal(t, 2, result.PriceBreaksFailed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "BAD")

	productRepo.AssertExpectations(t)
}

func TestImportProductsFinalizeFailureDoesNotFailBatch(t *testing.T) {
	productRepo := new(mockProductRepo)
	logRepo := new(mockLogRepo)
	svc := NewImportService(productRepo, logRepo, 100)
	ctx := context.Background()

	logID := uuid.New()
	logRepo.On("Start", ctx, importlogModel.TargetProducts, 1, (*string)(nil), "api").Return(logID, nil).Once()
	productRepo.On("BulkUpsert", ctx, mock.Anything).Return([]model.ProductRef{{ID: uuid.New(), SKU: "SKU-1"}}, nil).Once()
	logRepo.On("Finish", ctx, logID, 1, 0, mock.Anything).Return(errors.New("connection reset")).Once()

	result, err := svc.ImportProducts(ctx, model.ImportRequest{
		Products: []model.ImportRecord{record("SKU-1", "First")},
	}, nil, "api")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestNormalizeProductRecord(t *testing.T) {
	t.Run("trims and keeps optional fields absent", func(t *testing.T) {
		rec := record("  SKU-9  ", "  Widget  ")
		rec.Description = model.Some("   ") // whitespace-only collapses to absent
		rec.Category = model.Null[string]()

		row, err := normalizeProductRecord(0, rec)
		require.NoError(t, err)
		assert.Equal(t, "SKU-9", row.SKU)
		assert.Equal(t, "Widget", row.Name)
		assert.Nil(t, row.Description)
		assert.Nil(t, row.Category)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := normalizeProductRecord(4, record("SKU-1", ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record 4: name")
	})

	t.Run("price break max below min", func(t *testing.T) {
		rec := record("SKU-1", "Widget")
		rec.PriceBreaks = []model.PriceBreakInput{{
			MinQuantity: 10,
			MaxQuantity: model.Some(5),
			UnitCost:    decimal.NewFromInt(3),
		}}
		_, err := normalizeProductRecord(0, rec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_quantity")
	})

	t.Run("bad effective date", func(t *testing.T) {
		rec := record("SKU-1", "Widget")
		rec.PriceBreaks = []model.PriceBreakInput{{
			MinQuantity:   1,
			UnitCost:      decimal.NewFromInt(3),
			EffectiveDate: model.Some("01/02/2026"),
		}}
		_, err := normalizeProductRecord(0, rec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "effective_date")
	})

	t.Run("empty break list survives as empty replacement", func(t *testing.T) {
		rec := record("SKU-1", "Widget")
		rec.PriceBreaks = []model.PriceBreakInput{}

		row, err := normalizeProductRecord(0, rec)
		require.NoError(t, err)
		require.NotNil(t, row.PriceBreaks)
		assert.Len(t, row.PriceBreaks, 0)
	})
}
