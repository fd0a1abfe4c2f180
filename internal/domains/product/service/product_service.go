package service

import (
	"context"
	"strings"

	"partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/domains/product/repository"

	"github.com/google/uuid"
)

// ServiceInterface is the product CRUD surface.
type ServiceInterface interface {
	List(ctx context.Context, req model.ListProductsRequest) ([]model.Product, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductWithBreaks, error)
	GetBySKU(ctx context.Context, sku string) (*model.ProductWithBreaks, error)
	Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.RepositoryInterface
}

func NewProductService(repo repository.RepositoryInterface) ServiceInterface {
	return &productService{repo: repo}
}

func (s *productService) List(ctx context.Context, req model.ListProductsRequest) ([]model.Product, int, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}
	return s.repo.List(ctx, req)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductWithBreaks, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withBreaks(ctx, product)
}

func (s *productService) GetBySKU(ctx context.Context, sku string) (*model.ProductWithBreaks, error) {
	product, err := s.repo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	return s.withBreaks(ctx, product)
}

func (s *productService) withBreaks(ctx context.Context, product *model.Product) (*model.ProductWithBreaks, error) {
	breaks, err := s.repo.ListPriceBreaks(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return &model.ProductWithBreaks{Product: *product, PriceBreaks: breaks}, nil
}

func (s *productService) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	rec := model.ImportRecord{
		SKU:             req.SKU,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Manufacturer:    req.Manufacturer,
		Supplier:        req.Supplier,
		UnitCost:        req.UnitCost,
		ListPrice:       req.ListPrice,
		Notes:           req.Notes,
		IsActive:        req.IsActive,
		UnitOfMeasure:   req.UnitOfMeasure,
		CountryOfOrigin: req.CountryOfOrigin,
	}

	// Same normalization path as the import pipeline, so CRUD and import
	// agree on trimming and empty-value handling.
	row, err := normalizeProductRecord(0, rec)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, row)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	// Name can be changed but never nulled.
	if req.Name.Present && (!req.Name.Valid || strings.TrimSpace(req.Name.Value) == "") {
		return nil, model.ErrProductNameRequired
	}
	return s.repo.Update(ctx, id, req)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
