package service

import (
	"context"
	"fmt"
	"strings"

	importlogRepo "partshub-backend/internal/domains/importlog/repository"
	"partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/domains/product/repository"
	"partshub-backend/internal/shared/utils"

	importlogModel "partshub-backend/internal/domains/importlog/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

// ImportServiceInterface defines the product import pipeline.
type ImportServiceInterface interface {
	// ImportProducts runs one batch: audit log start, per-record
	// validate/normalize, bulk write, optional price break replacement,
	// audit log completion.
	ImportProducts(ctx context.Context, req model.ImportRequest, importedBy *string, source string) (*model.ImportResult, error)

	// ParseImportFile converts an uploaded CSV/XLSX file into import records.
	ParseImportFile(filename string, data []byte) ([]model.ImportRecord, error)

	// DeleteAll removes every product. The confirmation guard lives in
	// the handler.
	DeleteAll(ctx context.Context) (int64, error)
}

type importService struct {
	productRepo  repository.RepositoryInterface
	logRepo      importlogRepo.RepositoryInterface
	maxBatchSize int
}

func NewImportService(productRepo repository.RepositoryInterface, logRepo importlogRepo.RepositoryInterface, maxBatchSize int) ImportServiceInterface {
	if maxBatchSize <= 0 {
		maxBatchSize = 1000
	}
	return &importService{
		productRepo:  productRepo,
		logRepo:      logRepo,
		maxBatchSize: maxBatchSize,
	}
}

func (s *importService) ImportProducts(ctx context.Context, req model.ImportRequest, importedBy *string, source string) (*model.ImportResult, error) {
	// Shape errors short-circuit before any log row exists.
	if len(req.Products) == 0 {
		return nil, model.ErrEmptyBatch
	}
	if len(req.Products) > s.maxBatchSize {
		return nil, model.ErrBatchTooLarge
	}

	mode := req.Mode
	if mode == "" {
		mode = model.ModeUpsert
	}
	if mode != model.ModeInsert && mode != model.ModeUpsert {
		return nil, model.ErrInvalidMode
	}

	log.Info().
		Int("total_records", len(req.Products)).
		Str("mode", string(mode)).
		Bool("import_price_breaks", req.ImportPriceBreaks).
		Str("source", source).
		Msg("Starting product import")

	logID, err := s.logRepo.Start(ctx, importlogModel.TargetProducts, len(req.Products), importedBy, source)
	if err != nil {
		return nil, fmt.Errorf("failed to start import log: %w", err)
	}

	result := &model.ImportResult{ImportLogID: &logID}

	// Per-record validation. Rejected records never block their siblings.
	normalized := make([]model.NormalizedProduct, 0, len(req.Products))
	for i, rec := range req.Products {
		row, err := normalizeProductRecord(i, rec)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		normalized = append(normalized, row)
	}

	refs, execErrs := s.applyProducts(ctx, normalized, mode)
	result.Imported = len(refs)
	if len(execErrs) > 0 {
		result.Failed += len(normalized) - len(refs)
		result.Errors = append(result.Errors, execErrs...)
	}

	if req.ImportPriceBreaks {
		s.replacePriceBreaks(ctx, normalized, refs, result)
	}

	if err := s.logRepo.Finish(ctx, logID, result.Imported, result.Failed, result.Errors); err != nil {
		// The batch itself succeeded; report but do not fail the call.
		log.Error().Err(err).Str("import_log_id", logID.String()).Msg("Failed to finalize import log")
	}

	log.Info().
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Int("price_breaks_imported", result.PriceBreaksImported).
		Int("price_breaks_failed", result.PriceBreaksFailed).
		Msg("Product import finished")

	return result, nil
}

// applyProducts executes the batch write for the validated rows.
func (s *importService) applyProducts(ctx context.Context, rows []model.NormalizedProduct, mode model.ImportMode) ([]model.ProductRef, []string) {
	if len(rows) == 0 {
		return nil, nil
	}

	if mode == model.ModeInsert {
		// Insert mode has no partial-success guarantee: one conflict
		// fails every remaining row.
		refs, err := s.productRepo.BulkInsert(ctx, rows)
		if err != nil {
			return nil, []string{fmt.Sprintf("bulk insert failed for %d records: %v", len(rows), err)}
		}
		return refs, nil
	}

	refs, err := s.productRepo.BulkUpsert(ctx, rows)
	if err != nil {
		return nil, []string{fmt.Sprintf("bulk upsert failed for %d records: %v", len(rows), err)}
	}
	return refs, nil
}

// replacePriceBreaks swaps price break sets for products that carried them.
// A failure for one product is recorded and the rest continue; the product
// row itself stays committed.
func (s *importService) replacePriceBreaks(ctx context.Context, rows []model.NormalizedProduct, refs []model.ProductRef, result *model.ImportResult) {
	idBySKU := make(map[string]model.ProductRef, len(refs))
	for _, ref := range refs {
		idBySKU[ref.SKU] = ref
	}

	for _, row := range rows {
		if row.PriceBreaks == nil {
			continue
		}
		ref, ok := idBySKU[row.SKU]
		if !ok {
			// The product write itself failed; already counted.
			continue
		}

		if err := s.productRepo.ReplacePriceBreaks(ctx, ref.ID, row.PriceBreaks); err != nil {
			result.PriceBreaksFailed += len(row.PriceBreaks)
			result.Errors = append(result.Errors,
				fmt.Sprintf("product %s: price break import failed: %v", row.SKU, err))
			continue
		}
		result.PriceBreaksImported += len(row.PriceBreaks)
	}
}

func (s *importService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.productRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	log.Warn().Int64("deleted", deleted).Msg("All products deleted")
	return deleted, nil
}

// ===================================
// VALIDATION / NORMALIZATION
// ===================================

// normalizeProductRecord produces the canonical row shape or a rejection
// naming the record index and field.
func normalizeProductRecord(index int, rec model.ImportRecord) (model.NormalizedProduct, error) {
	sku := strings.TrimSpace(rec.SKU)
	name := strings.TrimSpace(rec.Name)

	if err := validation.Validate(sku, validation.Required); err != nil {
		return model.NormalizedProduct{}, fmt.Errorf("record %d: sku: %v", index, err)
	}
	if err := validation.Validate(name, validation.Required); err != nil {
		return model.NormalizedProduct{}, fmt.Errorf("record %d: name: %v", index, err)
	}

	row := model.NormalizedProduct{
		SKU:             sku,
		Name:            name,
		Description:     optionalString(rec.Description),
		Category:        optionalString(rec.Category),
		Manufacturer:    optionalString(rec.Manufacturer),
		Supplier:        optionalString(rec.Supplier),
		UnitCost:        rec.UnitCost.Ptr(),
		ListPrice:       rec.ListPrice.Ptr(),
		WeightKg:        rec.WeightKg.Ptr(),
		LengthCm:        rec.LengthCm.Ptr(),
		WidthCm:         rec.WidthCm.Ptr(),
		HeightCm:        rec.HeightCm.Ptr(),
		LeadTimeDays:    rec.LeadTimeDays.Ptr(),
		MinOrderQty:     rec.MinOrderQty.Ptr(),
		ReorderPoint:    rec.ReorderPoint.Ptr(),
		QuantityOnHand:  rec.QuantityOnHand.Ptr(),
		Barcode:         optionalString(rec.Barcode),
		UnitOfMeasure:   optionalString(rec.UnitOfMeasure),
		CountryOfOrigin: optionalString(rec.CountryOfOrigin),
		HSCode:          optionalString(rec.HSCode),
		Notes:           optionalString(rec.Notes),
		IsActive:        rec.IsActive.Ptr(),
	}

	if rec.PriceBreaks != nil {
		breaks := make([]model.NormalizedPriceBreak, 0, len(rec.PriceBreaks))
		for j, pb := range rec.PriceBreaks {
			nb, err := normalizePriceBreak(index, j, pb)
			if err != nil {
				return model.NormalizedProduct{}, err
			}
			breaks = append(breaks, nb)
		}
		row.PriceBreaks = breaks
	}

	return row, nil
}

func normalizePriceBreak(recordIndex, breakIndex int, pb model.PriceBreakInput) (model.NormalizedPriceBreak, error) {
	if err := validation.Validate(pb.MinQuantity, validation.Required, validation.Min(1)); err != nil {
		return model.NormalizedPriceBreak{}, fmt.Errorf("record %d: price_breaks[%d].min_quantity: %v", recordIndex, breakIndex, err)
	}
	if pb.UnitCost.IsNegative() {
		return model.NormalizedPriceBreak{}, fmt.Errorf("record %d: price_breaks[%d].unit_cost: must be non-negative", recordIndex, breakIndex)
	}

	nb := model.NormalizedPriceBreak{
		MinQuantity:     pb.MinQuantity,
		MaxQuantity:     pb.MaxQuantity.Ptr(),
		UnitCost:        pb.UnitCost,
		Description:     optionalString(pb.Description),
		DiscountPercent: pb.DiscountPercent.Ptr(),
	}

	if nb.MaxQuantity != nil && *nb.MaxQuantity < nb.MinQuantity {
		return model.NormalizedPriceBreak{}, fmt.Errorf("record %d: price_breaks[%d].max_quantity: must be >= min_quantity", recordIndex, breakIndex)
	}

	if date := optionalString(pb.EffectiveDate); date != nil {
		parsed, err := model.ParseEffectiveDate(*date)
		if err != nil {
			return model.NormalizedPriceBreak{}, fmt.Errorf("record %d: price_breaks[%d].effective_date: must be YYYY-MM-DD", recordIndex, breakIndex)
		}
		nb.EffectiveDate = &parsed
	}

	return nb, nil
}

// optionalString trims a present string; empty-after-trim and explicit
// null both normalize to absent, never to "".
func optionalString(o model.Optional[string]) *string {
	if !o.Present || !o.Valid {
		return nil
	}
	return utils.TrimToNil(&o.Value)
}
