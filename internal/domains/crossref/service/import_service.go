package service

import (
	"context"
	"fmt"
	"strings"

	"partshub-backend/internal/domains/crossref/model"
	"partshub-backend/internal/domains/crossref/repository"
	importlogModel "partshub-backend/internal/domains/importlog/model"
	importlogRepo "partshub-backend/internal/domains/importlog/repository"
	product "partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

// ImportServiceInterface defines the cross-reference import pipeline.
type ImportServiceInterface interface {
	ImportCrossReferences(ctx context.Context, req model.ImportRequest, importedBy *string, source string) (*model.ImportResult, error)

	// DeleteAll removes every cross reference. The confirmation guard
	// lives in the handler.
	DeleteAll(ctx context.Context) (int64, error)
}

type importService struct {
	crossRefRepo repository.RepositoryInterface
	logRepo      importlogRepo.RepositoryInterface
	maxBatchSize int
}

func NewImportService(crossRefRepo repository.RepositoryInterface, logRepo importlogRepo.RepositoryInterface, maxBatchSize int) ImportServiceInterface {
	if maxBatchSize <= 0 {
		maxBatchSize = 1000
	}
	return &importService{
		crossRefRepo: crossRefRepo,
		logRepo:      logRepo,
		maxBatchSize: maxBatchSize,
	}
}

func (s *importService) ImportCrossReferences(ctx context.Context, req model.ImportRequest, importedBy *string, source string) (*model.ImportResult, error) {
	// Shape errors short-circuit before any log row exists.
	if len(req.CrossReferences) == 0 {
		return nil, model.ErrEmptyBatch
	}
	if len(req.CrossReferences) > s.maxBatchSize {
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
		Int("total_records", len(req.CrossReferences)).
		Str("mode", string(mode)).
		Str("source", source).
		Msg("Starting cross reference import")

	logID, err := s.logRepo.Start(ctx, importlogModel.TargetCrossReferences, len(req.CrossReferences), importedBy, source)
	if err != nil {
		return nil, fmt.Errorf("failed to start import log: %w", err)
	}

	result := &model.ImportResult{ImportLogID: &logID}

	// Per-record validation. Rejected records never block their siblings.
	normalized := make([]model.NormalizedCrossReference, 0, len(req.CrossReferences))
	for i, rec := range req.CrossReferences {
		row, err := s.normalizeRecord(ctx, i, rec)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		normalized = append(normalized, row)
	}

	if mode == model.ModeInsert {
		s.applyInsert(ctx, normalized, result)
	} else {
		s.applyUpsert(ctx, normalized, result)
	}

	if err := s.logRepo.Finish(ctx, logID, result.Imported, result.Failed, result.Errors); err != nil {
		// The batch itself succeeded; report but do not fail the call.
		log.Error().Err(err).Str("import_log_id", logID.String()).Msg("Failed to finalize import log")
	}

	log.Info().
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Msg("Cross reference import finished")

	return result, nil
}

// applyInsert writes the batch in one statement. Insert mode has no
// partial-success guarantee: one conflict fails every remaining row.
func (s *importService) applyInsert(ctx context.Context, rows []model.NormalizedCrossReference, result *model.ImportResult) {
	if len(rows) == 0 {
		return
	}

	inserted, err := s.crossRefRepo.BulkInsert(ctx, rows)
	if err != nil {
		result.Failed += len(rows)
		result.Errors = append(result.Errors,
			fmt.Sprintf("bulk insert failed for %d records: %v", len(rows), err))
		return
	}
	result.Imported += inserted
}

// applyUpsert walks the batch sequentially: each row is matched on its
// exact (internal, customer, supplier) triple, then updated in place or
// inserted. A failed row is recorded and the rest continue.
func (s *importService) applyUpsert(ctx context.Context, rows []model.NormalizedCrossReference, result *model.ImportResult) {
	for _, row := range rows {
		existing, err := s.crossRefRepo.FindByTriple(ctx,
			row.InternalPartNumber, row.CustomerPartNumber, row.SupplierPartNumber)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: lookup failed: %v", row.InternalPartNumber, err))
			continue
		}

		if existing != nil {
			err = s.crossRefRepo.UpdateByID(ctx, existing.ID, row)
		} else {
			_, err = s.crossRefRepo.Insert(ctx, row)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: write failed: %v", row.InternalPartNumber, err))
			continue
		}
		result.Imported++
	}
}

func (s *importService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.crossRefRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	log.Warn().Int64("deleted", deleted).Msg("All cross references deleted")
	return deleted, nil
}

// normalizeRecord produces the canonical row or a rejection naming the
// record index and field. When no product id is supplied it is resolved
// by sku lookup on the internal part number; a lookup miss leaves the
// link null rather than failing the record.
func (s *importService) normalizeRecord(ctx context.Context, index int, rec model.ImportRecord) (model.NormalizedCrossReference, error) {
	internal := strings.TrimSpace(rec.InternalPartNumber)
	if err := validation.Validate(internal, validation.Required); err != nil {
		return model.NormalizedCrossReference{}, fmt.Errorf("record %d: internal_part_number: %v", index, err)
	}

	row := model.NormalizedCrossReference{
		InternalPartNumber: internal,
		CustomerPartNumber: keyString(rec.CustomerPartNumber),
		SupplierPartNumber: keyString(rec.SupplierPartNumber),
		Description:        optionalString(rec.Description),
		ReferenceType:      optionalString(rec.ReferenceType),
		ProductID:          rec.ProductID.Ptr(),
		CustomerID:         rec.CustomerID.Ptr(),
	}

	if row.ProductID == nil {
		id, err := s.crossRefRepo.FindProductIDBySKU(ctx, internal)
		if err != nil {
			return model.NormalizedCrossReference{}, fmt.Errorf("record %d: product lookup: %v", index, err)
		}
		row.ProductID = id
	}

	return row, nil
}

// keyString normalizes a match-key part number: absent, null and empty
// all collapse to "" so triple matching uses plain equality.
func keyString(o product.Optional[string]) string {
	if !o.Present || !o.Valid {
		return ""
	}
	return strings.TrimSpace(o.Value)
}

func optionalString(o product.Optional[string]) *string {
	if !o.Present || !o.Valid {
		return nil
	}
	return utils.TrimToNil(&o.Value)
}
