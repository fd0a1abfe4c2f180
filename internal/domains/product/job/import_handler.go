package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/domains/product/service"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ImportProductsHandler replays a queued batch through the same import
// service the synchronous endpoint uses.
type ImportProductsHandler struct {
	importService service.ImportServiceInterface
}

func NewImportProductsHandler(importService service.ImportServiceInterface) *ImportProductsHandler {
	return &ImportProductsHandler{importService: importService}
}

func (h *ImportProductsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid import task payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := h.importService.ImportProducts(ctx, payload.Request, payload.ImportedBy, payload.Source)
	if err != nil {
		// Shape errors will fail identically on every retry.
		if errors.Is(err, model.ErrEmptyBatch) ||
			errors.Is(err, model.ErrBatchTooLarge) ||
			errors.Is(err, model.ErrInvalidMode) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	log.Info().
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Str("source", payload.Source).
		Msg("Async product import completed")
	return nil
}
