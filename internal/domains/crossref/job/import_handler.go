package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"partshub-backend/internal/domains/crossref/model"
	"partshub-backend/internal/domains/crossref/service"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ImportCrossReferencesHandler replays a queued batch through the same
// import service the synchronous endpoint uses.
type ImportCrossReferencesHandler struct {
	importService service.ImportServiceInterface
}

func NewImportCrossReferencesHandler(importService service.ImportServiceInterface) *ImportCrossReferencesHandler {
	return &ImportCrossReferencesHandler{importService: importService}
}

func (h *ImportCrossReferencesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid import task payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := h.importService.ImportCrossReferences(ctx, payload.Request, payload.ImportedBy, payload.Source)
	if err != nil {
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
		Msg("Async cross reference import completed")
	return nil
}
