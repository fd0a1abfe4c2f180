package job

import (
	"context"
	"time"

	"partshub-backend/internal/domains/importlog/repository"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// StaleImportCheckHandler reports in_progress import logs older than the
// threshold. A stale row means an importer crashed mid-batch; the row is
// left untouched as the operator's signal and only surfaced in the logs.
type StaleImportCheckHandler struct {
	logRepo   repository.RepositoryInterface
	threshold time.Duration
}

func NewStaleImportCheckHandler(logRepo repository.RepositoryInterface, threshold time.Duration) *StaleImportCheckHandler {
	if threshold <= 0 {
		threshold = time.Hour
	}
	return &StaleImportCheckHandler{logRepo: logRepo, threshold: threshold}
}

func (h *StaleImportCheckHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	stale, err := h.logRepo.FindStale(ctx, h.threshold)
	if err != nil {
		return err
	}

	for _, entry := range stale {
		log.Warn().
			Str("import_log_id", entry.ID.String()).
			Str("target_type", entry.TargetType).
			Time("started_at", entry.StartedAt).
			Msg("Import log stuck in progress")
	}

	if len(stale) == 0 {
		log.Debug().Msg("No stale import logs found")
	}
	return nil
}
