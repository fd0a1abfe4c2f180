package main

import (
	"partshub-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type asynqScheduler struct {
	*asynq.Scheduler
}

// setupScheduler registers the recurring stale-import sweep and starts
// the scheduler.
func setupScheduler(cfg *WorkerConfig) *asynqScheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		nil,
	)

	entryID, err := scheduler.Register(
		cfg.StaleCheckSpec,
		asynq.NewTask(shared.TypeStaleImportCheck, nil),
		asynq.Queue("low"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register stale import check")
	}
	log.Info().Str("entry_id", entryID).Str("spec", cfg.StaleCheckSpec).Msg("Stale import check scheduled")

	go func() {
		log.Info().Msg("Scheduler starting")
		if err := scheduler.Run(); err != nil {
			log.Fatal().Err(err).Msg("Scheduler failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("Scheduler shutting down")
	s.Scheduler.Shutdown()
}
