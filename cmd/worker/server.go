package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *WorkerConfig, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				"high":    20,
				"default": 10,
				"low":     5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("task_type", task.Type()).Msg("Task failed")
			}),
			// Called periodically with the broker connection status.
			HealthCheckFunc: func(err error) {
				if err != nil {
					log.Warn().Err(err).Msg("Redis connectivity check failed")
				}
			},
		},
	)

	go func() {
		log.Info().Msg("Worker starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("Worker failed")
		}
	}()

	return &asynqServer{Server: srv}
}

func (s *asynqServer) Shutdown() {
	log.Info().Msg("Worker shutting down")
	s.Server.Shutdown()
}
