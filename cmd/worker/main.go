package main

import (
	"os"
	"os/signal"
	"syscall"

	"partshub-backend/pkg/container"
	"partshub-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}
	logger.Init(os.Getenv("APP_ENV"))

	// The worker consumes tasks; it never enqueues or archives files.
	c, err := container.NewContainerWithOptions(container.Options{
		SkipAsynqClient: true,
		SkipStorage:     true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}
	defer c.Cleanup()

	cfg := loadWorkerConfig()
	handlers := initializeHandlers(c, cfg)
	srv := setupAsynqServer(cfg, handlers)
	scheduler := setupScheduler(cfg)

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("Worker stopped")
}
