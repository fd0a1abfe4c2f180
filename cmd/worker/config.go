package main

import (
	"strconv"
	"time"

	"partshub-backend/internal/shared/utils"

	"github.com/rs/zerolog/log"
)

// WorkerConfig holds the worker-specific configuration.
type WorkerConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int

	// StaleAfter is the age past which an in_progress import log is
	// considered abandoned.
	StaleAfter time.Duration

	// StaleCheckSpec is the cron spec for the stale-import sweep.
	StaleCheckSpec string
}

func loadWorkerConfig() *WorkerConfig {
	cfg := &WorkerConfig{
		RedisAddr:      utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		RedisPassword:  utils.GetEnvVariable("REDIS_PASSWORD", ""),
		RedisDB:        envInt("REDIS_DB", 0),
		Concurrency:    envInt("WORKER_CONCURRENCY", 10),
		StaleAfter:     time.Duration(envInt("IMPORT_STALE_AFTER_MINUTES", 60)) * time.Minute,
		StaleCheckSpec: utils.GetEnvVariable("IMPORT_STALE_CHECK_SPEC", "@every 10m"),
	}

	log.Info().
		Str("redis", cfg.RedisAddr).
		Int("concurrency", cfg.Concurrency).
		Dur("stale_after", cfg.StaleAfter).
		Msg("Worker config loaded")

	return cfg
}

func envInt(key string, defaultValue int) int {
	raw := utils.GetEnvVariable(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
