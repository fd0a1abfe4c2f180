package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"partshub-backend/internal/domains/appconfig"
	"partshub-backend/pkg/cache"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// cacheTTL keeps config reads cheap without letting flag flips take long
// to propagate.
const cacheTTL = 60 * time.Second

type postgresStore struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresStore(pool *pgxpool.Pool, cache cache.Cache) appconfig.Store {
	return &postgresStore{
		pool:  pool,
		cache: cache,
	}
}

type cachedValue struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

func cacheKey(key string) string {
	return "appconfig:" + key
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.cache != nil {
		var cached cachedValue
		hit, err := s.cache.Get(ctx, cacheKey(key), &cached)
		if err == nil && hit {
			return cached.Value, cached.Found, nil
		}
		// Cache failures fall through to the database.
	}

	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM app_config WHERE key = $1`, key,
	).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		s.storeInCache(ctx, key, "", false)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("config lookup failed: %w", err)
	}

	s.storeInCache(ctx, key, value, true)
	return value, true, nil
}

func (s *postgresStore) GetBool(ctx context.Context, key string) (bool, error) {
	value, found, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, nil
	default:
		return false, nil
	}
}

func (s *postgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO app_config (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("config write failed: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cacheKey(key))
	}
	return nil
}

func (s *postgresStore) storeInCache(ctx context.Context, key, value string, found bool) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, cacheKey(key), cachedValue{Value: value, Found: found}, cacheTTL)
}
