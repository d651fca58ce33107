package cache

import (
	"context"
	"encoding/json"
	"errors"

	"assetshare/pkg/logger"
)

// Fetch returns the cached value for key, or calls load and caches its
// result. Cache failures degrade to a direct load; they are logged, never
// returned. Load errors are returned as is and nothing is cached.
func Fetch[T any](ctx context.Context, store Store, log *logger.Logger, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	if raw, err := store.Get(ctx, key); err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Warn("Discarding undecodable cache entry", "key", key.String())
	} else if !errors.Is(err, ErrMiss) {
		log.Warn("Cache read failed", "key", key.String(), "error", err)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn("Cache encode failed", "key", key.String(), "error", err)
		return value, nil
	}
	if err := store.Set(ctx, key, raw); err != nil {
		log.Warn("Cache write failed", "key", key.String(), "error", err)
	}
	return value, nil
}

// Seed stores value under key, as if it had just been fetched.
func Seed[T any](ctx context.Context, store Store, log *logger.Logger, key Key, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn("Cache encode failed", "key", key.String(), "error", err)
		return
	}
	if err := store.Set(ctx, key, raw); err != nil {
		log.Warn("Cache write failed", "key", key.String(), "error", err)
	}
}
