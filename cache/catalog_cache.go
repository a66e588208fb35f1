// Package cache holds the Redis-backed scan-preview cache. Import and
// refresh always scan live; only the preview endpoint reads through here.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/db"

	"github.com/redis/go-redis/v9"
)

// catalogTTL keeps previews fresh enough that a just-pushed folder shows up
// quickly.
const catalogTTL = 5 * time.Minute

// catalogKey builds the Redis key for one repository's catalog.
func catalogKey(owner, repo string) string {
	return fmt.Sprintf("catalog:%s/%s", owner, repo)
}

// GetCatalog returns the cached catalog for owner/repo, or nil on a miss.
// A nil Redis client (cache disabled) always misses.
func GetCatalog(ctx context.Context, owner, repo string) (*github.Catalog, error) {
	if db.RedisClient == nil {
		return nil, nil
	}

	raw, err := db.RedisClient.Get(ctx, catalogKey(owner, repo)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to read catalog cache for %s/%s: %w", owner, repo, err)
	}

	var catalog github.Catalog
	if err := json.Unmarshal([]byte(raw), &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode cached catalog for %s/%s: %w", owner, repo, err)
	}
	return &catalog, nil
}

// SetCatalog stores a catalog under the repository key with a short TTL.
// A nil Redis client is a no-op.
func SetCatalog(ctx context.Context, catalog *github.Catalog) error {
	if db.RedisClient == nil {
		return nil
	}

	raw, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog for %s/%s: %w", catalog.Owner, catalog.Repo, err)
	}

	if err := db.RedisClient.Set(ctx, catalogKey(catalog.Owner, catalog.Repo), raw, catalogTTL).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache for %s/%s: %w", catalog.Owner, catalog.Repo, err)
	}
	return nil
}
