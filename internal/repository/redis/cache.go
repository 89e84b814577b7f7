package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
)

const (
	catalogCachePrefix = "workspace:"
	catalogCacheTTL    = 5 * time.Minute
)

// CatalogCache caches workspace catalog records in Redis. Reservation data
// is never cached: conflict decisions always read the store inside the slot
// lock.
type CatalogCache struct {
	client *Client
}

// NewCatalogCache creates a new catalog cache
func NewCatalogCache(client *Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// Get retrieves a cached workspace
func (c *CatalogCache) Get(ctx context.Context, workspaceID uuid.UUID) (*domain.Workspace, error) {
	key := fmt.Sprintf("%s%s", catalogCachePrefix, workspaceID.String())

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var workspace domain.Workspace
	if err := json.Unmarshal(data, &workspace); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workspace: %w", err)
	}

	return &workspace, nil
}

// Set caches a workspace
func (c *CatalogCache) Set(ctx context.Context, workspace *domain.Workspace) error {
	key := fmt.Sprintf("%s%s", catalogCachePrefix, workspace.ID.String())

	data, err := json.Marshal(workspace)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, catalogCacheTTL).Err()
}

// Invalidate removes a cached workspace
func (c *CatalogCache) Invalidate(ctx context.Context, workspaceID uuid.UUID) error {
	key := fmt.Sprintf("%s%s", catalogCachePrefix, workspaceID.String())
	return c.client.rdb.Del(ctx, key).Err()
}

// FlushAll removes every cached workspace
func (c *CatalogCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := catalogCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
