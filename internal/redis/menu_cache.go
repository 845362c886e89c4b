package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/zotswipe/internal/domain/menu"
	"github.com/rpggio/zotswipe/internal/repository"
)

// DefaultMenuTTL bounds how long a decoded menu is served from cache.
const DefaultMenuTTL = 10 * time.Minute

const menuKeyPrefix = "zotswipe:menu:"

// MenuCache implements menu.Cache with JSON values under a TTL.
type MenuCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewMenuCache creates a menu cache. A non-positive ttl uses DefaultMenuTTL.
func NewMenuCache(client redis.Cmdable, ttl time.Duration) *MenuCache {
	if ttl <= 0 {
		ttl = DefaultMenuTTL
	}
	return &MenuCache{client: client, ttl: ttl}
}

func menuKey(location string) string {
	return menuKeyPrefix + location
}

// Get returns the cached menu or repository.ErrNotFound.
func (c *MenuCache) Get(ctx context.Context, location string) (*menu.Restaurant, error) {
	data, err := c.client.Get(ctx, menuKey(location)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read menu cache for %s: %w", location, err)
	}

	var r menu.Restaurant
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode cached menu for %s: %w", location, err)
	}
	return &r, nil
}

// Set stores r for location.
func (c *MenuCache) Set(ctx context.Context, location string, r *menu.Restaurant) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode menu for %s: %w", location, err)
	}
	if err := c.client.Set(ctx, menuKey(location), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write menu cache for %s: %w", location, err)
	}
	return nil
}
