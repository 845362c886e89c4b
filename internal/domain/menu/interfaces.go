package menu

import "context"

// Fetcher reads a hall's menu from the upstream API.
type Fetcher interface {
	FetchRestaurant(ctx context.Context, location string) (*Restaurant, error)
}

// Cache stores decoded menus. Get returns repository.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, location string) (*Restaurant, error)
	Set(ctx context.Context, location string, r *Restaurant) error
}
