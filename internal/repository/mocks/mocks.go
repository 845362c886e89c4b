package mocks

import (
	"context"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
	"github.com/stretchr/testify/mock"
)

// ListingRepository is a mock for listing.Repository.
type ListingRepository struct {
	mock.Mock
}

func (m *ListingRepository) Insert(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *ListingRepository) Recent(ctx context.Context, limit int) (listing.Batch, error) {
	args := m.Called(ctx, limit)
	if batch, ok := args.Get(0).(listing.Batch); ok {
		return batch, args.Error(1)
	}
	return listing.Batch{}, args.Error(1)
}

func (m *ListingRepository) Get(ctx context.Context, id string) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*listing.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

// EventPublisher is a mock for listing.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishCreated(ctx context.Context, l listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

// MenuFetcher is a mock for menu.Fetcher.
type MenuFetcher struct {
	mock.Mock
}

func (m *MenuFetcher) FetchRestaurant(ctx context.Context, location string) (*menu.Restaurant, error) {
	args := m.Called(ctx, location)
	if r, ok := args.Get(0).(*menu.Restaurant); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// MenuCache is a mock for menu.Cache.
type MenuCache struct {
	mock.Mock
}

func (m *MenuCache) Get(ctx context.Context, location string) (*menu.Restaurant, error) {
	args := m.Called(ctx, location)
	if r, ok := args.Get(0).(*menu.Restaurant); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MenuCache) Set(ctx context.Context, location string, r *menu.Restaurant) error {
	args := m.Called(ctx, location, r)
	return args.Error(0)
}
