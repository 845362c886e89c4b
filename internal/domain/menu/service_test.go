package menu_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/zotswipe/internal/domain/menu"
	"github.com/rpggio/zotswipe/internal/repository"
	"github.com/rpggio/zotswipe/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMenuService_Fetch_CacheMiss(t *testing.T) {
	ctx := context.Background()
	fetcher := &mocks.MenuFetcher{}
	cache := &mocks.MenuCache{}
	restaurant := &menu.Restaurant{Restaurant: "Anteatery"}

	cache.On("Get", ctx, "anteatery").Return(nil, repository.ErrNotFound)
	fetcher.On("FetchRestaurant", ctx, "anteatery").Return(restaurant, nil)
	cache.On("Set", ctx, "anteatery", restaurant).Return(nil)

	svc := menu.NewService(fetcher, cache, nil, nil)

	got, err := svc.Fetch(ctx, " Anteatery ")
	require.NoError(t, err)
	require.Equal(t, "Anteatery", got.Restaurant)
	cache.AssertExpectations(t)
	fetcher.AssertExpectations(t)
}

func TestMenuService_Fetch_CacheHit(t *testing.T) {
	ctx := context.Background()
	fetcher := &mocks.MenuFetcher{}
	cache := &mocks.MenuCache{}

	cache.On("Get", ctx, "brandywine").Return(&menu.Restaurant{Restaurant: "Brandywine"}, nil)

	svc := menu.NewService(fetcher, cache, nil, nil)

	got, err := svc.Fetch(ctx, "brandywine")
	require.NoError(t, err)
	require.Equal(t, "Brandywine", got.Restaurant)
	fetcher.AssertNotCalled(t, "FetchRestaurant", mock.Anything, mock.Anything)
}

func TestMenuService_Fetch_CacheErrorsBypassed(t *testing.T) {
	ctx := context.Background()
	fetcher := &mocks.MenuFetcher{}
	cache := &mocks.MenuCache{}
	restaurant := &menu.Restaurant{Restaurant: "Anteatery"}

	cache.On("Get", ctx, "anteatery").Return(nil, errors.New("redis down"))
	fetcher.On("FetchRestaurant", ctx, "anteatery").Return(restaurant, nil)
	cache.On("Set", ctx, "anteatery", restaurant).Return(errors.New("redis down"))

	svc := menu.NewService(fetcher, cache, nil, nil)

	got, err := svc.Fetch(ctx, "anteatery")
	require.NoError(t, err)
	require.Same(t, restaurant, got)
}

func TestMenuService_Fetch_UnknownLocation(t *testing.T) {
	svc := menu.NewService(&mocks.MenuFetcher{}, nil, nil, nil)

	_, err := svc.Fetch(context.Background(), "pippin")
	require.ErrorIs(t, err, menu.ErrUnknownLocation)
}

func TestMenuService_FetchAll_PartialFailure(t *testing.T) {
	ctx := context.Background()
	fetcher := &mocks.MenuFetcher{}

	fetcher.On("FetchRestaurant", ctx, "anteatery").Return(&menu.Restaurant{Restaurant: "Anteatery"}, nil)
	fetcher.On("FetchRestaurant", ctx, "brandywine").Return(nil, menu.ErrDecode)

	svc := menu.NewService(fetcher, nil, nil, nil)

	results := svc.FetchAll(ctx)
	require.Len(t, results, 2)

	require.Equal(t, "anteatery", results[0].Location)
	require.NoError(t, results[0].Err)
	require.Equal(t, "Anteatery", results[0].Restaurant.Restaurant)

	require.Equal(t, "brandywine", results[1].Location)
	require.ErrorIs(t, results[1].Err, menu.ErrDecode)
	require.Nil(t, results[1].Restaurant)
}

func TestMenuService_Halls(t *testing.T) {
	svc := menu.NewService(&mocks.MenuFetcher{}, nil, []string{"Anteatery"}, nil)
	require.Equal(t, []string{"anteatery"}, svc.Halls())
}
