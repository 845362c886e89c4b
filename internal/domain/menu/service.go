package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/rpggio/zotswipe/internal/repository"
)

// DefaultHalls are the dining halls served by the menu API.
var DefaultHalls = []string{"anteatery", "brandywine"}

// Service is a read-through menu reader.
type Service struct {
	fetcher Fetcher
	cache   Cache
	halls   []string
	logger  *slog.Logger
}

// NewService creates a new menu service. cache and logger may be nil; an
// empty halls list uses DefaultHalls.
func NewService(fetcher Fetcher, cache Cache, halls []string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(halls) == 0 {
		halls = DefaultHalls
	}
	normalized := make([]string, 0, len(halls))
	for _, h := range halls {
		normalized = append(normalized, normalizeLocation(h))
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		halls:   normalized,
		logger:  logger,
	}
}

// Halls returns the configured hall names.
func (s *Service) Halls() []string {
	return slices.Clone(s.halls)
}

// Fetch returns the menu for one hall, serving from cache when possible.
func (s *Service) Fetch(ctx context.Context, location string) (*Restaurant, error) {
	location = normalizeLocation(location)
	if !slices.Contains(s.halls, location) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, location)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("menu cache read failed", "location", location, "error", err)
		}
	}

	restaurant, err := s.fetcher.FetchRestaurant(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetching menu for %s: %w", location, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, location, restaurant); err != nil {
			s.logger.Warn("menu cache write failed", "location", location, "error", err)
		}
	}
	return restaurant, nil
}

// FetchAll fetches every configured hall. A failing hall is reported in its
// Result and never fails the others.
func (s *Service) FetchAll(ctx context.Context) []Result {
	results := make([]Result, len(s.halls))
	var wg sync.WaitGroup
	for i, hall := range s.halls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			restaurant, err := s.Fetch(ctx, hall)
			if err != nil {
				s.logger.Warn("menu fetch failed", "location", hall, "error", err)
			}
			results[i] = Result{Location: hall, Restaurant: restaurant, Err: err}
		}()
	}
	wg.Wait()
	return results
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
