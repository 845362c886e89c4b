package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/zotswipe/internal/repository"
)

// DefaultLimit is the page size used when a caller passes no limit and for
// the refresh that follows every create.
const DefaultLimit = 20

// State is a snapshot of the observable listing cache.
type State struct {
	Listings  []Listing `json:"listings"`
	Loading   bool      `json:"loading"`
	Err       error     `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service owns the recent listings cache and the create/fetch pipeline.
type Service struct {
	repo      Repository
	events    EventPublisher
	validator *Validator
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	listings   []Listing
	inflight   int
	lastErr    error
	updatedAt  time.Time
	lastListed time.Time
	subs       map[int]chan State
	nextSub    int
}

// NewService creates a new listing service. events and logger may be nil.
func NewService(repo Repository, events EventPublisher, catalog Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:      repo,
		events:    events,
		validator: NewValidator(catalog),
		logger:    logger,
		now:       time.Now,
		subs:      make(map[int]chan State),
	}
}

// Create validates and persists a draft, then reloads the recent listings.
// A failed reload does not undo the create; it is recorded in State.
func (s *Service) Create(ctx context.Context, d Draft) (*Listing, error) {
	d = normalizeDraft(d)
	if err := s.validator.Validate(d); err != nil {
		s.logger.Debug("listing draft rejected", "error", err)
		return nil, err
	}

	l := &Listing{
		SwipeCount:    d.SwipeCount,
		PricePerSwipe: d.PricePerSwipe,
		Dates:         d.Dates,
		Meals:         d.Meals,
		Locations:     d.Locations,
		BuyerName:     d.BuyerName,
		ContactPhone:  d.ContactPhone,
		Note:          d.Note,
		ListedAt:      s.nextListedAt(),
	}

	if err := s.repo.Insert(ctx, l); err != nil {
		err = fmt.Errorf("inserting listing: %w: %w", ErrPersistence, err)
		s.mu.Lock()
		s.lastErr = err
		s.publishLocked()
		s.mu.Unlock()
		return nil, err
	}
	s.logger.Info("listing created", "id", l.ID, "swipes", l.SwipeCount, "price", l.PricePerSwipe)

	if s.events != nil {
		if err := s.events.PublishCreated(ctx, *l); err != nil {
			s.logger.Warn("failed to publish listing event", "id", l.ID, "error", err)
		}
	}

	if _, err := s.FetchRecent(ctx, DefaultLimit); err != nil {
		s.logger.Warn("failed to refresh listings after create", "id", l.ID, "error", err)
	}

	return l, nil
}

// FetchRecent loads at most limit listings, newest first, and replaces the
// cache. On failure the cache is kept and the error recorded.
func (s *Service) FetchRecent(ctx context.Context, limit int) ([]Listing, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.beginFetch()
	defer s.endFetch()

	batch, err := s.repo.Recent(ctx, limit)
	if err != nil {
		err = fmt.Errorf("fetching recent listings: %w: %w", ErrPersistence, err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}
	if batch.Skipped > 0 {
		s.logger.Warn("skipped malformed listings", "count", batch.Skipped)
	}

	listings := slices.Clone(batch.Listings)
	slices.SortStableFunc(listings, func(a, b Listing) int {
		return b.ListedAt.Compare(a.ListedAt)
	})
	if len(listings) > limit {
		listings = listings[:limit]
	}

	s.mu.Lock()
	s.listings = listings
	s.lastErr = nil
	s.updatedAt = s.now()
	s.mu.Unlock()

	return slices.Clone(listings), nil
}

// Get returns one listing by ID.
func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, ErrDecode) {
			return nil, err
		}
		return nil, fmt.Errorf("getting listing: %w: %w", ErrPersistence, err)
	}
	return l, nil
}

// State returns the current cache snapshot.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives the current snapshot and every
// later one. A slow reader only sees the latest pending snapshot.
func (s *Service) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 1)
	ch <- s.snapshotLocked()
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Service) beginFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.publishLocked()
}

func (s *Service) endFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	s.publishLocked()
}

func (s *Service) publishLocked() {
	st := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

func (s *Service) snapshotLocked() State {
	return State{
		Listings:  slices.Clone(s.listings),
		Loading:   s.inflight > 0,
		Err:       s.lastErr,
		UpdatedAt: s.updatedAt,
	}
}

// nextListedAt rounds the clock up to whole milliseconds and keeps the
// sequence strictly increasing within the process.
func (s *Service) nextListedAt() time.Time {
	now := s.now().UTC()
	t := now.Truncate(time.Millisecond)
	if t.Before(now) {
		t = t.Add(time.Millisecond)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !t.After(s.lastListed) {
		t = s.lastListed.Add(time.Millisecond)
	}
	s.lastListed = t
	return t
}

func normalizeDraft(d Draft) Draft {
	d.BuyerName = strings.TrimSpace(d.BuyerName)
	d.Dates = NormalizeDates(d.Dates)
	d.Meals = dedupe(d.Meals)
	d.Locations = dedupe(d.Locations)
	return d
}
