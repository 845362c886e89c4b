package listing

import (
	"fmt"
	"sort"
	"time"
)

// Meal is a meal period label.
type Meal string

const (
	MealBreakfast Meal = "Breakfast"
	MealLunch     Meal = "Lunch"
	MealDinner    Meal = "Dinner"
)

// Location is a dining location label.
type Location string

const (
	LocationAnteatery  Location = "Anteatery"
	LocationBrandywine Location = "Brandywine"
)

// DateLayout is the wire form of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form.
type Date string

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate parses a YYYY-MM-DD day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// ParseDates parses every day in raw, failing on the first malformed one.
func ParseDates(raw []string) ([]Date, error) {
	dates := make([]Date, 0, len(raw))
	for _, s := range raw {
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// Listing is a persisted swipe offer. It is never updated in place.
type Listing struct {
	ID            string     `json:"id"`
	SwipeCount    int        `json:"swipe_count"`
	PricePerSwipe float64    `json:"price_per_swipe"`
	Dates         []Date     `json:"dates"`
	Meals         []Meal     `json:"meals"`
	Locations     []Location `json:"locations"`
	BuyerName     string     `json:"buyer_name"`
	ContactPhone  string     `json:"contact_phone"`
	Note          string     `json:"note,omitempty"`
	ListedAt      time.Time  `json:"listed_at"`
}

// Total is the full price of the offer.
func (l Listing) Total() float64 {
	return float64(l.SwipeCount) * l.PricePerSwipe
}

// Draft is an in-progress listing held by the caller.
type Draft struct {
	SwipeCount    int        `json:"swipe_count"`
	PricePerSwipe float64    `json:"price_per_swipe"`
	Dates         []Date     `json:"dates"`
	Meals         []Meal     `json:"meals"`
	Locations     []Location `json:"locations"`
	BuyerName     string     `json:"buyer_name"`
	ContactPhone  string     `json:"contact_phone"`
	Note          string     `json:"note,omitempty"`
}

// Batch is the result of a repository read. Skipped counts records that
// could not be decoded.
type Batch struct {
	Listings []Listing
	Skipped  int
}

// NormalizeDates de-duplicates days and sorts them ascending.
func NormalizeDates(dates []Date) []Date {
	seen := make(map[Date]struct{}, len(dates))
	out := make([]Date, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
